// Package session owns the onboarding state machine. Every forward
// transition persists the merged session record before the controller's
// current step advances, so a crash at any point resumes at the step the
// partner last completed.
package session

import (
	"context"
	"errors"
	"sync"

	ordersRepo "github.com/AKM-dv/aafa-partner/database/repository/orders"
	sessionRepo "github.com/AKM-dv/aafa-partner/database/repository/session"
	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/services/location"
)

var (
	ErrInvalidPhone      = errors.New("enter a valid 10 digit phone number")
	ErrInvalidOtp        = errors.New("enter the 6 digit code sent to your phone")
	ErrNoServiceSelected = errors.New("please select at least one service")
	ErrMissingField      = errors.New("missing required field")
	ErrPhotoRequired     = errors.New("profile photo is required")
	ErrWrongStep         = errors.New("action not allowed from the current step")
)

// Document is an uploaded file held in memory until registration submits it.
// File bytes never enter the session record; only filenames are persisted.
type Document struct {
	Filename string
	Content  []byte
}

// DocumentSet collects the verification uploads.
type DocumentSet struct {
	ProfilePhoto *Document
	Aadhaar      *Document
	PAN          *Document
	Degree       *Document
	WorkImages   []Document
}

// UserInfo is the personal-details step submission.
type UserInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// BankDetails is the final registration step submission.
type BankDetails struct {
	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
}

// LoginOutcome is the result of OTP verification. Status is "" for a clean
// outcome, or "pending"/"rejected" when the provider's application is still
// under review or was turned down.
type LoginOutcome struct {
	Step    models.Step           `json:"step"`
	Status  string                `json:"status,omitempty"`
	Notes   string                `json:"notes,omitempty"`
	Message string                `json:"message,omitempty"`
	Record  *models.SessionRecord `json:"-"`
}

type SessionService interface {
	// Resume loads the stored record once and lands on the right step.
	Resume(ctx context.Context) (models.Step, *models.SessionRecord)
	// State reports the current step and working record without touching
	// storage.
	State() (models.Step, *models.SessionRecord)

	Login(ctx context.Context, phone string) (*gateway.OtpDispatch, error)
	VerifyOtp(ctx context.Context, phone, otp string) (*LoginOutcome, error)

	SubmitUserInfo(ctx context.Context, info UserInfo) (models.Step, error)
	SubmitVerification(ctx context.Context, docs DocumentSet) (models.Step, error)
	SubmitServices(ctx context.Context, selected []models.SelectedService) (models.Step, error)
	SubmitAccountVerification(ctx context.Context, bank BankDetails) (models.Step, error)

	// Back computes the previous step. Storage is untouched; going back
	// never discards collected data.
	Back(from models.Step) models.Step

	Logout(ctx context.Context) models.Step
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Repo     sessionRepo.SessionRepository
	Orders   ordersRepo.OrdersRepository
	Gateway  *gateway.Client
	Location location.Provider

	mu      sync.Mutex
	current models.Step
	rec     *models.SessionRecord
	docs    DocumentSet
}

// NewDefaultSessionService wires the controller. The step is Anonymous until
// Resume runs.
func NewDefaultSessionService(repo sessionRepo.SessionRepository, orders ordersRepo.OrdersRepository, gw *gateway.Client, loc location.Provider) *DefaultSessionService {
	return &DefaultSessionService{
		Repo:     repo,
		Orders:   orders,
		Gateway:  gw,
		Location: loc,
		current:  models.StepAnonymous,
	}
}

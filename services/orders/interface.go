// Package orders reconciles the provider's live order list: it polls booking
// notifications, promotes them one at a time, reflects accept/reject/complete
// decisions and keeps the durable subset persisted.
package orders

import (
	"context"
	"errors"
	"sync"

	ordersRepo "github.com/AKM-dv/aafa-partner/database/repository/orders"
	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/services/location"
)

var (
	ErrNotStarted     = errors.New("order reconciler is not running")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNoNotification = errors.New("no notification to show")
	ErrInvalidAmount  = errors.New("a valid amount is required to request payment")
	ErrOtpRequired    = errors.New("enter the completion code")
)

// sessionState is the slice of the session controller the reconciler needs:
// the current record for token, provider id and phone.
type sessionState interface {
	State() (models.Step, *models.SessionRecord)
}

type ReconcilerService interface {
	// Start begins the notification poll and loads persisted orders and the
	// catalogue price cache. Idempotent while running.
	Start(ctx context.Context)
	// Stop tears down the poll and any live tracking loop. Orders stay in
	// memory; Start resumes cleanly.
	Stop()

	Orders(status models.OrderStatus) []models.LiveOrder
	AllOrders() []models.LiveOrder

	ActiveNotification() *models.BookingNotification
	ViewActive(ctx context.Context) (*models.LiveOrder, error)
	DismissActive()

	Accept(ctx context.Context, bookingID int64) error
	Reject(ctx context.Context, bookingID int64) error
	InitiateCompletion(ctx context.Context, bookingID int64) (string, error)
	Complete(ctx context.Context, bookingID int64, otp string) error
	SendPaymentLink(ctx context.Context, bookingID int64, amount float64) (*gateway.PaymentLink, error)

	RefreshOrders(ctx context.Context) error

	MarkReached(ctx context.Context, bookingID int64) error
	StopTracking(ctx context.Context, bookingID int64) error
	TrackedPositions() (int64, *gateway.TrackingInfo)
}

// DefaultReconcilerService is the production implementation.
type DefaultReconcilerService struct {
	Session  sessionState
	Gateway  *gateway.Client
	Repo     ordersRepo.OrdersRepository
	Location location.Provider

	mu     sync.Mutex
	orders []models.LiveOrder

	seen   map[string]bool
	queue  []models.BookingNotification
	active *models.BookingNotification

	catalog priceCache

	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	trackedID int64
	trackStop context.CancelFunc
	trackInfo *gateway.TrackingInfo
}

// NewDefaultReconcilerService wires the reconciler; Start must be called
// before it does anything.
func NewDefaultReconcilerService(sess sessionState, gw *gateway.Client, repo ordersRepo.OrdersRepository, loc location.Provider) *DefaultReconcilerService {
	return &DefaultReconcilerService{
		Session:  sess,
		Gateway:  gw,
		Repo:     repo,
		Location: loc,
		seen:     make(map[string]bool),
		catalog:  newPriceCache(),
	}
}

// credentials returns the token, provider id and phone of the signed-in
// provider, or ok=false when there is no usable session.
func (r *DefaultReconcilerService) credentials() (token string, providerID int64, phone string, ok bool) {
	if r.Session == nil {
		return "", 0, "", false
	}
	_, rec := r.Session.State()
	if rec == nil || rec.Token == "" {
		return "", 0, "", false
	}
	return rec.Token, rec.UserData.EffectiveProviderID(), rec.UserData.EffectivePhone(), true
}

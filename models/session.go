package models

import "time"

// NextStep is the resumption pointer stored inside the session record. An
// empty value combined with IsRegistered=false means "start from the
// beginning".
type NextStep string

const (
	NextStepNone                NextStep = ""
	NextStepUserInfo            NextStep = "userInfo"
	NextStepVerification        NextStep = "verification"
	NextStepServices            NextStep = "services"
	NextStepAccountVerification NextStep = "accountVerification"
)

// Step is a screen of the onboarding flow as the controller sees it.
type Step string

const (
	StepAnonymous           Step = "anonymous"
	StepGetStarted          Step = "getStarted"
	StepUserInfo            Step = "userInfo"
	StepVerification        Step = "verification"
	StepServices            Step = "services"
	StepAccountVerification Step = "accountVerification"
	StepHome                Step = "home"
)

// SessionRecord is the durable unit persisted by the session store. It is the
// single source of truth for resuming a suspended onboarding flow.
type SessionRecord struct {
	Token    string    `json:"token"`
	UserData UserData  `json:"userData"`
	SavedAt  time.Time `json:"savedAt"`
}

// SelectedService is one catalogue entry the provider offers.
type SelectedService struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
}

// UserData accumulates profile-building fields across onboarding steps.
// Every forward transition produces a strict superset-merge of the previous
// record plus the new step's fields.
type UserData struct {
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	CountryCode     string `json:"countryCode,omitempty"`
	FullPhoneNumber string `json:"fullPhoneNumber,omitempty"`
	OTPSessionID    string `json:"sessionId,omitempty"`

	IsRegistered      bool     `json:"isRegistered"`
	NextStep          NextStep `json:"nextStep,omitempty"`
	IsServiceProvider bool     `json:"isServiceProvider,omitempty"`
	ProviderStatus    string   `json:"providerStatus,omitempty"`

	// Server-confirmed provider profile, normalized from either of the two
	// historical payload shapes (providerDetails preferred over provider).
	ProviderDetails *ProviderProfile `json:"providerDetails,omitempty"`
	ProviderID      int64            `json:"provider_id,omitempty"`

	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`

	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	LocationAccuracy float64 `json:"locationAccuracy,omitempty"`

	// Uploaded-file references collected at the verification step.
	ProfilePhotoRef string   `json:"profilePhotoRef,omitempty"`
	AadhaarDocRef   string   `json:"aadhaarDocRef,omitempty"`
	PANDocRef       string   `json:"panDocRef,omitempty"`
	DegreeDocRef    string   `json:"degreeDocRef,omitempty"`
	WorkImageRefs   []string `json:"workImageRefs,omitempty"`

	SelectedServices []SelectedService `json:"selectedServices,omitempty"`
	ServicesProvided []int64           `json:"services_provided,omitempty"`
	CategoryIDs      []int64           `json:"category_ids,omitempty"`

	AccountHolderName string `json:"account_holder_name,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	IFSCCode          string `json:"ifsc_code,omitempty"`
}

// Merge overlays the non-zero fields of patch onto d and returns the result.
// Fields absent from the patch survive untouched, so a sequence of forward
// transitions never silently loses data.
func (d UserData) Merge(patch UserData) UserData {
	out := d

	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&out.PhoneNumber, patch.PhoneNumber)
	overlay(&out.CountryCode, patch.CountryCode)
	overlay(&out.FullPhoneNumber, patch.FullPhoneNumber)
	overlay(&out.OTPSessionID, patch.OTPSessionID)
	overlay(&out.ProviderStatus, patch.ProviderStatus)
	overlay(&out.FullName, patch.FullName)
	overlay(&out.Email, patch.Email)
	overlay(&out.Gender, patch.Gender)
	overlay(&out.Address, patch.Address)
	overlay(&out.City, patch.City)
	overlay(&out.State, patch.State)
	overlay(&out.Pincode, patch.Pincode)
	overlay(&out.ProfilePhotoRef, patch.ProfilePhotoRef)
	overlay(&out.AadhaarDocRef, patch.AadhaarDocRef)
	overlay(&out.PANDocRef, patch.PANDocRef)
	overlay(&out.DegreeDocRef, patch.DegreeDocRef)
	overlay(&out.AccountHolderName, patch.AccountHolderName)
	overlay(&out.BankName, patch.BankName)
	overlay(&out.AccountNumber, patch.AccountNumber)
	overlay(&out.IFSCCode, patch.IFSCCode)

	if patch.IsRegistered {
		out.IsRegistered = true
	}
	if patch.IsServiceProvider {
		out.IsServiceProvider = true
	}
	if patch.ProviderDetails != nil {
		out.ProviderDetails = patch.ProviderDetails
	}
	if patch.ProviderID != 0 {
		out.ProviderID = patch.ProviderID
	}
	if patch.Latitude != 0 || patch.Longitude != 0 {
		out.Latitude = patch.Latitude
		out.Longitude = patch.Longitude
	}
	if patch.LocationAccuracy != 0 {
		out.LocationAccuracy = patch.LocationAccuracy
	}
	if len(patch.WorkImageRefs) > 0 {
		out.WorkImageRefs = patch.WorkImageRefs
	}
	if len(patch.SelectedServices) > 0 {
		out.SelectedServices = patch.SelectedServices
	}
	if len(patch.ServicesProvided) > 0 {
		out.ServicesProvided = patch.ServicesProvided
	}
	if len(patch.CategoryIDs) > 0 {
		out.CategoryIDs = patch.CategoryIDs
	}
	return out
}

// EffectiveProviderID resolves the provider identity across the historical
// payload shapes.
func (d UserData) EffectiveProviderID() int64 {
	if d.ProviderDetails != nil && d.ProviderDetails.ID != 0 {
		return d.ProviderDetails.ID
	}
	return d.ProviderID
}

// EffectivePhone resolves the best-known full phone number for backend calls
// keyed by phone.
func (d UserData) EffectivePhone() string {
	if d.ProviderDetails != nil && d.ProviderDetails.PhoneNumber != "" {
		return d.ProviderDetails.PhoneNumber
	}
	if d.FullPhoneNumber != "" {
		return d.FullPhoneNumber
	}
	if d.CountryCode != "" && d.PhoneNumber != "" {
		return d.CountryCode + d.PhoneNumber
	}
	return d.PhoneNumber
}

// StepFromSession computes the screen to land on for a stored session. A nil
// record (no token) means the user is logged out.
func StepFromSession(rec *SessionRecord) Step {
	if rec == nil || rec.Token == "" {
		return StepAnonymous
	}
	if rec.UserData.IsRegistered {
		return StepHome
	}
	switch rec.UserData.NextStep {
	case NextStepServices:
		return StepServices
	case NextStepVerification:
		return StepVerification
	case NextStepUserInfo:
		return StepUserInfo
	case NextStepAccountVerification:
		return StepAccountVerification
	default:
		return StepGetStarted
	}
}

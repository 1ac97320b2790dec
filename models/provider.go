package models

import (
	"bytes"
	"strconv"
)

// ProviderProfile is the server-confirmed provider record. The backend has
// shipped it under two keys over time ("providerDetails" and "provider");
// NormalizeAuthPayload folds both into this one shape.
type ProviderProfile struct {
	ID                int64  `json:"id"`
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phone_number"`
	Gender            string `json:"gender,omitempty"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Status            string `json:"status,omitempty"`
	VerificationNotes string `json:"verification_notes,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	IFSCCode          string `json:"ifsc_code,omitempty"`
	IsOnline          int    `json:"is_online,omitempty"`
}

// AccountUser is the plain user record returned alongside auth responses.
type AccountUser struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// FlexBool tolerates the backend's historical encodings of a boolean:
// true/false, "true"/"false", 1/0 and "1"/"0".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	switch s {
	case "true", "1":
		*b = true
	case "false", "0", "null", "":
		*b = false
	default:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*b = n != 0
			return nil
		}
		*b = false
	}
	return nil
}

// Bool unwraps the flexible value.
func (b FlexBool) Bool() bool { return bool(b) }

// AuthPayload is the raw shape returned by OTP verification.
type AuthPayload struct {
	Token             string           `json:"token"`
	Registered        FlexBool         `json:"registered"`
	IsServiceProvider FlexBool         `json:"is_service_provider"`
	// Two historical keys for the same profile; ProviderDetails wins.
	ProviderDetails *ProviderProfile `json:"providerDetails"`
	Provider        *ProviderProfile `json:"provider"`
	User            *AccountUser     `json:"user"`
	Message         string           `json:"message"`
}

// ProviderStatusPayload is the raw shape returned by the provider status
// check performed after a registered login.
type ProviderStatusPayload struct {
	Registered             FlexBool         `json:"registered"`
	RedirectToRegistration FlexBool         `json:"redirect_to_registration"`
	ShowPending            FlexBool         `json:"show_pending"`
	ShowRejected           FlexBool         `json:"show_rejected"`
	Status                 string           `json:"status"`
	Provider               *ProviderProfile `json:"provider"`
	Message                string           `json:"message"`
}

// NormalizedProvider returns the canonical profile out of the aliased pair,
// preferring providerDetails when both are present.
func (p AuthPayload) NormalizedProvider() *ProviderProfile {
	if p.ProviderDetails != nil {
		return p.ProviderDetails
	}
	return p.Provider
}

// NormalizeAuthPayload converts a raw auth payload into canonical UserData.
// This is the single place the shape-shifting fields are resolved; nothing
// downstream branches on field presence.
func NormalizeAuthPayload(p AuthPayload) UserData {
	d := UserData{
		IsRegistered:      p.Registered.Bool(),
		IsServiceProvider: p.IsServiceProvider.Bool(),
	}
	if p.User != nil {
		if p.User.FullName != "" {
			d.FullName = p.User.FullName
		} else if p.User.Name != "" {
			d.FullName = p.User.Name
		}
		d.Email = p.User.Email
	}
	if prov := p.NormalizedProvider(); prov != nil {
		d.ProviderDetails = prov
		d.ProviderID = prov.ID
		if prov.FullName != "" {
			d.FullName = prov.FullName
		}
		if prov.Email != "" {
			d.Email = prov.Email
		}
	}
	return d
}

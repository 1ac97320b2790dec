package session

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

const defaultCountryCode = "+91"

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Resume loads the stored record and computes the landing step. Safe to call
// repeatedly; the store is read, never written.
func (s *DefaultSessionService) Resume(ctx context.Context) (models.Step, *models.SessionRecord) {
	rec := s.Repo.Load(ctx)
	step := models.StepFromSession(rec)

	s.mu.Lock()
	s.rec = rec
	s.current = step
	s.mu.Unlock()
	return step, rec
}

// State reports the in-memory step and record.
func (s *DefaultSessionService) State() (models.Step, *models.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.rec
}

// Login validates the phone number and dispatches the OTP.
func (s *DefaultSessionService) Login(ctx context.Context, phone string) (*gateway.OtpDispatch, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	dispatch, err := s.Gateway.SendLoginOtp(ctx, defaultCountryCode+phone)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.current == models.StepAnonymous {
		s.current = models.StepGetStarted
	}
	s.mu.Unlock()
	return dispatch, nil
}

// VerifyOtp confirms the code and routes the partner by account state. A
// registered provider gets a status check; anyone else resumes onboarding at
// the personal-details step.
func (s *DefaultSessionService) VerifyOtp(ctx context.Context, phone, otp string) (*LoginOutcome, error) {
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	if otp == "" {
		return nil, ErrInvalidOtp
	}
	full := defaultCountryCode + phone
	payload, err := s.Gateway.VerifyLoginOtp(ctx, full, otp)
	if err != nil {
		return nil, err
	}

	data := models.NormalizeAuthPayload(*payload)
	data.PhoneNumber = phone
	data.CountryCode = defaultCountryCode
	data.FullPhoneNumber = full

	rec := &models.SessionRecord{Token: payload.Token, UserData: data}
	outcome := &LoginOutcome{Message: payload.Message, Record: rec}

	if data.IsRegistered && data.IsServiceProvider {
		s.routeRegistered(ctx, rec, outcome, full)
	} else {
		s.routeUnregistered(ctx, rec, outcome)
	}

	s.Repo.Save(ctx, rec)

	s.mu.Lock()
	s.rec = rec
	s.current = outcome.Step
	s.mu.Unlock()
	return outcome, nil
}

// routeRegistered resolves where an already-registered provider lands. A
// failed status check falls through to Home; the stored registration flag is
// still good.
func (s *DefaultSessionService) routeRegistered(ctx context.Context, rec *models.SessionRecord, outcome *LoginOutcome, fullPhone string) {
	status, err := s.Gateway.VerifyProviderStatus(ctx, fullPhone)
	if err != nil {
		utils.GetLogger().Warn("provider status check failed", zap.Error(err))
		outcome.Step = models.StepHome
		return
	}
	if status.Provider != nil {
		rec.UserData.ProviderDetails = status.Provider
		rec.UserData.ProviderID = status.Provider.ID
	}
	switch {
	case status.RedirectToRegistration.Bool():
		rec.UserData.IsRegistered = false
		s.routeUnregistered(ctx, rec, outcome)
	case status.ShowRejected.Bool():
		rec.UserData.ProviderStatus = "rejected"
		outcome.Status = "rejected"
		if status.Provider != nil {
			outcome.Notes = status.Provider.VerificationNotes
		}
		outcome.Step = models.StepGetStarted
	case status.ShowPending.Bool():
		rec.UserData.ProviderStatus = "pending"
		outcome.Status = "pending"
		outcome.Step = models.StepGetStarted
	default:
		rec.UserData.ProviderStatus = status.Status
		outcome.Step = models.StepHome
	}
}

// routeUnregistered points the record at the personal-details step and makes
// two best-effort attempts that must never block login: attaching a device
// fix to the record and syncing it to the backend.
func (s *DefaultSessionService) routeUnregistered(ctx context.Context, rec *models.SessionRecord, outcome *LoginOutcome) {
	rec.UserData.IsRegistered = false
	rec.UserData.NextStep = models.NextStepUserInfo
	outcome.Step = models.StepUserInfo

	if s.Location != nil {
		if fix := s.Location.Current(ctx); fix != nil {
			rec.UserData.Latitude = fix.Latitude
			rec.UserData.Longitude = fix.Longitude
			if pid := rec.UserData.EffectiveProviderID(); pid != 0 {
				if err := s.Gateway.SetLocation(ctx, rec.Token, pid, fix.Latitude, fix.Longitude, true); err != nil {
					utils.GetLogger().Info("location sync skipped", zap.Error(err))
				}
			}
		}
	}
}

// Logout clears the stored session and orders and resets the controller.
func (s *DefaultSessionService) Logout(ctx context.Context) models.Step {
	s.Repo.Clear(ctx)
	if s.Orders != nil {
		s.Orders.Clear(ctx)
	}

	s.mu.Lock()
	s.rec = nil
	s.docs = DocumentSet{}
	s.current = models.StepAnonymous
	s.mu.Unlock()
	return models.StepAnonymous
}

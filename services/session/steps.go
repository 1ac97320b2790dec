package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// submitFrom is the fixed transition table: the only step each submission is
// legal from.
var submitFrom = map[models.NextStep]models.Step{
	models.NextStepUserInfo:            models.StepUserInfo,
	models.NextStepVerification:        models.StepVerification,
	models.NextStepServices:            models.StepServices,
	models.NextStepAccountVerification: models.StepAccountVerification,
}

// backTable maps each step to its predecessor. Steps with no predecessor map
// to themselves.
var backTable = map[models.Step]models.Step{
	models.StepUserInfo:            models.StepGetStarted,
	models.StepVerification:        models.StepUserInfo,
	models.StepServices:            models.StepVerification,
	models.StepAccountVerification: models.StepServices,
	models.StepGetStarted:          models.StepAnonymous,
}

// advance persists the merged record with the new resumption pointer, then
// moves the controller forward. The store write comes first so a crash after
// it resumes at the step just reached.
func (s *DefaultSessionService) advance(ctx context.Context, stage models.NextStep, patch models.UserData, next models.NextStep, to models.Step) (models.Step, error) {
	s.mu.Lock()
	if s.current != submitFrom[stage] {
		step := s.current
		s.mu.Unlock()
		return step, ErrWrongStep
	}
	if s.rec == nil {
		s.mu.Unlock()
		return models.StepAnonymous, ErrWrongStep
	}
	rec := *s.rec
	s.mu.Unlock()

	rec.UserData = rec.UserData.Merge(patch)
	rec.UserData.NextStep = next
	s.Repo.Save(ctx, &rec)

	s.mu.Lock()
	s.rec = &rec
	s.current = to
	s.mu.Unlock()
	return to, nil
}

// SubmitUserInfo validates and stores the personal-details step.
func (s *DefaultSessionService) SubmitUserInfo(ctx context.Context, info UserInfo) (models.Step, error) {
	required := []struct{ label, value string }{
		{"full name", info.FullName},
		{"email", info.Email},
		{"gender", info.Gender},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.StepUserInfo, fmt.Errorf("%w: %s is required", ErrMissingField, f.label)
		}
	}
	if !pincodePattern.MatchString(info.Pincode) {
		return models.StepUserInfo, fmt.Errorf("%w: enter a valid 6 digit pincode", ErrMissingField)
	}
	patch := models.UserData{
		FullName: strings.TrimSpace(info.FullName),
		Email:    strings.TrimSpace(info.Email),
		Gender:   info.Gender,
		Address:  strings.TrimSpace(info.Address),
		City:     strings.TrimSpace(info.City),
		State:    strings.TrimSpace(info.State),
		Pincode:  info.Pincode,
	}
	return s.advance(ctx, models.NextStepUserInfo, patch, models.NextStepVerification, models.StepVerification)
}

// SubmitVerification stores the document uploads. Files stay in memory until
// registration; only their names enter the record.
func (s *DefaultSessionService) SubmitVerification(ctx context.Context, docs DocumentSet) (models.Step, error) {
	if docs.ProfilePhoto == nil || len(docs.ProfilePhoto.Content) == 0 {
		return models.StepVerification, ErrPhotoRequired
	}
	patch := models.UserData{ProfilePhotoRef: docs.ProfilePhoto.Filename}
	if docs.Aadhaar != nil {
		patch.AadhaarDocRef = docs.Aadhaar.Filename
	}
	if docs.PAN != nil {
		patch.PANDocRef = docs.PAN.Filename
	}
	if docs.Degree != nil {
		patch.DegreeDocRef = docs.Degree.Filename
	}
	for _, w := range docs.WorkImages {
		patch.WorkImageRefs = append(patch.WorkImageRefs, w.Filename)
	}

	step, err := s.advance(ctx, models.NextStepVerification, patch, models.NextStepServices, models.StepServices)
	if err != nil {
		return step, err
	}
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return step, nil
}

// SubmitServices stores the service selection. An empty selection is
// rejected, and duplicate ids are collapsed.
func (s *DefaultSessionService) SubmitServices(ctx context.Context, selected []models.SelectedService) (models.Step, error) {
	if len(selected) == 0 {
		return models.StepServices, ErrNoServiceSelected
	}

	seen := make(map[int64]bool, len(selected))
	catSeen := make(map[int64]bool)
	var unique []models.SelectedService
	var serviceIDs, categoryIDs []int64
	for _, sv := range selected {
		if sv.ID == 0 || seen[sv.ID] {
			continue
		}
		seen[sv.ID] = true
		unique = append(unique, sv)
		serviceIDs = append(serviceIDs, sv.ID)
		if sv.CategoryID != 0 && !catSeen[sv.CategoryID] {
			catSeen[sv.CategoryID] = true
			categoryIDs = append(categoryIDs, sv.CategoryID)
		}
	}
	if len(unique) == 0 {
		return models.StepServices, ErrNoServiceSelected
	}

	patch := models.UserData{
		SelectedServices: unique,
		ServicesProvided: serviceIDs,
		CategoryIDs:      categoryIDs,
	}
	return s.advance(ctx, models.NextStepServices, patch, models.NextStepAccountVerification, models.StepAccountVerification)
}

// SubmitAccountVerification validates the bank details, submits the full
// registration and lands on Home.
func (s *DefaultSessionService) SubmitAccountVerification(ctx context.Context, bank BankDetails) (models.Step, error) {
	required := []struct{ label, value string }{
		{"account holder name", bank.AccountHolderName},
		{"bank name", bank.BankName},
		{"account number", bank.AccountNumber},
		{"IFSC code", bank.IFSCCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return models.StepAccountVerification, fmt.Errorf("%w: %s is required", ErrMissingField, f.label)
		}
	}

	s.mu.Lock()
	if s.current != models.StepAccountVerification || s.rec == nil {
		step := s.current
		s.mu.Unlock()
		return step, ErrWrongStep
	}
	rec := *s.rec
	docs := s.docs
	s.mu.Unlock()

	rec.UserData = rec.UserData.Merge(models.UserData{
		AccountHolderName: strings.TrimSpace(bank.AccountHolderName),
		BankName:          strings.TrimSpace(bank.BankName),
		AccountNumber:     strings.TrimSpace(bank.AccountNumber),
		IFSCCode:          strings.ToUpper(strings.TrimSpace(bank.IFSCCode)),
	})

	payload, err := s.Gateway.RegisterProvider(ctx, registrationFields(rec.UserData), registrationFiles(docs))
	if err != nil {
		return models.StepAccountVerification, err
	}

	confirmed := models.NormalizeAuthPayload(*payload)
	confirmed.IsRegistered = true
	rec.UserData = rec.UserData.Merge(confirmed)
	rec.UserData.IsRegistered = true
	rec.UserData.NextStep = models.NextStepNone
	if payload.Token != "" {
		rec.Token = payload.Token
	}
	s.Repo.Save(ctx, &rec)

	s.mu.Lock()
	s.rec = &rec
	s.docs = DocumentSet{}
	s.current = models.StepHome
	s.mu.Unlock()
	return models.StepHome, nil
}

// Back computes the previous step without touching storage. Collected data
// survives, so moving forward again re-submits instead of re-entering.
func (s *DefaultSessionService) Back(from models.Step) models.Step {
	to, ok := backTable[from]
	if !ok {
		return from
	}
	s.mu.Lock()
	if s.current == from {
		s.current = to
	}
	s.mu.Unlock()
	return to
}

// registrationFields flattens the accumulated record into the registration
// form fields.
func registrationFields(d models.UserData) map[string]string {
	ids, _ := json.Marshal(d.ServicesProvided)
	cats, _ := json.Marshal(d.CategoryIDs)
	return map[string]string{
		"full_name":           d.FullName,
		"phone_number":        d.EffectivePhone(),
		"email":               d.Email,
		"gender":              d.Gender,
		"address":             d.Address,
		"city":                d.City,
		"state":               d.State,
		"pincode":             d.Pincode,
		"latitude":            strconv.FormatFloat(d.Latitude, 'f', -1, 64),
		"longitude":           strconv.FormatFloat(d.Longitude, 'f', -1, 64),
		"account_holder_name": d.AccountHolderName,
		"bank_name":           d.BankName,
		"account_number":      d.AccountNumber,
		"ifsc_code":           d.IFSCCode,
		"services_provided":   string(ids),
		"category_ids":        string(cats),
	}
}

func registrationFiles(docs DocumentSet) []gateway.FilePart {
	var files []gateway.FilePart
	add := func(field string, doc *Document) {
		if doc != nil && len(doc.Content) > 0 {
			files = append(files, gateway.FilePart{Field: field, Filename: doc.Filename, Content: doc.Content})
		}
	}
	add("profile_photo", docs.ProfilePhoto)
	add("aadhaar_document", docs.Aadhaar)
	add("pan_document", docs.PAN)
	add("degree_certificate", docs.Degree)
	for i := range docs.WorkImages {
		add("previous_work_images", &docs.WorkImages[i])
	}
	return files
}

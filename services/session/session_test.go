package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersRepo "github.com/AKM-dv/aafa-partner/database/repository/orders"
	sessionRepo "github.com/AKM-dv/aafa-partner/database/repository/session"
	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
)

// fakeBackend scripts the remote API for a test.
type fakeBackend struct {
	verifyResponse   string
	statusResponse   string
	registerResponse string
	registerForm     map[string]string
	registerFiles    []string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id":"s1","message":"otp sent"}`))
	})
	mux.HandleFunc("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.verifyResponse))
	})
	mux.HandleFunc("/provider/verify", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.statusResponse))
	})
	mux.HandleFunc("/provider/register", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(32 << 20)
		f.registerForm = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				f.registerForm[k] = v[0]
			}
		}
		for field := range r.MultipartForm.File {
			f.registerFiles = append(f.registerFiles, field)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.registerResponse))
	})
	return mux
}

func newTestService(t *testing.T, backend *fakeBackend) (*DefaultSessionService, sessionRepo.SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	sessClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ordClient := redis.NewClient(&redis.Options{Addr: mr.Addr(), DB: 1})

	repo := sessionRepo.NewRedisSessionRepoWithClient(sessClient)
	orders := ordersRepo.NewRedisOrdersRepoWithClient(ordClient)
	gw := gateway.NewClientWithBase(srv.URL)

	svc := NewDefaultSessionService(repo, orders, gw, nil)
	return svc, repo, mr
}

func TestFreshResumeIsAnonymous(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeBackend{})
	step, rec := svc.Resume(context.Background())
	assert.Equal(t, models.StepAnonymous, step)
	assert.Nil(t, rec)

	// Resumption is idempotent.
	step, _ = svc.Resume(context.Background())
	assert.Equal(t, models.StepAnonymous, step)
}

func TestLoginValidatesPhone(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeBackend{})
	for _, phone := range []string{"", "12345", "98000000001", "98000x0000"} {
		_, err := svc.Login(context.Background(), phone)
		assert.ErrorIs(t, err, ErrInvalidPhone, phone)
	}

	dispatch, err := svc.Login(context.Background(), "9800000000")
	require.NoError(t, err)
	assert.Equal(t, "s1", dispatch.SessionID)
}

func TestVerifyOtpUnregisteredRoutesToUserInfo(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeBackend{
		verifyResponse: `{"token":"tok-1","registered":false}`,
	})
	svc.Resume(context.Background())

	outcome, err := svc.VerifyOtp(context.Background(), "9800000000", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.StepUserInfo, outcome.Step)
	assert.Empty(t, outcome.Status)

	// The record was persisted before the step advanced.
	stored := repo.Load(context.Background())
	require.NotNil(t, stored)
	assert.Equal(t, "tok-1", stored.Token)
	assert.Equal(t, models.NextStepUserInfo, stored.UserData.NextStep)
	assert.False(t, stored.UserData.IsRegistered)
	assert.Equal(t, "+919800000000", stored.UserData.FullPhoneNumber)
}

func TestVerifyOtpRegisteredApprovedLandsHome(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeBackend{
		verifyResponse: `{"token":"tok-2","registered":"1","is_service_provider":1,
			"providerDetails":{"id":7,"full_name":"Asha","phone_number":"+919800000000"}}`,
		statusResponse: `{"registered":true,"status":"approved","provider":{"id":7,"full_name":"Asha"}}`,
	})

	outcome, err := svc.VerifyOtp(context.Background(), "9800000000", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.StepHome, outcome.Step)

	stored := repo.Load(context.Background())
	require.NotNil(t, stored)
	assert.True(t, stored.UserData.IsRegistered)
	assert.Equal(t, int64(7), stored.UserData.EffectiveProviderID())

	// Reloading lands on Home.
	step, _ := svc.Resume(context.Background())
	assert.Equal(t, models.StepHome, step)
}

func TestVerifyOtpPendingOutcome(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeBackend{
		verifyResponse: `{"token":"tok-3","registered":true,"is_service_provider":true}`,
		statusResponse: `{"registered":true,"show_pending":"1"}`,
	})

	outcome, err := svc.VerifyOtp(context.Background(), "9800000000", "123456")
	require.NoError(t, err)
	assert.Equal(t, "pending", outcome.Status)
	assert.Equal(t, models.StepGetStarted, outcome.Step)
}

func TestVerifyOtpRejectedOutcomeCarriesNotes(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeBackend{
		verifyResponse: `{"token":"tok-4","registered":true,"is_service_provider":true}`,
		statusResponse: `{"registered":true,"show_rejected":true,
			"provider":{"id":3,"verification_notes":"blurry aadhaar scan"}}`,
	})

	outcome, err := svc.VerifyOtp(context.Background(), "9800000000", "123456")
	require.NoError(t, err)
	assert.Equal(t, "rejected", outcome.Status)
	assert.Equal(t, "blurry aadhaar scan", outcome.Notes)
}

func TestResumeMidOnboardingLandsOnSavedStep(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeBackend{})

	rec := &models.SessionRecord{Token: "tok-5"}
	rec.UserData.NextStep = models.NextStepServices
	repo.Save(context.Background(), rec)

	step, loaded := svc.Resume(context.Background())
	assert.Equal(t, models.StepServices, step)
	require.NotNil(t, loaded)
}

func TestSubmitFromWrongStepRejected(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeBackend{})
	svc.Resume(context.Background())

	_, err := svc.SubmitUserInfo(context.Background(), validUserInfo())
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = svc.SubmitServices(context.Background(), []models.SelectedService{{ID: 1}})
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSubmitUserInfoValidation(t *testing.T) {
	svc := serviceAtStep(t, &fakeBackend{}, models.NextStepUserInfo)

	bad := validUserInfo()
	bad.Email = ""
	_, err := svc.SubmitUserInfo(context.Background(), bad)
	assert.ErrorIs(t, err, ErrMissingField)

	bad = validUserInfo()
	bad.Pincode = "12"
	_, err = svc.SubmitUserInfo(context.Background(), bad)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSubmitServicesGate(t *testing.T) {
	svc := serviceAtStep(t, &fakeBackend{}, models.NextStepServices)

	_, err := svc.SubmitServices(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoServiceSelected)

	// Duplicate ids collapse to one.
	step, err := svc.SubmitServices(context.Background(), []models.SelectedService{
		{ID: 4, CategoryID: 2, Title: "Grooming"},
		{ID: 4, CategoryID: 2, Title: "Grooming"},
		{ID: 9, CategoryID: 2, Title: "Walking"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepAccountVerification, step)

	_, rec := svc.State()
	require.NotNil(t, rec)
	assert.Equal(t, []int64{4, 9}, rec.UserData.ServicesProvided)
	assert.Equal(t, []int64{2}, rec.UserData.CategoryIDs)
	assert.Equal(t, models.NextStepAccountVerification, rec.UserData.NextStep)
}

func TestSubmitVerificationRequiresPhoto(t *testing.T) {
	svc := serviceAtStep(t, &fakeBackend{}, models.NextStepVerification)

	_, err := svc.SubmitVerification(context.Background(), DocumentSet{})
	assert.ErrorIs(t, err, ErrPhotoRequired)

	step, err := svc.SubmitVerification(context.Background(), DocumentSet{
		ProfilePhoto: &Document{Filename: "me.jpg", Content: []byte("jpg")},
		Aadhaar:      &Document{Filename: "aadhaar.pdf", Content: []byte("pdf")},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepServices, step)

	_, rec := svc.State()
	assert.Equal(t, "me.jpg", rec.UserData.ProfilePhotoRef)
	assert.Equal(t, "aadhaar.pdf", rec.UserData.AadhaarDocRef)
}

func TestFullOnboardingWalk(t *testing.T) {
	backend := &fakeBackend{
		verifyResponse: `{"token":"tok-6","registered":false}`,
		registerResponse: `{"token":"tok-7","registered":true,
			"providerDetails":{"id":21,"full_name":"Asha","phone_number":"+919800000000","status":"pending"}}`,
	}
	svc, repo, _ := newTestService(t, backend)
	ctx := context.Background()

	svc.Resume(ctx)
	_, err := svc.Login(ctx, "9800000000")
	require.NoError(t, err)

	outcome, err := svc.VerifyOtp(ctx, "9800000000", "123456")
	require.NoError(t, err)
	require.Equal(t, models.StepUserInfo, outcome.Step)

	step, err := svc.SubmitUserInfo(ctx, validUserInfo())
	require.NoError(t, err)
	require.Equal(t, models.StepVerification, step)

	step, err = svc.SubmitVerification(ctx, DocumentSet{
		ProfilePhoto: &Document{Filename: "me.jpg", Content: []byte("jpg")},
		WorkImages:   []Document{{Filename: "w1.jpg", Content: []byte("jpg")}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StepServices, step)

	step, err = svc.SubmitServices(ctx, []models.SelectedService{{ID: 4, CategoryID: 2, Title: "Grooming"}})
	require.NoError(t, err)
	require.Equal(t, models.StepAccountVerification, step)

	step, err = svc.SubmitAccountVerification(ctx, BankDetails{
		AccountHolderName: "Asha K",
		BankName:          "HDFC",
		AccountNumber:     "1234567890",
		IFSCCode:          "hdfc0000001",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepHome, step)

	// The registration form carried the accumulated record.
	assert.Equal(t, "Asha", backend.registerForm["full_name"])
	assert.Equal(t, "+919800000000", backend.registerForm["phone_number"])
	assert.Equal(t, "HDFC0000001", backend.registerForm["ifsc_code"])
	var ids []int64
	require.NoError(t, json.Unmarshal([]byte(backend.registerForm["services_provided"]), &ids))
	assert.Equal(t, []int64{4}, ids)
	assert.Contains(t, backend.registerFiles, "profile_photo")
	assert.Contains(t, backend.registerFiles, "previous_work_images")

	stored := repo.Load(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, "tok-7", stored.Token)
	assert.True(t, stored.UserData.IsRegistered)
	assert.Equal(t, models.NextStepNone, stored.UserData.NextStep)
	assert.Equal(t, int64(21), stored.UserData.EffectiveProviderID())
	// Earlier fields survived the final merge.
	assert.Equal(t, "560001", stored.UserData.Pincode)

	step, _ = svc.Resume(ctx)
	assert.Equal(t, models.StepHome, step)
}

func TestBackIsPure(t *testing.T) {
	svc, repo, _ := newTestService(t, &fakeBackend{})

	rec := &models.SessionRecord{Token: "tok"}
	rec.UserData.NextStep = models.NextStepServices
	repo.Save(context.Background(), rec)
	svc.Resume(context.Background())

	assert.Equal(t, models.StepVerification, svc.Back(models.StepServices))
	assert.Equal(t, models.StepHome, svc.Back(models.StepHome))

	// Storage untouched: the resumption pointer still says services.
	stored := repo.Load(context.Background())
	assert.Equal(t, models.NextStepServices, stored.UserData.NextStep)
}

func TestLogoutClearsEverything(t *testing.T) {
	svc, repo, mr := newTestService(t, &fakeBackend{
		verifyResponse: `{"token":"tok-8","registered":false}`,
	})
	ctx := context.Background()

	_, err := svc.VerifyOtp(ctx, "9800000000", "123456")
	require.NoError(t, err)
	require.NotNil(t, repo.Load(ctx))

	step := svc.Logout(ctx)
	assert.Equal(t, models.StepAnonymous, step)
	assert.Nil(t, repo.Load(ctx))
	assert.Empty(t, mr.Keys())

	step, rec := svc.State()
	assert.Equal(t, models.StepAnonymous, step)
	assert.Nil(t, rec)
}

func validUserInfo() UserInfo {
	return UserInfo{
		FullName: "Asha",
		Email:    "asha@example.com",
		Gender:   "female",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}
}

// serviceAtStep seeds a stored session whose resumption pointer lands on the
// step that the given submission is legal from.
func serviceAtStep(t *testing.T, backend *fakeBackend, next models.NextStep) *DefaultSessionService {
	t.Helper()
	svc, repo, _ := newTestService(t, backend)

	rec := &models.SessionRecord{Token: "tok"}
	rec.UserData.NextStep = next
	rec.UserData.PhoneNumber = "9800000000"
	repo.Save(context.Background(), rec)
	svc.Resume(context.Background())
	return svc
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepFromSession(t *testing.T) {
	assert.Equal(t, StepAnonymous, StepFromSession(nil))
	assert.Equal(t, StepAnonymous, StepFromSession(&SessionRecord{}))

	rec := &SessionRecord{Token: "tok"}
	rec.UserData.IsRegistered = true
	assert.Equal(t, StepHome, StepFromSession(rec))

	cases := map[NextStep]Step{
		NextStepUserInfo:            StepUserInfo,
		NextStepVerification:        StepVerification,
		NextStepServices:            StepServices,
		NextStepAccountVerification: StepAccountVerification,
		NextStepNone:                StepGetStarted,
		NextStep("garbage"):         StepGetStarted,
	}
	for next, want := range cases {
		rec := &SessionRecord{Token: "tok"}
		rec.UserData.NextStep = next
		assert.Equal(t, want, StepFromSession(rec), string(next))
	}
}

func TestStepFromSessionRegisteredWinsOverNextStep(t *testing.T) {
	rec := &SessionRecord{Token: "tok"}
	rec.UserData.IsRegistered = true
	rec.UserData.NextStep = NextStepServices
	assert.Equal(t, StepHome, StepFromSession(rec))
}

func TestMergeKeepsEarlierFields(t *testing.T) {
	base := UserData{
		PhoneNumber: "9800000000",
		FullName:    "Asha",
		Email:       "asha@example.com",
	}
	merged := base.Merge(UserData{Gender: "female", City: "Bengaluru"})

	assert.Equal(t, "9800000000", merged.PhoneNumber)
	assert.Equal(t, "Asha", merged.FullName)
	assert.Equal(t, "asha@example.com", merged.Email)
	assert.Equal(t, "female", merged.Gender)
	assert.Equal(t, "Bengaluru", merged.City)
}

func TestMergeOverlaysNonZeroOnly(t *testing.T) {
	base := UserData{FullName: "Asha", Latitude: 12.9, Longitude: 77.6}
	merged := base.Merge(UserData{FullName: "Asha K"})
	assert.Equal(t, "Asha K", merged.FullName)
	assert.Equal(t, 12.9, merged.Latitude)

	merged = merged.Merge(UserData{Latitude: 13.0, Longitude: 77.7})
	assert.Equal(t, 13.0, merged.Latitude)
	assert.Equal(t, 77.7, merged.Longitude)
}

func TestMergeAccumulatesAcrossSteps(t *testing.T) {
	d := UserData{PhoneNumber: "9800000000"}
	d = d.Merge(UserData{FullName: "Asha", Email: "a@example.com", Gender: "female", Address: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"})
	d = d.Merge(UserData{ProfilePhotoRef: "me.jpg", AadhaarDocRef: "aadhaar.pdf"})
	d = d.Merge(UserData{SelectedServices: []SelectedService{{ID: 4, CategoryID: 2, Title: "Grooming"}}, ServicesProvided: []int64{4}, CategoryIDs: []int64{2}})
	d = d.Merge(UserData{AccountHolderName: "Asha K", BankName: "HDFC", AccountNumber: "123", IFSCCode: "HDFC0000001"})

	assert.Equal(t, "9800000000", d.PhoneNumber)
	assert.Equal(t, "Asha", d.FullName)
	assert.Equal(t, "me.jpg", d.ProfilePhotoRef)
	assert.Len(t, d.SelectedServices, 1)
	assert.Equal(t, "HDFC0000001", d.IFSCCode)
}

func TestEffectiveProviderID(t *testing.T) {
	d := UserData{ProviderID: 5}
	assert.Equal(t, int64(5), d.EffectiveProviderID())

	d.ProviderDetails = &ProviderProfile{ID: 9}
	assert.Equal(t, int64(9), d.EffectiveProviderID())
}

func TestEffectivePhone(t *testing.T) {
	d := UserData{PhoneNumber: "9800000000", CountryCode: "+91"}
	assert.Equal(t, "+919800000000", d.EffectivePhone())

	d.FullPhoneNumber = "+919811111111"
	assert.Equal(t, "+919811111111", d.EffectivePhone())

	d.ProviderDetails = &ProviderProfile{PhoneNumber: "+919822222222"}
	assert.Equal(t, "+919822222222", d.EffectivePhone())
}

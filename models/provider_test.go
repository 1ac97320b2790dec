package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexBoolEncodings(t *testing.T) {
	var p AuthPayload
	for payload, want := range map[string]bool{
		`{"registered": true}`:    true,
		`{"registered": "true"}`:  true,
		`{"registered": 1}`:       true,
		`{"registered": "1"}`:     true,
		`{"registered": false}`:   false,
		`{"registered": "false"}`: false,
		`{"registered": 0}`:       false,
		`{"registered": null}`:    false,
	} {
		require.NoError(t, json.Unmarshal([]byte(payload), &p), payload)
		assert.Equal(t, want, p.Registered.Bool(), payload)
	}
}

func TestNormalizeAuthPayloadPrefersProviderDetails(t *testing.T) {
	payload := AuthPayload{
		Registered:        true,
		IsServiceProvider: true,
		ProviderDetails:   &ProviderProfile{ID: 7, FullName: "Asha"},
		Provider:          &ProviderProfile{ID: 99, FullName: "Someone Else"},
	}
	d := NormalizeAuthPayload(payload)
	assert.Equal(t, int64(7), d.ProviderID)
	assert.Equal(t, "Asha", d.FullName)
	assert.True(t, d.IsRegistered)
}

func TestNormalizeAuthPayloadProviderAlias(t *testing.T) {
	payload := AuthPayload{Provider: &ProviderProfile{ID: 12, Email: "p@example.com"}}
	d := NormalizeAuthPayload(payload)
	assert.Equal(t, int64(12), d.ProviderID)
	assert.Equal(t, "p@example.com", d.Email)
	assert.False(t, d.IsRegistered)
}

func TestNormalizeAuthPayloadUserFallback(t *testing.T) {
	payload := AuthPayload{User: &AccountUser{Name: "Ravi", Email: "r@example.com"}}
	d := NormalizeAuthPayload(payload)
	assert.Equal(t, "Ravi", d.FullName)
	assert.Equal(t, "r@example.com", d.Email)
	assert.Nil(t, d.ProviderDetails)
}

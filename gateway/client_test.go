package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClientWithBase(srv.URL)
}

func TestErrorNormalizationErrorString(t *testing.T) {
	c := errorServer(t, 400, `{"error": "phone number already in use", "message": "ignored"}`)
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "phone number already in use", apiErr.Message)
}

func TestErrorNormalizationNestedCodeAndMessage(t *testing.T) {
	c := errorServer(t, 422, `{"error": {"code": "INVALID_OTP", "message": "otp expired"}}`)
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_OTP: otp expired", apiErr.Message)
}

func TestErrorNormalizationNestedMessageOnly(t *testing.T) {
	c := errorServer(t, 422, `{"error": {"message": "otp expired"}}`)
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "otp expired", apiErr.Message)
}

func TestErrorNormalizationTopLevelMessage(t *testing.T) {
	c := errorServer(t, 404, `{"message": "booking not found"}`)
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "booking not found", apiErr.Message)
}

func TestErrorNormalizationFallback(t *testing.T) {
	c := errorServer(t, 500, `<html>oops</html>`)
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 500", apiErr.Message)

	c = errorServer(t, 503, ``)
	err = c.getJSON(context.Background(), "/x", nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 503", apiErr.Message)
}

func TestMalformedSuccessBody(t *testing.T) {
	c := errorServer(t, 200, `{"bookings": [`)
	var out map[string]any
	err := c.getJSON(context.Background(), "/x", &out)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "malformed server response", apiErr.Message)
}

func TestNetworkErrorMessage(t *testing.T) {
	c := NewClientWithBase("http://127.0.0.1:1")
	err := c.getJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "network error: unable to reach the server", apiErr.Message)
}

func TestAuthedCallRequiresToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	err := c.authedJSON(context.Background(), http.MethodGet, "/x", "", nil, nil)
	assert.ErrorIs(t, err, ErrTokenRequired)
	assert.False(t, called, "request must not reach the network without a token")
}

func TestAuthedCallSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	require.NoError(t, c.authedJSON(context.Background(), http.MethodGet, "/x", "tok-9", nil, nil))
	assert.Equal(t, "Bearer tok-9", gotAuth)
}

func TestRecentOrdersQuery(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[{"id":12,"status":"completed","full_name":"Asha"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	rows, err := c.RecentOrders(context.Background(), "tok", 7, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(12), rows[0].ID)

	assert.Equal(t, "/provider/orders/recent", gotPath)
	assert.Equal(t, "7", gotQuery.Get("provider_id"))
	assert.Equal(t, "5", gotQuery.Get("limit"))
}

func TestRecentOrdersDefaultLimit(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orders":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	_, err := c.RecentOrders(context.Background(), "tok", 7, 0)
	require.NoError(t, err)
	assert.Equal(t, "10", gotQuery.Get("limit"))
}

func TestAllAppointmentsQuery(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookings":[{"id":30,"status":"completed"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	rows, err := c.AllAppointments(context.Background(), "tok", "+919800000000", "completed")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "/provider/appointments/all", gotPath)
	assert.Equal(t, "+919800000000", gotQuery.Get("phone_number"))
	assert.Equal(t, "completed", gotQuery.Get("status"))
}

func TestAllAppointmentsOmitsEmptyStatus(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookings":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL)
	_, err := c.AllAppointments(context.Background(), "tok", "+919800000000", "")
	require.NoError(t, err)
	_, present := gotQuery["status"]
	assert.False(t, present)
}

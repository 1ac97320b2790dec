package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/AKM-dv/aafa-partner/models"
)

// SetLocation publishes the provider's current position and online flag.
func (c *Client) SetLocation(ctx context.Context, token string, providerID int64, lat, lng float64, online bool) error {
	onlineFlag := 0
	if online {
		onlineFlag = 1
	}
	payload := map[string]any{
		"provider_id": providerID,
		"latitude":    lat,
		"longitude":   lng,
		"is_online":   onlineFlag,
	}
	return c.authedJSON(ctx, http.MethodPost, "/provider/location/set", token, payload, nil)
}

// UpdateLocation pushes a live-tracking position for an in-progress booking.
func (c *Client) UpdateLocation(ctx context.Context, token string, bookingID int64, lat, lng float64) error {
	payload := map[string]any{
		"booking_id": bookingID,
		"latitude":   lat,
		"longitude":  lng,
	}
	return c.authedJSON(ctx, http.MethodPost, "/provider/location/update", token, payload, nil)
}

// StopTracking ends the live-tracking stream for a booking.
func (c *Client) StopTracking(ctx context.Context, token string, bookingID int64) error {
	path := fmt.Sprintf("/provider/location/stop/%d", bookingID)
	return c.authedJSON(ctx, http.MethodPut, path, token, nil, nil)
}

// MarkReached records that the provider arrived at the customer location.
func (c *Client) MarkReached(ctx context.Context, token string, bookingID int64) error {
	path := fmt.Sprintf("/provider/reached/%d", bookingID)
	return c.authedJSON(ctx, http.MethodPut, path, token, nil, nil)
}

type notificationsResponse struct {
	Notifications []models.BookingNotification `json:"notifications"`
}

// Notifications fetches booking notifications for the provider in the given
// delivery state (normally "sent").
func (c *Client) Notifications(ctx context.Context, token string, providerID int64, status string) ([]models.BookingNotification, error) {
	path := fmt.Sprintf("/provider/booking/notifications?provider_id=%d&status=%s", providerID, url.QueryEscape(status))
	var out notificationsResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// RespondToNotification accepts or rejects a booking offer.
func (c *Client) RespondToNotification(ctx context.Context, token string, bookingID, providerID int64, action string) error {
	payload := map[string]any{
		"booking_id":  bookingID,
		"provider_id": providerID,
		"action":      action,
	}
	return c.authedJSON(ctx, http.MethodPost, "/provider/booking/notification/respond", token, payload, nil)
}

type flexGeo struct {
	Latitude  *models.FlexFloat `json:"latitude"`
	Longitude *models.FlexFloat `json:"longitude"`
}

func (g *flexGeo) point() *models.GeoPoint {
	if g == nil || g.Latitude == nil || g.Longitude == nil {
		return nil
	}
	return &models.GeoPoint{Latitude: g.Latitude.Float(), Longitude: g.Longitude.Float()}
}

type trackingResponse struct {
	ProviderLocation *flexGeo `json:"provider_location"`
	UserLocation     *flexGeo `json:"user_location"`
}

// TrackingInfo holds the two live positions of a tracked booking. Either can
// be nil when the backend has no fix yet.
type TrackingInfo struct {
	ProviderLocation *models.GeoPoint
	UserLocation     *models.GeoPoint
}

// TrackBooking fetches the current provider and customer positions.
func (c *Client) TrackBooking(ctx context.Context, token string, bookingID int64) (*TrackingInfo, error) {
	path := fmt.Sprintf("/booking/track/%d", bookingID)
	var out trackingResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &TrackingInfo{
		ProviderLocation: out.ProviderLocation.point(),
		UserLocation:     out.UserLocation.point(),
	}, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// InitiateComplete asks the backend to send the completion OTP to the
// customer. The returned message is user-facing.
func (c *Client) InitiateComplete(ctx context.Context, token string, bookingID int64) (string, error) {
	path := fmt.Sprintf("/provider/booking/initiate-complete/%d", bookingID)
	var out messageResponse
	if err := c.authedJSON(ctx, http.MethodPost, path, token, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// CompleteBooking finishes a booking with the customer's confirmation code.
func (c *Client) CompleteBooking(ctx context.Context, token string, bookingID int64, otp string) error {
	path := fmt.Sprintf("/booking/complete/%d", bookingID)
	return c.authedJSON(ctx, http.MethodPost, path, token, map[string]string{"otp": otp}, nil)
}

type bookingsResponse struct {
	Bookings []models.BookingRow `json:"bookings"`
}

// OngoingAppointments lists the provider's in-progress bookings.
func (c *Client) OngoingAppointments(ctx context.Context, token, phoneNumber string) ([]models.BookingRow, error) {
	path := "/provider/appointments/ongoing?phone_number=" + url.QueryEscape(phoneNumber)
	var out bookingsResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// HistoryAppointments lists the provider's finished bookings.
func (c *Client) HistoryAppointments(ctx context.Context, token, phoneNumber string) ([]models.BookingRow, error) {
	path := "/provider/appointments/history?phone_number=" + url.QueryEscape(phoneNumber)
	var out bookingsResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

// AllAppointments lists bookings across states, optionally filtered by a
// backend status string.
func (c *Client) AllAppointments(ctx context.Context, token, phoneNumber, status string) ([]models.BookingRow, error) {
	params := url.Values{}
	params.Set("phone_number", phoneNumber)
	if status != "" {
		params.Set("status", status)
	}
	var out bookingsResponse
	if err := c.authedJSON(ctx, http.MethodGet, "/provider/appointments/all?"+params.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Bookings, nil
}

type transactionsResponse struct {
	Transactions []models.GatewayTransaction `json:"transactions"`
}

// Transactions lists settled payments for the provider.
func (c *Client) Transactions(ctx context.Context, token string, providerID int64, count int) ([]models.GatewayTransaction, error) {
	params := url.Values{}
	params.Set("provider_id", fmt.Sprintf("%d", providerID))
	if count > 0 {
		params.Set("count", fmt.Sprintf("%d", count))
	}
	var out transactionsResponse
	if err := c.authedJSON(ctx, http.MethodGet, "/provider/transactions?"+params.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

type recentOrdersResponse struct {
	Orders []models.BookingRow `json:"orders"`
}

// RecentOrders lists the provider's latest bookings, newest first.
func (c *Client) RecentOrders(ctx context.Context, token string, providerID int64, limit int) ([]models.BookingRow, error) {
	params := url.Values{}
	params.Set("provider_id", fmt.Sprintf("%d", providerID))
	if limit <= 0 {
		limit = 10
	}
	params.Set("limit", fmt.Sprintf("%d", limit))
	var out recentOrdersResponse
	if err := c.authedJSON(ctx, http.MethodGet, "/provider/orders/recent?"+params.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// ProfileUpdate is a partial provider profile change keyed by phone number.
type ProfileUpdate struct {
	PhoneNumber       string   `json:"phone_number"`
	FullName          string   `json:"full_name,omitempty"`
	Email             string   `json:"email,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	AccountHolderName string   `json:"account_holder_name,omitempty"`
	BankName          string   `json:"bank_name,omitempty"`
	AccountNumber     string   `json:"account_number,omitempty"`
	IFSCCode          string   `json:"ifsc_code,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	IsOnline          *int     `json:"is_online,omitempty"`
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error {
	return c.authedJSON(ctx, http.MethodPut, "/provider/update", token, update, nil)
}

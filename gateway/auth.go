package gateway

import (
	"context"

	"github.com/AKM-dv/aafa-partner/models"
)

// OtpDispatch is the acknowledgment returned when a login OTP is sent.
type OtpDispatch struct {
	SessionID string `json:"session_id"`
	Phone     string `json:"phone"`
	Message   string `json:"message,omitempty"`
}

// SendLoginOtp asks the backend to text a login code to the given number.
func (c *Client) SendLoginOtp(ctx context.Context, phoneNumber string) (*OtpDispatch, error) {
	var out OtpDispatch
	err := c.postJSON(ctx, "/auth/login", map[string]string{"phone_number": phoneNumber}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyLoginOtp exchanges the code for a bearer token and account flags.
func (c *Client) VerifyLoginOtp(ctx context.Context, phoneNumber, otp string) (*models.AuthPayload, error) {
	var out models.AuthPayload
	payload := map[string]string{"phone_number": phoneNumber, "otp": otp}
	if err := c.postJSON(ctx, "/auth/verify", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyProviderStatus checks whether the phone belongs to an approved,
// pending, or rejected provider application.
func (c *Client) VerifyProviderStatus(ctx context.Context, phoneNumber string) (*models.ProviderStatusPayload, error) {
	var out models.ProviderStatusPayload
	if err := c.postJSON(ctx, "/provider/verify", map[string]string{"phone_number": phoneNumber}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterProvider submits the full onboarding payload (profile, bank and
// service selections plus uploaded documents) as multipart form data.
func (c *Client) RegisterProvider(ctx context.Context, fields map[string]string, documents []FilePart) (*models.AuthPayload, error) {
	var out models.AuthPayload
	if err := c.postMultipart(ctx, "/provider/register", fields, documents, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

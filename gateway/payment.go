package gateway

import (
	"context"
	"net/http"
)

type paymentLinkResponse struct {
	PaymentLink    string `json:"payment_link"`
	PaymentOrderID string `json:"payment_order_id"`
	Message        string `json:"message"`
}

// PaymentLink is the result of a payment request sent to the customer.
type PaymentLink struct {
	URL     string
	OrderID string
	Message string
}

// PaymentRequest carries the booking context the payment endpoint expects
// alongside the amount.
type PaymentRequest struct {
	BookingID   int64
	ProviderID  int64
	UserID      int64
	Amount      float64
	ServiceName string
	UserPhone   string
}

// RequestPaymentLink asks the backend to generate and send a payment link to
// the booking's customer.
func (c *Client) RequestPaymentLink(ctx context.Context, token string, req PaymentRequest) (*PaymentLink, error) {
	payload := map[string]any{
		"booking_id":   req.BookingID,
		"provider_id":  req.ProviderID,
		"user_id":      req.UserID,
		"amount":       req.Amount,
		"service_name": req.ServiceName,
		"user_phone":   req.UserPhone,
	}
	var out paymentLinkResponse
	if err := c.authedJSON(ctx, http.MethodPost, "/payment/request", token, payload, &out); err != nil {
		return nil, err
	}
	return &PaymentLink{URL: out.PaymentLink, OrderID: out.PaymentOrderID, Message: out.Message}, nil
}

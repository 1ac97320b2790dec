package handlers

import (
	"errors"
	"net/http"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/services/location"
	"github.com/AKM-dv/aafa-partner/services/orders"
	"github.com/AKM-dv/aafa-partner/services/session"
	"github.com/AKM-dv/aafa-partner/services/wallet"
)

// HandlerBundle groups the wired services for route registration.
type HandlerBundle struct {
	Session  session.SessionService
	Orders   orders.ReconcilerService
	Wallet   wallet.WalletService
	Gateway  *gateway.Client
	Location location.Provider
}

func NewHandlerBundle(sess session.SessionService, rec orders.ReconcilerService, w wallet.WalletService, gw *gateway.Client, loc location.Provider) *HandlerBundle {
	return &HandlerBundle{Session: sess, Orders: rec, Wallet: w, Gateway: gw, Location: loc}
}

// statusForError maps service errors to HTTP statuses. Backend errors keep
// the status the backend returned.
func statusForError(err error) int {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	switch {
	case errors.Is(err, gateway.ErrTokenRequired):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, orders.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrNoNotification):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidPhone),
		errors.Is(err, session.ErrInvalidOtp),
		errors.Is(err, session.ErrNoServiceSelected),
		errors.Is(err, session.ErrPhotoRequired),
		errors.Is(err, session.ErrMissingField),
		errors.Is(err, orders.ErrInvalidAmount),
		errors.Is(err, orders.ErrOtpRequired),
		errors.Is(err, wallet.ErrInvalidWithdrawal),
		errors.Is(err, wallet.ErrInsufficientBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package orders

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// Accept confirms the booking with the backend, moves it to Current and
// starts live tracking towards the customer.
func (r *DefaultReconcilerService) Accept(ctx context.Context, bookingID int64) error {
	token, providerID, _, ok := r.credentials()
	if !ok {
		return gateway.ErrTokenRequired
	}
	if err := r.Gateway.RespondToNotification(ctx, token, bookingID, providerID, "accept"); err != nil {
		return err
	}

	r.mu.Lock()
	if o := findOrderLocked(r.orders, bookingID); o != nil {
		o.Status = models.OrderCurrent
	}
	r.startTrackingLocked(bookingID)
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	r.Repo.Save(ctx, snapshot)
	return nil
}

// Reject declines the booking. The local removal is unconditional; a failed
// backend call still drops the offer.
func (r *DefaultReconcilerService) Reject(ctx context.Context, bookingID int64) error {
	token, providerID, _, ok := r.credentials()
	if ok {
		if err := r.Gateway.RespondToNotification(ctx, token, bookingID, providerID, "reject"); err != nil {
			utils.GetLogger().Warn("reject not delivered, removing locally",
				zap.Int64("bookingId", bookingID), zap.Error(err))
		}
	}

	r.mu.Lock()
	kept := r.orders[:0]
	for _, o := range r.orders {
		if o.BookingID != bookingID {
			kept = append(kept, o)
		}
	}
	r.orders = kept
	if r.active != nil && r.active.BookingID == bookingID {
		r.active = nil
		r.promoteLocked()
	}
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	r.Repo.Save(ctx, snapshot)
	return nil
}

// InitiateCompletion asks the backend to send the completion code to the
// customer. The returned message is shown to the provider.
func (r *DefaultReconcilerService) InitiateCompletion(ctx context.Context, bookingID int64) (string, error) {
	token, _, _, ok := r.credentials()
	if !ok {
		return "", gateway.ErrTokenRequired
	}
	return r.Gateway.InitiateComplete(ctx, token, bookingID)
}

// Complete finishes the booking with the customer's code, marks it Completed
// and tears down tracking.
func (r *DefaultReconcilerService) Complete(ctx context.Context, bookingID int64, otp string) error {
	if strings.TrimSpace(otp) == "" {
		return ErrOtpRequired
	}
	token, _, _, ok := r.credentials()
	if !ok {
		return gateway.ErrTokenRequired
	}
	if err := r.Gateway.CompleteBooking(ctx, token, bookingID, otp); err != nil {
		return err
	}

	r.mu.Lock()
	if o := findOrderLocked(r.orders, bookingID); o != nil {
		o.Status = models.OrderCompleted
	}
	r.stopTrackingLocked(bookingID)
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	if err := r.Gateway.StopTracking(ctx, token, bookingID); err != nil {
		utils.GetLogger().Info("tracking stop not delivered", zap.Error(err))
	}
	r.Repo.Save(ctx, snapshot)
	return nil
}

// SendPaymentLink requests a payment link for the booking. A non-positive
// amount falls back to the order's resolved amount, then the catalogue; no
// resolvable amount is a local rejection, the backend is not called.
func (r *DefaultReconcilerService) SendPaymentLink(ctx context.Context, bookingID int64, amount float64) (*gateway.PaymentLink, error) {
	token, providerID, _, ok := r.credentials()
	if !ok {
		return nil, gateway.ErrTokenRequired
	}

	r.mu.Lock()
	order := findOrderLocked(r.orders, bookingID)
	if order == nil {
		r.mu.Unlock()
		return nil, ErrOrderNotFound
	}
	if amount <= 0 {
		amount = order.AmountValue
	}
	if amount <= 0 {
		amount = r.catalog.resolvePrice(order.ServiceID, order.Service)
	}
	req := gateway.PaymentRequest{
		BookingID:   bookingID,
		ProviderID:  providerID,
		UserID:      order.UserID,
		Amount:      amount,
		ServiceName: order.Service,
		UserPhone:   order.UserPhone,
	}
	r.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	link, err := r.Gateway.RequestPaymentLink(ctx, token, req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if o := findOrderLocked(r.orders, bookingID); o != nil {
		o.PaymentLink = link.URL
		o.PaymentOrderID = link.OrderID
		o.PaymentStatus = "pending"
		o.AmountValue = amount
		o.Amount = models.FormatAmount(amount)
	}
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	r.Repo.Save(ctx, snapshot)
	return link, nil
}

// RefreshOrders reconciles the local list against the backend's ongoing and
// history listings, merging row by booking id. Fetched rows win for status
// and amount; locally-held payment link fields survive when the row carries
// none.
func (r *DefaultReconcilerService) RefreshOrders(ctx context.Context) error {
	token, _, phone, ok := r.credentials()
	if !ok || phone == "" {
		return gateway.ErrTokenRequired
	}

	ongoing, err := r.Gateway.OngoingAppointments(ctx, token, phone)
	if err != nil {
		return err
	}
	history, err := r.Gateway.HistoryAppointments(ctx, token, phone)
	if err != nil {
		return err
	}

	fetched := make([]models.LiveOrder, 0, len(ongoing)+len(history))
	for _, row := range append(ongoing, history...) {
		o := models.OrderFromBooking(row)
		if o.BookingID == 0 {
			continue
		}
		if o.AmountValue == 0 {
			if p := r.catalog.resolvePrice(o.ServiceID, o.Service); p > 0 {
				o.AmountValue = p
				o.Amount = models.FormatAmount(p)
			}
		}
		fetched = append(fetched, o)
	}

	r.mu.Lock()
	r.orders = mergeOrders(r.orders, fetched)
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	r.Repo.Save(ctx, snapshot)
	return nil
}

// mergeOrders overlays incoming orders onto base by booking id. Incoming
// fields win except where they are empty and base has a value.
func mergeOrders(base, incoming []models.LiveOrder) []models.LiveOrder {
	out := make([]models.LiveOrder, len(base))
	copy(out, base)
	for _, in := range incoming {
		existing := findOrderLocked(out, in.BookingID)
		if existing == nil {
			out = append(out, in)
			continue
		}
		merged := in
		if merged.PaymentLink == "" {
			merged.PaymentLink = existing.PaymentLink
		}
		if merged.PaymentOrderID == "" {
			merged.PaymentOrderID = existing.PaymentOrderID
		}
		if merged.PaymentStatus == "" {
			merged.PaymentStatus = existing.PaymentStatus
		}
		if merged.AmountValue == 0 && existing.AmountValue > 0 {
			merged.AmountValue = existing.AmountValue
			merged.Amount = existing.Amount
		}
		if merged.UserCoords == nil {
			merged.UserCoords = existing.UserCoords
		}
		*existing = merged
	}
	return out
}

// MarkReached tells the backend the provider arrived and tears down the live
// tracking loop for the booking.
func (r *DefaultReconcilerService) MarkReached(ctx context.Context, bookingID int64) error {
	token, _, _, ok := r.credentials()
	if !ok {
		return gateway.ErrTokenRequired
	}
	if err := r.Gateway.MarkReached(ctx, token, bookingID); err != nil {
		return err
	}
	r.mu.Lock()
	r.stopTrackingLocked(bookingID)
	r.mu.Unlock()
	return nil
}

// StopTracking ends the live tracking stream on both sides.
func (r *DefaultReconcilerService) StopTracking(ctx context.Context, bookingID int64) error {
	token, _, _, ok := r.credentials()
	if !ok {
		return gateway.ErrTokenRequired
	}
	r.mu.Lock()
	r.stopTrackingLocked(bookingID)
	r.mu.Unlock()
	return r.Gateway.StopTracking(ctx, token, bookingID)
}

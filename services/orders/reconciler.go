package orders

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/config"
	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// Start loads persisted orders and the catalogue cache, then begins the
// notification poll. Calling Start on a running reconciler is a no-op.
func (r *DefaultReconcilerService) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	if stored := r.Repo.Load(ctx); len(stored) > 0 {
		r.mu.Lock()
		r.orders = mergeOrders(stored, r.orders)
		r.mu.Unlock()
	}
	r.catalog.load(ctx, r.Gateway)

	if err := r.RefreshOrders(ctx); err != nil {
		utils.GetLogger().Info("initial order refresh failed", zap.Error(err))
	}

	r.wg.Add(1)
	go r.pollNotifications(runCtx)
}

// Stop tears down the poll and any live tracking loop.
func (r *DefaultReconcilerService) Stop() {
	r.mu.Lock()
	r.running = false
	cancel := r.cancel
	r.cancel = nil
	trackStop := r.trackStop
	r.trackStop = nil
	r.trackedID = 0
	r.trackInfo = nil
	r.mu.Unlock()

	if trackStop != nil {
		trackStop()
	}
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

func (r *DefaultReconcilerService) pollNotifications(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(config.NotificationPollInterval())
	defer ticker.Stop()

	r.fetchNotifications(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchNotifications(ctx)
		}
	}
}

// fetchNotifications pulls pending offers and queues the unseen ones. The
// composite booking-id/sent-at key stops a re-delivered offer from queueing
// twice.
func (r *DefaultReconcilerService) fetchNotifications(ctx context.Context) {
	token, providerID, _, ok := r.credentials()
	if !ok || providerID == 0 {
		return
	}
	notes, err := r.Gateway.Notifications(ctx, token, providerID, "sent")
	if err != nil {
		utils.GetLogger().Info("notification poll failed", zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range notes {
		key := n.Key()
		if r.seen[key] {
			continue
		}
		r.seen[key] = true
		r.queue = append(r.queue, n)
	}
	r.promoteLocked()
}

// promoteLocked moves the queue head into the active slot when it is free.
// Exactly one notification is active at a time.
func (r *DefaultReconcilerService) promoteLocked() {
	if r.active != nil || len(r.queue) == 0 {
		return
	}
	head := r.queue[0]
	r.queue = r.queue[1:]
	r.active = &head
}

// ActiveNotification returns the offer currently shown, or nil.
func (r *DefaultReconcilerService) ActiveNotification() *models.BookingNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	n := *r.active
	return &n
}

// ViewActive converts the active offer into a Pending order and files it.
// An offer for a booking already on the list does not duplicate it. The next
// queued offer is promoted afterwards.
func (r *DefaultReconcilerService) ViewActive(ctx context.Context) (*models.LiveOrder, error) {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return nil, ErrNoNotification
	}
	n := *r.active
	r.active = nil
	r.promoteLocked()

	order := r.orderFromNotification(n)
	if existing := findOrderLocked(r.orders, order.BookingID); existing != nil {
		out := *existing
		r.mu.Unlock()
		return &out, nil
	}
	r.orders = append(r.orders, order)
	snapshot := snapshotLocked(r.orders)
	r.mu.Unlock()

	r.Repo.Save(ctx, snapshot)
	return &order, nil
}

// DismissActive drops the active offer and promotes the next one.
func (r *DefaultReconcilerService) DismissActive() {
	r.mu.Lock()
	r.active = nil
	r.promoteLocked()
	r.mu.Unlock()
}

// orderFromNotification builds a Pending order, resolving amount and labels
// through the catalogue cache when the payload carries none.
func (r *DefaultReconcilerService) orderFromNotification(n models.BookingNotification) models.LiveOrder {
	serviceID := n.EffectiveServiceID()
	service := n.EffectiveServiceName()
	if service == "" {
		service = r.catalog.serviceTitle(serviceID)
	}
	if service == "" {
		service = "Service"
	}

	amount := n.ExplicitPrice()
	if amount == 0 {
		amount = r.catalog.resolvePrice(serviceID, service)
	}

	category := n.CategoryName
	if category == "" {
		category = r.catalog.categoryName(n.CategoryID)
	}
	if category == "" {
		category = "Category"
	}

	appointment := "N/A"
	if n.PreferredDate != "" && n.PreferredTime != "" {
		appointment = n.PreferredDate + " • " + n.PreferredTime
	}

	name := n.FullName
	if name == "" {
		name = "Customer"
	}
	address := n.Address
	if address == "" {
		address = "N/A"
	}

	return models.LiveOrder{
		BookingID:     n.BookingID,
		Name:          name,
		CategoryID:    n.CategoryID,
		Category:      category,
		ServiceID:     serviceID,
		Service:       service,
		AmountValue:   amount,
		Amount:        models.FormatAmount(amount),
		Address:       address,
		PetName:       n.PetName,
		Appointment:   appointment,
		Status:        models.OrderPending,
		UserCoords:    n.UserCoords(),
		PaymentStatus: n.PaymentStatus,
		UserID:        n.UserID,
		UserPhone:     firstNonEmpty(n.ContactNumber, n.UserPhone),
	}
}

// Orders returns a copy of the orders in the given status.
func (r *DefaultReconcilerService) Orders(status models.OrderStatus) []models.LiveOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LiveOrder
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// AllOrders returns a copy of every tracked order.
func (r *DefaultReconcilerService) AllOrders() []models.LiveOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotLocked(r.orders)
}

// startTrackingLocked launches the live tracking loop for one booking,
// replacing any previous one. Caller holds r.mu.
func (r *DefaultReconcilerService) startTrackingLocked(bookingID int64) {
	if r.trackedID == bookingID && r.trackStop != nil {
		return
	}
	if r.trackStop != nil {
		r.trackStop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.trackStop = cancel
	r.trackedID = bookingID

	r.wg.Add(1)
	go r.trackLoop(ctx, bookingID)
}

// stopTrackingLocked tears down the loop for a booking if it is the tracked
// one. Caller holds r.mu.
func (r *DefaultReconcilerService) stopTrackingLocked(bookingID int64) {
	if r.trackedID != bookingID {
		return
	}
	if r.trackStop != nil {
		r.trackStop()
		r.trackStop = nil
	}
	r.trackedID = 0
	r.trackInfo = nil
}

// trackLoop pushes the provider's position and pulls both parties' positions
// until the booking stops being tracked.
func (r *DefaultReconcilerService) trackLoop(ctx context.Context, bookingID int64) {
	defer r.wg.Done()

	ticker := time.NewTicker(config.TrackingPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.trackTick(ctx, bookingID)
		}
	}
}

func (r *DefaultReconcilerService) trackTick(ctx context.Context, bookingID int64) {
	token, _, _, ok := r.credentials()
	if !ok {
		return
	}
	if r.Location != nil {
		if fix := r.Location.Current(ctx); fix != nil {
			if err := r.Gateway.UpdateLocation(ctx, token, bookingID, fix.Latitude, fix.Longitude); err != nil {
				utils.GetLogger().Info("location push failed", zap.Error(err))
			}
		}
	}
	info, err := r.Gateway.TrackBooking(ctx, token, bookingID)
	if err != nil {
		utils.GetLogger().Info("tracking fetch failed", zap.Error(err))
		return
	}
	r.mu.Lock()
	if r.trackedID == bookingID {
		r.trackInfo = info
	}
	r.mu.Unlock()
}

// TrackedPositions reports the booking currently tracked and the last known
// positions for it.
func (r *DefaultReconcilerService) TrackedPositions() (int64, *gateway.TrackingInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.trackedID == 0 || r.trackInfo == nil {
		return r.trackedID, nil
	}
	info := *r.trackInfo
	return r.trackedID, &info
}

func snapshotLocked(orders []models.LiveOrder) []models.LiveOrder {
	out := make([]models.LiveOrder, len(orders))
	copy(out, orders)
	return out
}

func findOrderLocked(orders []models.LiveOrder, bookingID int64) *models.LiveOrder {
	for i := range orders {
		if orders[i].BookingID == bookingID {
			return &orders[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

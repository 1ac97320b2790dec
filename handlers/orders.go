package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/models"
)

// StartOrdersHandler begins the notification poll and loads persisted
// orders. Safe to call on every visit to the orders view.
func (hb *HandlerBundle) StartOrdersHandler(c *gin.Context) {
	hb.Orders.Start(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"orders": hb.Orders.AllOrders()})
}

// StopOrdersHandler tears down the poll and any live tracking loop.
func (hb *HandlerBundle) StopOrdersHandler(c *gin.Context) {
	hb.Orders.Stop()
	c.Status(http.StatusNoContent)
}

// ListOrdersHandler lists orders, optionally filtered by status tab.
func (hb *HandlerBundle) ListOrdersHandler(c *gin.Context) {
	status := c.Query("status")
	var out []models.LiveOrder
	if status == "" {
		out = hb.Orders.AllOrders()
	} else {
		out = hb.Orders.Orders(models.OrderStatus(status))
	}
	if out == nil {
		out = []models.LiveOrder{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// RefreshOrdersHandler reconciles against the backend listings.
func (hb *HandlerBundle) RefreshOrdersHandler(c *gin.Context) {
	if err := hb.Orders.RefreshOrders(c.Request.Context()); err != nil {
		getLogger(c).Info("order refresh failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": hb.Orders.AllOrders()})
}

// RecentOrdersHandler lists the provider's latest bookings straight from the
// backend.
func (hb *HandlerBundle) RecentOrdersHandler(c *gin.Context) {
	_, rec := hb.Session.State()
	if rec == nil || rec.Token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := hb.Gateway.RecentOrders(c.Request.Context(), rec.Token, rec.UserData.EffectiveProviderID(), limit)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": ordersFromRows(rows)})
}

// AppointmentsHandler lists bookings across states from the backend,
// optionally narrowed by the backend's status string.
func (hb *HandlerBundle) AppointmentsHandler(c *gin.Context) {
	_, rec := hb.Session.State()
	if rec == nil || rec.Token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	rows, err := hb.Gateway.AllAppointments(c.Request.Context(), rec.Token, rec.UserData.EffectivePhone(), c.Query("status"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": ordersFromRows(rows)})
}

func ordersFromRows(rows []models.BookingRow) []models.LiveOrder {
	out := make([]models.LiveOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.OrderFromBooking(row))
	}
	return out
}

// ActiveNotificationHandler reports the booking offer currently shown.
func (hb *HandlerBundle) ActiveNotificationHandler(c *gin.Context) {
	n := hb.Orders.ActiveNotification()
	if n == nil {
		c.JSON(http.StatusOK, gin.H{"notification": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// ViewActiveHandler converts the active offer into a pending order.
func (hb *HandlerBundle) ViewActiveHandler(c *gin.Context) {
	order, err := hb.Orders.ViewActive(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DismissActiveHandler drops the active offer.
func (hb *HandlerBundle) DismissActiveHandler(c *gin.Context) {
	hb.Orders.DismissActive()
	c.Status(http.StatusNoContent)
}

// AcceptOrderHandler confirms the booking and starts live tracking.
func (hb *HandlerBundle) AcceptOrderHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := hb.Orders.Accept(c.Request.Context(), bookingID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": hb.Orders.AllOrders()})
}

// RejectOrderHandler declines the booking and removes it locally.
func (hb *HandlerBundle) RejectOrderHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := hb.Orders.Reject(c.Request.Context(), bookingID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": hb.Orders.AllOrders()})
}

// InitiateCompleteHandler asks for the completion code to be sent.
func (hb *HandlerBundle) InitiateCompleteHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	message, err := hb.Orders.InitiateCompletion(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// CompleteOrderHandler finishes the booking with the customer's code.
func (hb *HandlerBundle) CompleteOrderHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var input struct {
		Otp string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := hb.Orders.Complete(c.Request.Context(), bookingID, input.Otp); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": hb.Orders.AllOrders()})
}

// PaymentLinkHandler requests a payment link for the booking.
func (hb *HandlerBundle) PaymentLinkHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	link, err := hb.Orders.SendPaymentLink(c.Request.Context(), bookingID, input.Amount)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentLink":    link.URL,
		"paymentOrderId": link.OrderID,
		"message":        link.Message,
	})
}

// TrackingHandler reports the last known positions of the tracked booking.
func (hb *HandlerBundle) TrackingHandler(c *gin.Context) {
	bookingID, info := hb.Orders.TrackedPositions()
	resp := gin.H{"bookingId": bookingID}
	if info != nil {
		resp["providerLocation"] = info.ProviderLocation
		resp["userLocation"] = info.UserLocation
	}
	c.JSON(http.StatusOK, resp)
}

// ReachedHandler marks arrival at the customer location.
func (hb *HandlerBundle) ReachedHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := hb.Orders.MarkReached(c.Request.Context(), bookingID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reached"})
}

// StopTrackingHandler ends the live tracking stream.
func (hb *HandlerBundle) StopTrackingHandler(c *gin.Context) {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return
	}
	if err := hb.Orders.StopTracking(c.Request.Context(), bookingID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func bookingIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

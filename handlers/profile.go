package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
)

// UpdateProfileHandler forwards a partial profile change for the signed-in
// provider.
func (hb *HandlerBundle) UpdateProfileHandler(c *gin.Context) {
	var input gateway.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	_, rec := hb.Session.State()
	if rec == nil || rec.Token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	if input.PhoneNumber == "" {
		input.PhoneNumber = rec.UserData.EffectivePhone()
	}

	if err := hb.Gateway.UpdateProfile(c.Request.Context(), rec.Token, input); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// TransactionsHandler lists settled payments for the provider.
func (hb *HandlerBundle) TransactionsHandler(c *gin.Context) {
	_, rec := hb.Session.State()
	if rec == nil || rec.Token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "20"))
	txns, err := hb.Gateway.Transactions(c.Request.Context(), rec.Token, rec.UserData.EffectiveProviderID(), count)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// ReportLocationHandler takes a device position fix and hands it to the
// location provider; the tracking loop and login sync consume it from there.
func (hb *HandlerBundle) ReportLocationHandler(c *gin.Context) {
	var input models.GeoPoint
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	hb.Location.Report(input)
	c.Status(http.StatusNoContent)
}

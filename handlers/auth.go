package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/models"
)

// ResumeHandler loads the stored session and reports the step to land on.
func (hb *HandlerBundle) ResumeHandler(c *gin.Context) {
	step, rec := hb.Session.Resume(c.Request.Context())
	resp := gin.H{"step": step}
	if rec != nil {
		resp["userData"] = rec.UserData
	}
	c.JSON(http.StatusOK, resp)
}

// SessionStateHandler reports the in-memory step and record without touching
// storage.
func (hb *HandlerBundle) SessionStateHandler(c *gin.Context) {
	step, rec := hb.Session.State()
	resp := gin.H{"step": step}
	if rec != nil {
		resp["userData"] = rec.UserData
	}
	c.JSON(http.StatusOK, resp)
}

// LoginHandler validates the phone number and dispatches the OTP.
func (hb *HandlerBundle) LoginHandler(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	dispatch, err := hb.Session.Login(c.Request.Context(), input.Phone)
	if err != nil {
		getLogger(c).Info("login failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   dispatch.Message,
		"sessionId": dispatch.SessionID,
	})
}

// VerifyOtpHandler confirms the code and returns the routing outcome.
func (hb *HandlerBundle) VerifyOtpHandler(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
		Otp   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	outcome, err := hb.Session.VerifyOtp(c.Request.Context(), input.Phone, input.Otp)
	if err != nil {
		getLogger(c).Info("otp verification failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"step": outcome.Step}
	if outcome.Status != "" {
		resp["status"] = outcome.Status
	}
	if outcome.Notes != "" {
		resp["notes"] = outcome.Notes
	}
	if outcome.Message != "" {
		resp["message"] = outcome.Message
	}
	if outcome.Record != nil {
		resp["userData"] = outcome.Record.UserData
	}
	c.JSON(http.StatusOK, resp)
}

// BackHandler computes the previous step.
func (hb *HandlerBundle) BackHandler(c *gin.Context) {
	var input struct {
		From models.Step `json:"from"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": hb.Session.Back(input.From)})
}

// LogoutHandler clears the session and stops the order reconciler.
func (hb *HandlerBundle) LogoutHandler(c *gin.Context) {
	if hb.Orders != nil {
		hb.Orders.Stop()
	}
	step := hb.Session.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"step": step})
}

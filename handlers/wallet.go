package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WalletSummaryHandler reports the balance, ledger and withdrawal requests.
func (hb *HandlerBundle) WalletSummaryHandler(c *gin.Context) {
	summary, err := hb.Wallet.Summary(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// WithdrawHandler files a payout request.
func (hb *HandlerBundle) WithdrawHandler(c *gin.Context) {
	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := hb.Wallet.RequestWithdrawal(c.Request.Context(), input.Amount); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal requested"})
}

// WithdrawalsHandler lists payout requests.
func (hb *HandlerBundle) WithdrawalsHandler(c *gin.Context) {
	withdrawals, err := hb.Wallet.Withdrawals(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

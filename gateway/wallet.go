package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AKM-dv/aafa-partner/models"
)

type walletResponse struct {
	Wallet      models.Wallet       `json:"wallet"`
	Withdrawals []models.Withdrawal `json:"withdrawals"`
}

// WalletSummary fetches the provider's balance, transaction history and
// withdrawal requests in one call.
func (c *Client) WalletSummary(ctx context.Context, token string, providerID int64) (*models.Wallet, []models.Withdrawal, error) {
	path := fmt.Sprintf("/provider/wallet/%d", providerID)
	var out walletResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, nil, err
	}
	return &out.Wallet, out.Withdrawals, nil
}

// RequestWithdrawal files a payout request against the wallet balance.
func (c *Client) RequestWithdrawal(ctx context.Context, token string, providerID int64, amount float64) error {
	payload := map[string]any{
		"provider_id": providerID,
		"amount":      amount,
	}
	return c.authedJSON(ctx, http.MethodPost, "/provider/withdrawals", token, payload, nil)
}

type withdrawalsResponse struct {
	Withdrawals []models.Withdrawal `json:"withdrawals"`
}

// ListWithdrawals returns the provider's payout requests, newest first.
func (c *Client) ListWithdrawals(ctx context.Context, token string, providerID int64) ([]models.Withdrawal, error) {
	path := fmt.Sprintf("/provider/withdrawals?provider_id=%d", providerID)
	var out withdrawalsResponse
	if err := c.authedJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Withdrawals, nil
}

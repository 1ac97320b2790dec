// Package wallet is thin orchestration over the payments backend: balance
// summary, withdrawal requests and withdrawal history.
package wallet

import (
	"context"
	"errors"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
)

var (
	ErrInvalidWithdrawal   = errors.New("enter a valid withdrawal amount")
	ErrInsufficientBalance = errors.New("withdrawal amount exceeds wallet balance")
)

type sessionState interface {
	State() (models.Step, *models.SessionRecord)
}

// Summary bundles what the wallet screen shows in one shape.
type Summary struct {
	Wallet      models.Wallet       `json:"wallet"`
	Withdrawals []models.Withdrawal `json:"withdrawals"`
}

type WalletService interface {
	Summary(ctx context.Context) (*Summary, error)
	RequestWithdrawal(ctx context.Context, amount float64) error
	Withdrawals(ctx context.Context) ([]models.Withdrawal, error)
}

// DefaultWalletService is the production implementation.
type DefaultWalletService struct {
	Session sessionState
	Gateway *gateway.Client
}

func NewDefaultWalletService(sess sessionState, gw *gateway.Client) *DefaultWalletService {
	return &DefaultWalletService{Session: sess, Gateway: gw}
}

func (s *DefaultWalletService) credentials() (string, int64, bool) {
	_, rec := s.Session.State()
	if rec == nil || rec.Token == "" {
		return "", 0, false
	}
	return rec.Token, rec.UserData.EffectiveProviderID(), true
}

// Summary fetches the balance, transactions and withdrawal requests.
func (s *DefaultWalletService) Summary(ctx context.Context) (*Summary, error) {
	token, providerID, ok := s.credentials()
	if !ok {
		return nil, gateway.ErrTokenRequired
	}
	wallet, withdrawals, err := s.Gateway.WalletSummary(ctx, token, providerID)
	if err != nil {
		return nil, err
	}
	return &Summary{Wallet: *wallet, Withdrawals: withdrawals}, nil
}

// RequestWithdrawal validates the amount against the current balance before
// filing the request.
func (s *DefaultWalletService) RequestWithdrawal(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return ErrInvalidWithdrawal
	}
	token, providerID, ok := s.credentials()
	if !ok {
		return gateway.ErrTokenRequired
	}
	wallet, _, err := s.Gateway.WalletSummary(ctx, token, providerID)
	if err != nil {
		return err
	}
	if amount > wallet.Balance {
		return ErrInsufficientBalance
	}
	return s.Gateway.RequestWithdrawal(ctx, token, providerID, amount)
}

// Withdrawals lists the provider's payout requests.
func (s *DefaultWalletService) Withdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	token, providerID, ok := s.credentials()
	if !ok {
		return nil, gateway.ErrTokenRequired
	}
	return s.Gateway.ListWithdrawals(ctx, token, providerID)
}

package models

// Wallet is the provider's earnings summary.
type Wallet struct {
	Balance            float64             `json:"balance"`
	PendingWithdrawals float64             `json:"pending_withdrawals"`
	Transactions       []WalletTransaction `json:"transactions,omitempty"`
}

// WalletTransaction is one credit/debit line of the wallet ledger.
type WalletTransaction struct {
	ID          int64   `json:"id"`
	BookingID   int64   `json:"booking_id,omitempty"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // "credit" or "debit"
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Withdrawal is a provider payout request row.
type Withdrawal struct {
	ID         int64   `json:"id"`
	ProviderID int64   `json:"provider_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"` // pending, approved, rejected, paid
	CreatedAt  string  `json:"created_at,omitempty"`
}

// GatewayTransaction is a settled payment row as reported by the payment
// gateway. Amounts are in the smallest currency unit (paise).
type GatewayTransaction struct {
	ID        string            `json:"id"`
	Amount    int64             `json:"amount"`
	Fee       int64             `json:"fee"`
	Email     string            `json:"email,omitempty"`
	Notes     map[string]string `json:"notes,omitempty"`
	CreatedAt int64             `json:"created_at,omitempty"`
}

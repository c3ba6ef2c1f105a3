package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the only currency wallets are opened in.
const DefaultCurrency = "USD"

// TransactionType distinguishes ledger entries.
type TransactionType string

const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionTransfer TransactionType = "TRANSFER"
)

// User represents a registered wallet owner.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Credential string    `json:"credential"`
	CreatedAt  time.Time `json:"created_at"`
}

// Wallet is the balance-holding account bound to exactly one user.
type Wallet struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Transaction is an immutable ledger entry. Deposits carry a nil sender.
type Transaction struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Type             TransactionType `json:"type"`
	SenderWalletID   *string         `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Timestamp        time.Time       `json:"timestamp"`
}

// Touches reports whether the transaction moved funds in or out of walletID.
func (t Transaction) Touches(walletID string) bool {
	if t.ReceiverWalletID == walletID {
		return true
	}
	return t.SenderWalletID != nil && *t.SenderWalletID == walletID
}

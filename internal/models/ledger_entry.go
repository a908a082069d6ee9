package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the journal row written for every successful movement.
type LedgerEntry struct {
	ID            string          // unique identifier
	AccountNumber int             // account the movement belongs to
	Branch        string          // branch code of that account
	Kind          Kind            // Deposit or Withdrawal
	Amount        decimal.Decimal // positive movement amount
	BalanceAfter  decimal.Decimal // account balance once applied
	CreatedAt     time.Time       // timestamp
}

package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicTransactionCompleted is the default topic events are published on.
const TopicTransactionCompleted = "transaction_completed"

type TransactionCompleted struct {
	TransactionID string          `json:"transaction_id"`
	AccountNumber int             `json:"account_number"`
	Branch        string          `json:"branch"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

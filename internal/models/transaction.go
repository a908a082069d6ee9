package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/banking-ledger/internal/money"
)

// TimestampLayout renders statement timestamps.
const TimestampLayout = "02/01/2006 15:04:05"

// Kind identifies the movement a Transaction records.
type Kind string

const (
	KindDeposit    Kind = "Deposit"
	KindWithdrawal Kind = "Withdrawal"
)

// Transaction is one entry of an account's movement log
type Transaction struct {
	Timestamp time.Time
	Kind      Kind
	Amount    decimal.Decimal // always positive
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s - %s: %s", t.Timestamp.Format(TimestampLayout), t.Kind, money.Format(t.Amount))
}

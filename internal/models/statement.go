package models

import "github.com/shopspring/decimal"

// Statement is a read-only view of an account and its movements.
type Statement struct {
	AccountNumber int
	Branch        string
	OwnerName     string
	Entries       []Transaction
	Balance       decimal.Decimal
}

// Empty reports whether the account has no movements yet.
func (s Statement) Empty() bool {
	return len(s.Entries) == 0
}

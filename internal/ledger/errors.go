package ledger

import (
	"errors"
	"fmt"
)

// Domain errors. All of them are recoverable validation failures; callers
// match them with errors.Is and the operation that returned one changed nothing.
var (
	ErrInvalidAmount              = errors.New("amount must be positive")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrExceedsPerTransactionLimit = errors.New("amount exceeds the per-withdrawal limit")
	ErrDailyLimitReached          = errors.New("daily withdrawal limit reached")

	ErrDuplicateUser    = errors.New("user already registered")
	ErrInvalidUserField = errors.New("invalid user field")
	ErrUserNotFound     = errors.New("user not found")

	ErrNoAccountsForUser = errors.New("user has no accounts")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidSelection  = errors.New("invalid account selection")
)

// InvalidFieldError names the registration field that failed validation.
// It matches ErrInvalidUserField.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidUserField
}

func invalidField(field, reason string) error {
	return &InvalidFieldError{Field: field, Reason: reason}
}

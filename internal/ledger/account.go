package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/banking-ledger/internal/models"
	"github.com/sheikh-saqib/banking-ledger/internal/money"
)

// Account holds a balance and its movement log. Every method serializes on the
// account's own mutex, so an Account may be shared across goroutines.
type Account struct {
	number int
	branch string
	owner  *models.User
	limits Limits
	now    Clock

	mu          sync.Mutex
	balance     decimal.Decimal
	log         []models.Transaction
	withdrawals []time.Time // successful withdrawals only, oldest first
}

// Receipt describes a movement that was applied to an account.
type Receipt struct {
	Transaction  models.Transaction
	BalanceAfter decimal.Decimal
}

func newAccount(number int, branch string, owner *models.User, limits Limits, now Clock) *Account {
	return &Account{
		number:  number,
		branch:  branch,
		owner:   owner,
		limits:  limits,
		now:     now,
		balance: decimal.Zero,
	}
}

func (a *Account) Number() int { return a.number }

func (a *Account) Branch() string { return a.branch }

func (a *Account) Owner() models.User { return *a.owner }

func (a *Account) Limits() Limits { return a.limits }

func (a *Account) ownedBy(cpf string) bool { return a.owner.CPF == cpf }

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Transactions returns a copy of the movement log, oldest first.
func (a *Account) Transactions() []models.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Transaction, len(a.log))
	copy(out, a.log)
	return out
}

// Deposit credits amount to the account.
func (a *Account) Deposit(amount decimal.Decimal) (Receipt, error) {
	if !amount.IsPositive() {
		return Receipt{}, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	tx := a.record(models.KindDeposit, amount, a.stamp())
	return Receipt{Transaction: tx, BalanceAfter: a.balance}, nil
}

// Withdraw debits amount after checking, in order: amount is positive, the
// balance covers it, it is within the per-withdrawal limit, and fewer than
// DailyWithdrawals withdrawals succeeded in the trailing WithdrawalWindow.
// The first failing check is returned and nothing changes.
func (a *Account) Withdraw(amount decimal.Decimal) (Receipt, error) {
	if !amount.IsPositive() {
		return Receipt{}, ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance.LessThan(amount) {
		return Receipt{}, ErrInsufficientFunds
	}
	if amount.GreaterThan(a.limits.PerWithdrawal) {
		return Receipt{}, fmt.Errorf("%w of %s", ErrExceedsPerTransactionLimit, money.Format(a.limits.PerWithdrawal))
	}
	now := a.stamp()
	if withdrawalsInWindow(a.withdrawals, now) >= a.limits.DailyWithdrawals {
		return Receipt{}, fmt.Errorf("%w (%d per 24h)", ErrDailyLimitReached, a.limits.DailyWithdrawals)
	}

	a.balance = a.balance.Sub(amount)
	a.withdrawals = append(a.withdrawals, now)
	tx := a.record(models.KindWithdrawal, amount, now)
	return Receipt{Transaction: tx, BalanceAfter: a.balance}, nil
}

// Statement returns the account's current state. It never mutates the account.
func (a *Account) Statement() models.Statement {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]models.Transaction, len(a.log))
	copy(entries, a.log)
	return models.Statement{
		AccountNumber: a.number,
		Branch:        a.branch,
		OwnerName:     a.owner.Name,
		Entries:       entries,
		Balance:       a.balance,
	}
}

// Summary renders the account on one line, as shown in account listings.
func (a *Account) Summary() string {
	return fmt.Sprintf("Account %04d (Br. %s) - Holder: %s - Balance: %s",
		a.number, a.branch, a.owner.Name, money.Format(a.Balance()))
}

// stamp reads the clock, never going back past the last logged movement so
// the log stays ordered even if the wall clock is adjusted. Caller holds mu.
func (a *Account) stamp() time.Time {
	t := a.now()
	if n := len(a.log); n > 0 && t.Before(a.log[n-1].Timestamp) {
		t = a.log[n-1].Timestamp
	}
	return t
}

// record appends to the log. Caller holds mu.
func (a *Account) record(kind models.Kind, amount decimal.Decimal, at time.Time) models.Transaction {
	tx := models.Transaction{Timestamp: at, Kind: kind, Amount: amount}
	a.log = append(a.log, tx)
	return tx
}

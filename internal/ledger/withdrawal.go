package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied to every new account unless the Bank is configured otherwise.
const (
	DefaultBranch           = "0001"
	DefaultDailyWithdrawals = 3
)

// DefaultPerWithdrawal is the largest amount a single withdrawal may take.
var DefaultPerWithdrawal = decimal.NewFromInt(500)

// WithdrawalWindow is the sliding window the daily withdrawal count is taken over.
// It is a rolling 24h period ending at the time of the withdrawal, not a calendar day.
const WithdrawalWindow = 24 * time.Hour

// Limits caps withdrawals on an account.
type Limits struct {
	PerWithdrawal    decimal.Decimal
	DailyWithdrawals int
}

func DefaultLimits() Limits {
	return Limits{
		PerWithdrawal:    DefaultPerWithdrawal,
		DailyWithdrawals: DefaultDailyWithdrawals,
	}
}

// Clock returns the current time. Tests substitute a controllable one.
type Clock func() time.Time

// withdrawalsInWindow counts timestamps in (now-WithdrawalWindow, now].
func withdrawalsInWindow(history []time.Time, now time.Time) int {
	from := now.Add(-WithdrawalWindow)
	n := 0
	for _, t := range history {
		if t.After(from) && !t.After(now) {
			n++
		}
	}
	return n
}

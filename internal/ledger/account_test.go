package ledger

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"testing/quick"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/banking-ledger/internal/models"
)

// fakeClock is a Clock whose time only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// openAccount registers a throwaway user on a fresh bank and opens one account.
func openAccount(t *testing.T, opts ...BankOption) *Account {
	t.Helper()
	b := NewBank(opts...)
	if _, err := b.RegisterUser(validInput("52998224725")); err != nil {
		t.Fatalf("RegisterUser err=%v", err)
	}
	a, err := b.CreateAccount("52998224725")
	if err != nil {
		t.Fatalf("CreateAccount err=%v", err)
	}
	return a
}

func mustDeposit(t *testing.T, a *Account, amount string) {
	t.Helper()
	if _, err := a.Deposit(d(amount)); err != nil {
		t.Fatalf("Deposit(%s) err=%v", amount, err)
	}
}

func TestDeposit(t *testing.T) {
	a := openAccount(t)

	r, err := a.Deposit(d("150.25"))
	if err != nil {
		t.Fatal(err)
	}
	if !r.BalanceAfter.Equal(d("150.25")) || !a.Balance().Equal(d("150.25")) {
		t.Fatalf("balance=%s want=150.25", a.Balance())
	}
	if r.Transaction.Kind != models.KindDeposit || !r.Transaction.Amount.Equal(d("150.25")) {
		t.Fatalf("unexpected receipt: %+v", r)
	}

	for _, amt := range []string{"0", "-1", "-0.01"} {
		if _, err := a.Deposit(d(amt)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Deposit(%s) want ErrInvalidAmount, got %v", amt, err)
		}
	}
	if !a.Balance().Equal(d("150.25")) {
		t.Fatalf("rejected deposits changed balance: %s", a.Balance())
	}
	if n := len(a.Transactions()); n != 1 {
		t.Fatalf("log len=%d want=1", n)
	}
}

func TestWithdrawGateOrder(t *testing.T) {
	a := openAccount(t)
	mustDeposit(t, a, "100")

	// non-positive is checked first
	if _, err := a.Withdraw(d("0")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	// balance is checked before the per-withdrawal ceiling
	if _, err := a.Withdraw(d("600")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	mustDeposit(t, a, "5000")
	if _, err := a.Withdraw(d("600")); !errors.Is(err, ErrExceedsPerTransactionLimit) {
		t.Fatalf("want ErrExceedsPerTransactionLimit, got %v", err)
	}
	if _, err := a.Withdraw(d("500.01")); !errors.Is(err, ErrExceedsPerTransactionLimit) {
		t.Fatalf("want ErrExceedsPerTransactionLimit, got %v", err)
	}
	// exactly the ceiling is allowed
	if _, err := a.Withdraw(d("500")); err != nil {
		t.Fatalf("withdraw at ceiling err=%v", err)
	}
	if !a.Balance().Equal(d("4600")) {
		t.Fatalf("balance=%s want=4600", a.Balance())
	}
}

func TestDailyWithdrawalLimit(t *testing.T) {
	clock := newFakeClock()
	a := openAccount(t, WithClock(clock.Now))
	mustDeposit(t, a, "1600")

	for i := 0; i < 3; i++ {
		if _, err := a.Withdraw(d("500")); err != nil {
			t.Fatalf("withdraw #%d err=%v", i+1, err)
		}
		clock.Advance(time.Minute)
	}
	if !a.Balance().Equal(d("100")) {
		t.Fatalf("balance=%s want=100", a.Balance())
	}
	if _, err := a.Withdraw(d("50")); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("want ErrDailyLimitReached, got %v", err)
	}
	if !a.Balance().Equal(d("100")) {
		t.Fatalf("rejected withdrawal changed balance: %s", a.Balance())
	}
}

func TestDailyLimitIsSlidingWindow(t *testing.T) {
	clock := newFakeClock()
	clock.Set(time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC))
	a := openAccount(t, WithClock(clock.Now))
	mustDeposit(t, a, "1000")

	start := clock.Now()
	for _, off := range []time.Duration{0, time.Hour, 90 * time.Minute} {
		clock.Set(start.Add(off))
		if _, err := a.Withdraw(d("10")); err != nil {
			t.Fatalf("withdraw at +%s err=%v", off, err)
		}
	}

	// past midnight: a calendar-day reset would allow this, the rolling window does not
	clock.Set(start.Add(3 * time.Hour))
	if _, err := a.Withdraw(d("10")); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("after midnight want ErrDailyLimitReached, got %v", err)
	}
	clock.Set(start.Add(WithdrawalWindow - time.Second))
	if _, err := a.Withdraw(d("10")); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("inside window want ErrDailyLimitReached, got %v", err)
	}

	// exactly 24h after the first one it falls out of (now-24h, now]
	clock.Set(start.Add(WithdrawalWindow))
	if _, err := a.Withdraw(d("10")); err != nil {
		t.Fatalf("first withdrawal should have expired, err=%v", err)
	}
	// the +1h and +90m withdrawals are still in the window, plus the one just made
	clock.Set(start.Add(WithdrawalWindow + 30*time.Minute))
	if _, err := a.Withdraw(d("10")); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("want ErrDailyLimitReached, got %v", err)
	}
}

func TestFailedWithdrawalsDoNotCount(t *testing.T) {
	a := openAccount(t)
	mustDeposit(t, a, "2000")

	for i := 0; i < 5; i++ {
		if _, err := a.Withdraw(d("900")); !errors.Is(err, ErrExceedsPerTransactionLimit) {
			t.Fatalf("want ErrExceedsPerTransactionLimit, got %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := a.Withdraw(d("100")); err != nil {
			t.Fatalf("withdraw #%d err=%v", i+1, err)
		}
	}
	if n := len(a.Transactions()); n != 4 {
		t.Fatalf("log len=%d want=4", n)
	}
}

func TestCustomLimits(t *testing.T) {
	a := openAccount(t, WithLimits(Limits{PerWithdrawal: d("50"), DailyWithdrawals: 1}))
	mustDeposit(t, a, "500")

	if _, err := a.Withdraw(d("60")); !errors.Is(err, ErrExceedsPerTransactionLimit) {
		t.Fatalf("want ErrExceedsPerTransactionLimit, got %v", err)
	}
	if _, err := a.Withdraw(d("50")); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Withdraw(d("1")); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("want ErrDailyLimitReached, got %v", err)
	}
}

func TestStatement(t *testing.T) {
	clock := newFakeClock()
	a := openAccount(t, WithClock(clock.Now))

	st := a.Statement()
	if !st.Empty() || !st.Balance.IsZero() {
		t.Fatalf("new account statement should be empty: %+v", st)
	}
	if st.AccountNumber != 1 || st.Branch != DefaultBranch || st.OwnerName != "Maria Silva" {
		t.Fatalf("unexpected header: %+v", st)
	}

	mustDeposit(t, a, "1234.5")
	clock.Advance(time.Second)
	if _, err := a.Withdraw(d("34.5")); err != nil {
		t.Fatal(err)
	}

	st = a.Statement()
	if len(st.Entries) != 2 || !st.Balance.Equal(d("1200")) {
		t.Fatalf("unexpected statement: %+v", st)
	}
	if got, want := st.Entries[0].String(), "10/03/2024 09:00:00 - Deposit: R$ 1.234,50"; got != want {
		t.Fatalf("entry[0]=%q want=%q", got, want)
	}
	if got, want := st.Entries[1].String(), "10/03/2024 09:00:01 - Withdrawal: R$ 34,50"; got != want {
		t.Fatalf("entry[1]=%q want=%q", got, want)
	}

	// statement is a copy
	st.Entries[0].Amount = d("1")
	if !a.Transactions()[0].Amount.Equal(d("1234.5")) {
		t.Fatal("statement exposed the internal log")
	}
}

func TestSummary(t *testing.T) {
	a := openAccount(t)
	mustDeposit(t, a, "10")
	want := "Account 0001 (Br. 0001) - Holder: Maria Silva - Balance: R$ 10,00"
	if got := a.Summary(); got != want {
		t.Fatalf("Summary()=%q want=%q", got, want)
	}
}

func TestLogStaysOrderedWhenClockGoesBack(t *testing.T) {
	clock := newFakeClock()
	a := openAccount(t, WithClock(clock.Now))

	mustDeposit(t, a, "10")
	clock.Advance(-time.Hour)
	mustDeposit(t, a, "10")

	log := a.Transactions()
	if log[1].Timestamp.Before(log[0].Timestamp) {
		t.Fatalf("log out of order: %v then %v", log[0].Timestamp, log[1].Timestamp)
	}
}

// TestBalanceInvariantProperty runs random deposit/withdraw sequences and checks
// that the balance never goes negative, the log length matches the successful
// calls and timestamps never decrease.
func TestBalanceInvariantProperty(t *testing.T) {
	type op struct {
		Withdraw bool
		Cents    int32
		Advance  uint16 // minutes
	}
	check := func(ops []op) bool {
		clock := newFakeClock()
		b := NewBank(WithClock(clock.Now))
		if _, err := b.RegisterUser(validInput("52998224725")); err != nil {
			return false
		}
		a, _ := b.CreateAccount("52998224725")

		want := decimal.Zero
		ok := 0
		for _, o := range ops {
			clock.Advance(time.Duration(o.Advance) * time.Minute)
			amt := decimal.New(int64(o.Cents)%100000, -2)
			var err error
			if o.Withdraw {
				_, err = a.Withdraw(amt)
				if err == nil {
					want = want.Sub(amt)
				}
			} else {
				_, err = a.Deposit(amt)
				if err == nil {
					want = want.Add(amt)
				}
			}
			if err == nil {
				ok++
			}
			if a.Balance().IsNegative() || !a.Balance().Equal(want) {
				return false
			}
		}

		log := a.Transactions()
		if len(log) != ok {
			return false
		}
		for i := 1; i < len(log); i++ {
			if log[i].Timestamp.Before(log[i-1].Timestamp) {
				return false
			}
		}
		return true
	}
	cfg := &quick.Config{MaxCount: 300, Rand: rand.New(rand.NewSource(7))}
	if err := quick.Check(check, cfg); err != nil {
		t.Fatal(err)
	}
}

func TestConcurrentDepositsAndWithdrawals(t *testing.T) {
	a := openAccount(t, WithLimits(Limits{PerWithdrawal: d("500"), DailyWithdrawals: 1000}))
	mustDeposit(t, a, "1000")

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(2 * workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := a.Deposit(d("2")); err != nil {
				t.Errorf("deposit err: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := a.Withdraw(d("1")); err != nil {
				t.Errorf("withdraw err: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := a.Balance(); !got.Equal(d("1100")) {
		t.Fatalf("balance=%s want=1100", got)
	}
	if n := len(a.Transactions()); n != 2*workers+1 {
		t.Fatalf("log len=%d want=%d", n, 2*workers+1)
	}
}

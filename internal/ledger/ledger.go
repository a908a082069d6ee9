package ledger

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	interfaces "github.com/sheikh-saqib/banking-ledger/internal/interfaces"
	"github.com/sheikh-saqib/banking-ledger/internal/models"
	"github.com/sheikh-saqib/banking-ledger/internal/models/events"
)

// Ledger is the application service the menu talks to. Directory and account
// rules live in Bank and Account; Ledger adds logging, the audit journal and
// event publishing around every successful movement.
type Ledger struct {
	bank      *Bank
	journal   interfaces.TransactionJournal // audit mirror, never read to rebuild state
	publisher interfaces.EventPublisher    // optional
	topic     string
	log       logrus.FieldLogger

	muMap map[int]*sync.Mutex // per-account lock spanning movement + journal write
	mapMu sync.Mutex          // protects muMap
}

type LedgerOption func(*Ledger)

// WithPublisher publishes a TransactionCompleted event on topic for each movement.
func WithPublisher(p interfaces.EventPublisher, topic string) LedgerOption {
	return func(l *Ledger) {
		l.publisher = p
		if topic != "" {
			l.topic = topic
		}
	}
}

func WithLogger(logger logrus.FieldLogger) LedgerOption {
	return func(l *Ledger) { l.log = logger }
}

func NewLedger(bank *Bank, journal interfaces.TransactionJournal, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		bank:    bank,
		journal: journal,
		topic:   events.TopicTransactionCompleted,
		log:     logrus.StandardLogger(),
		muMap:   make(map[int]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Bank() *Bank {
	return l.bank
}

func (l *Ledger) getAccountLock(number int) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[number]; !exists {
		l.muMap[number] = &sync.Mutex{}
	}
	return l.muMap[number]
}

func (l *Ledger) RegisterUser(in UserInput) (models.User, error) {
	u, err := l.bank.RegisterUser(in)
	if err != nil {
		l.log.WithError(err).Debug("user registration rejected")
		return models.User{}, err
	}
	l.log.WithField("cpf", u.CPF).Info("user registered")
	return u, nil
}

func (l *Ledger) CreateAccount(rawCPF string) (*Account, error) {
	a, err := l.bank.CreateAccount(rawCPF)
	if err != nil {
		l.log.WithError(err).Debug("account creation rejected")
		return nil, err
	}
	l.log.WithFields(logrus.Fields{
		"account": a.Number(),
		"branch":  a.Branch(),
		"cpf":     a.Owner().CPF,
	}).Info("account created")
	return a, nil
}

// Deposit credits acct and mirrors the movement.
func (l *Ledger) Deposit(ctx context.Context, acct *Account, amount decimal.Decimal) (Receipt, error) {
	return l.apply(ctx, acct, amount, acct.Deposit)
}

// Withdraw debits acct under the account's withdrawal rules and mirrors the movement.
func (l *Ledger) Withdraw(ctx context.Context, acct *Account, amount decimal.Decimal) (Receipt, error) {
	return l.apply(ctx, acct, amount, acct.Withdraw)
}

func (l *Ledger) apply(ctx context.Context, acct *Account, amount decimal.Decimal, op func(decimal.Decimal) (Receipt, error)) (Receipt, error) {
	// Get the lock for this account and hold it until the movement is mirrored,
	// so journal order always matches the order movements were applied
	mu := l.getAccountLock(acct.Number())
	mu.Lock()
	defer mu.Unlock()

	// Apply the movement on the account itself (validation happens there)
	r, err := op(amount)
	if err != nil {
		// Rejected movements change nothing, so there is nothing to mirror
		l.log.WithError(err).WithFields(logrus.Fields{
			"account": acct.Number(),
			"amount":  amount.String(),
		}).Debug("movement rejected")
		return Receipt{}, err
	}

	// Mirror the applied movement to the journal and the event stream
	l.record(ctx, acct, r)
	return r, nil
}

// record mirrors an applied movement. The movement already happened, so
// failures here are logged and never reported to the caller.
func (l *Ledger) record(ctx context.Context, acct *Account, r Receipt) {
	// Build the journal entry from the receipt
	// - ID: unique entry ID, also used as the event's transaction ID
	// - CreatedAt: the movement's own timestamp, not the time of the write
	entry := models.LedgerEntry{
		ID:            uuid.NewString(),
		AccountNumber: acct.Number(),
		Branch:        acct.Branch(),
		Kind:          r.Transaction.Kind,
		Amount:        r.Transaction.Amount,
		BalanceAfter:  r.BalanceAfter,
		CreatedAt:     r.Transaction.Timestamp,
	}
	fields := logrus.Fields{
		"entry":   entry.ID,
		"account": entry.AccountNumber,
		"kind":    entry.Kind,
		"amount":  entry.Amount.String(),
	}
	l.log.WithFields(fields).Info("movement applied")

	// Save the entry to the journal (memory, postgres, etc.)
	if err := l.journal.SaveEntry(ctx, entry); err != nil {
		l.log.WithError(err).WithFields(fields).Error("journal write failed")
	}

	// Publishing is optional (no brokers configured)
	if l.publisher == nil {
		return
	}
	// Publish the event keyed by account number so one account's events stay ordered
	ev := events.TransactionCompleted{
		TransactionID: entry.ID,
		AccountNumber: entry.AccountNumber,
		Branch:        entry.Branch,
		Kind:          string(entry.Kind),
		Amount:        entry.Amount,
		BalanceAfter:  entry.BalanceAfter,
		OccurredAt:    entry.CreatedAt,
	}
	if err := l.publisher.Publish(ctx, l.topic, strconv.Itoa(entry.AccountNumber), ev); err != nil {
		l.log.WithError(err).WithFields(fields).Error("event publish failed")
	}
}

// Journal returns the mirrored entries of one account.
func (l *Ledger) Journal(ctx context.Context, accountNumber int) ([]models.LedgerEntry, error) {
	return l.journal.GetEntriesByAccount(ctx, accountNumber)
}

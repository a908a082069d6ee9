package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sheikh-saqib/banking-ledger/internal/models"
)

// Bank is the directory of users and accounts. It owns both collections and
// the account-number counter; callers only get lookups and creation, so
// user CPFs stay unique and account numbers stay sequential.
type Bank struct {
	mu sync.Mutex

	branch string
	limits Limits
	now    Clock

	users     map[string]*models.User // normalized CPF -> user
	userOrder []string

	accounts     map[int]*Account
	accountOrder []int
	nextNumber   int
}

type BankOption func(*Bank)

// WithBranch sets the branch code given to new accounts.
func WithBranch(branch string) BankOption {
	return func(b *Bank) { b.branch = branch }
}

// WithLimits sets the withdrawal limits given to new accounts.
func WithLimits(l Limits) BankOption {
	return func(b *Bank) { b.limits = l }
}

func WithClock(c Clock) BankOption {
	return func(b *Bank) { b.now = c }
}

func NewBank(opts ...BankOption) *Bank {
	b := &Bank{
		branch:     DefaultBranch,
		limits:     DefaultLimits(),
		now:        time.Now,
		users:      make(map[string]*models.User),
		accounts:   make(map[int]*Account),
		nextNumber: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterUser validates in and adds the user. On any error the directory is unchanged.
func (b *Bank) RegisterUser(in UserInput) (models.User, error) {
	cpf, err := validateCPF(in.CPF)
	if err != nil {
		return models.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[cpf]; exists {
		return models.User{}, fmt.Errorf("%w: cpf %s", ErrDuplicateUser, cpf)
	}
	u, err := buildUser(cpf, in)
	if err != nil {
		return models.User{}, err
	}

	b.users[cpf] = u
	b.userOrder = append(b.userOrder, cpf)
	return *u, nil
}

// FindUser looks a user up by CPF in any formatting.
func (b *Bank) FindUser(rawCPF string) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, err := b.userLocked(rawCPF)
	if err != nil {
		return models.User{}, err
	}
	return *u, nil
}

func (b *Bank) userLocked(rawCPF string) (*models.User, error) {
	u, ok := b.users[NormalizeCPF(rawCPF)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CreateAccount opens an account for an existing user with the next account
// number. Numbers start at 1 and are never reused; failed calls don't consume one.
func (b *Bank) CreateAccount(rawCPF string) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	owner, err := b.userLocked(rawCPF)
	if err != nil {
		return nil, err
	}

	a := newAccount(b.nextNumber, b.branch, owner, b.limits, b.now)
	b.accounts[a.number] = a
	b.accountOrder = append(b.accountOrder, a.number)
	b.nextNumber++
	return a, nil
}

// Account returns the account with the given number.
func (b *Bank) Account(number int) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// AccountsForUser returns the user's accounts ordered by number. A user with
// no accounts yields an empty slice, not an error.
func (b *Bank) AccountsForUser(rawCPF string) ([]*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	owner, err := b.userLocked(rawCPF)
	if err != nil {
		return nil, err
	}

	out := make([]*Account, 0)
	for _, n := range b.accountOrder {
		if a := b.accounts[n]; a.ownedBy(owner.CPF) {
			out = append(out, a)
		}
	}
	return out, nil
}

// ResolveAccount picks the account to operate on for a user:
//   - no accounts: ErrNoAccountsForUser
//   - one account: it is returned directly
//   - several: account is nil and candidates lists them for SelectAccount
func (b *Bank) ResolveAccount(rawCPF string) (account *Account, candidates []*Account, err error) {
	accts, err := b.AccountsForUser(rawCPF)
	if err != nil {
		return nil, nil, err
	}
	switch len(accts) {
	case 0:
		return nil, nil, ErrNoAccountsForUser
	case 1:
		return accts[0], nil, nil
	default:
		return nil, accts, nil
	}
}

// SelectAccount interprets input as a 1-based position in candidates.
func SelectAccount(candidates []*Account, input string) (*Account, error) {
	i, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidSelection, input)
	}
	if i < 1 || i > len(candidates) {
		return nil, fmt.Errorf("%w: choose between 1 and %d", ErrInvalidSelection, len(candidates))
	}
	return candidates[i-1], nil
}

// Users returns every registered user in registration order.
func (b *Bank) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.User, 0, len(b.userOrder))
	for _, cpf := range b.userOrder {
		out = append(out, *b.users[cpf])
	}
	return out
}

// Accounts returns every account in creation order.
func (b *Bank) Accounts() []*Account {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Account, 0, len(b.accountOrder))
	for _, n := range b.accountOrder {
		out = append(out, b.accounts[n])
	}
	return out
}

package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sync"    // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/banking-ledger/internal/interfaces" // interface TransactionJournal
	"github.com/sheikh-saqib/banking-ledger/internal/models"                // domain models: LedgerEntry
)

// MemoryJournal is an in-memory implementation of interfaces.TransactionJournal.
// It keeps entries in insertion order and is safe for concurrent writes.
type MemoryJournal struct {
	mu        sync.Mutex           // protects entries and byAccount
	entries   []models.LedgerEntry // every entry, oldest first
	byAccount map[int][]int        // account number -> indexes into entries
}

// NewMemoryJournal creates and returns an empty MemoryJournal
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		entries:   make([]models.LedgerEntry, 0),
		byAccount: make(map[int][]int),
	}
}

// SaveEntry appends a LedgerEntry to the journal.
func (m *MemoryJournal) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// lock the mutex to prevent concurrent writes
	m.mu.Lock()
	defer m.mu.Unlock()

	// index the entry under its account before appending it
	m.byAccount[entry.AccountNumber] = append(m.byAccount[entry.AccountNumber], len(m.entries))
	m.entries = append(m.entries, entry)
	return nil // always succeeds in memory
}

// GetLedgerEntries returns a copy of all entries so callers can't modify internal state.
func (m *MemoryJournal) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

func (m *MemoryJournal) GetEntriesByAccount(ctx context.Context, accountNumber int) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// walk the account's index; entries come back oldest first
	idx := m.byAccount[accountNumber]
	result := make([]models.LedgerEntry, 0, len(idx))
	for _, i := range idx {
		result = append(result, m.entries[i])
	}
	return result, nil
}

// Compile-time check: ensure MemoryJournal implements TransactionJournal interface
var _ interfaces.TransactionJournal = (*MemoryJournal)(nil)

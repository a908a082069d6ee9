package interfaces

import (
	"context"

	"github.com/sheikh-saqib/banking-ledger/internal/models"
)

// TransactionJournal mirrors every applied movement for audit. It is write-mostly
// and never used to rebuild account state.
type TransactionJournal interface {
	SaveEntry(ctx context.Context, entry models.LedgerEntry) error
	GetEntriesByAccount(ctx context.Context, accountNumber int) ([]models.LedgerEntry, error)
	GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)
}

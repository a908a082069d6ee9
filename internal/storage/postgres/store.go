package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	interfaces "github.com/sheikh-saqib/banking-ledger/internal/interfaces" // interface TransactionJournal
	"github.com/sheikh-saqib/banking-ledger/internal/models"
)

const createLedgerEntriesTable = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	id TEXT PRIMARY KEY,
	account_number INTEGER NOT NULL,
	branch TEXT NOT NULL,
	kind TEXT NOT NULL,
	amount NUMERIC(18,2) NOT NULL,
	balance_after NUMERIC(18,2) NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// Open connects to postgres using dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

type PostgresJournal struct {
	db *sql.DB
}

func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{
		db: db,
	}
}

// Init creates the ledger_entries table when missing.
func (p *PostgresJournal) Init(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createLedgerEntriesTable); err != nil {
		return fmt.Errorf("create ledger_entries table: %w", err)
	}
	return nil
}

func (p *PostgresJournal) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	const query = `INSERT INTO ledger_entries (id, account_number, branch, kind, amount, balance_after, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`

	// Execute the insert; kind is stored as plain text and time in UTC
	_, err := p.db.ExecContext(ctx, query,
		entry.ID,
		entry.AccountNumber,
		entry.Branch,
		string(entry.Kind),
		entry.Amount,
		entry.BalanceAfter,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (p *PostgresJournal) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_number, branch, kind, amount, balance_after, created_at
	FROM ledger_entries ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (p *PostgresJournal) GetEntriesByAccount(ctx context.Context, accountNumber int) ([]models.LedgerEntry, error) {
	const query = `SELECT id, account_number, branch, kind, amount, balance_after, created_at
	FROM ledger_entries WHERE account_number = $1 ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var (
			entry models.LedgerEntry
			kind  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountNumber,
			&entry.Branch,
			&kind,
			&entry.Amount,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.Kind = models.Kind(kind) // convert back to the domain type
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ interfaces.TransactionJournal = (*PostgresJournal)(nil)

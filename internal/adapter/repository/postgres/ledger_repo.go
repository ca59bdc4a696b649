package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository for one tenant
// schema.
type LedgerRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewLedgerRepository creates a new LedgerRepository scoped to a schema.
func NewLedgerRepository(pool *pgxpool.Pool, schema string) *LedgerRepository {
	return &LedgerRepository{
		pool:  pool,
		table: pgx.Identifier{schema, "financial_bank_account_ledger"}.Sanitize(),
	}
}

const ledgerColumns = `id, tenant_id, bank_account_id, transaction_id, entry_type, reference_type,
	reference_id, description, effective_date, amount, balance_after, created_by, created_at`

// ledgerOrder keeps reads in the exact order the entries were emitted:
// effective date, then insertion time, then the monotonic ID.
const ledgerOrder = ` ORDER BY effective_date ASC, created_at ASC, id ASC`

// CountByAccount counts the ledger entries of one account.
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+r.table+` WHERE bank_account_id = $1`, accountID).Scan(&count)

	return count, err
}

// ListByAccount retrieves the full ledger of one account in chain order.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ledgerColumns+` FROM `+r.table+` WHERE bank_account_id = $1`+ledgerOrder,
		accountID)
	if err != nil {
		return nil, err
	}

	return collectEntries(rows)
}

// ListByAccountBetween retrieves the entries whose effective date falls
// within [from, to], in chain order.
func (r *LedgerRepository) ListByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ledgerColumns+` FROM `+r.table+`
		  WHERE bank_account_id = $1 AND effective_date BETWEEN $2 AND $3`+ledgerOrder,
		accountID, timeToPgDate(from), timeToPgDate(to))
	if err != nil {
		return nil, err
	}

	return collectEntries(rows)
}

// LastBefore retrieves the newest entry strictly before the given date,
// or nil when the account has none.
func (r *LedgerRepository) LastBefore(ctx context.Context, accountID string, before time.Time) (*domain.LedgerEntry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM `+r.table+`
		  WHERE bank_account_id = $1 AND effective_date < $2
		  ORDER BY effective_date DESC, created_at DESC, id DESC
		  LIMIT 1`,
		accountID, timeToPgDate(before))

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return entry, nil
}

// CreateBatch inserts entries inside the given transaction using one
// round trip.
func (r *LedgerRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(
			`INSERT INTO `+r.table+` (`+ledgerColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			entry.ID,
			entry.TenantID,
			entry.BankAccountID,
			stringPtrToText(entry.TransactionID),
			string(entry.EntryType),
			string(entry.ReferenceType),
			entry.ReferenceID,
			entry.Description,
			timeToPgDate(entry.EffectiveDate),
			decimalToNumeric(entry.Amount),
			decimalToNumeric(entry.BalanceAfter),
			entry.CreatedBy,
			timeToPgTimestamptz(entry.CreatedAt),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// DeleteByAccount removes every ledger entry of one account and reports
// how many rows went away.
func (r *LedgerRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`DELETE FROM `+r.table+` WHERE bank_account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func collectEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry         domain.LedgerEntry
		transactionID pgtype.Text
		effectiveDate pgtype.Date
		amount        pgtype.Numeric
		balanceAfter  pgtype.Numeric
		description   pgtype.Text
		createdBy     pgtype.Text
	)

	err := row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.BankAccountID,
		&transactionID,
		&entry.EntryType,
		&entry.ReferenceType,
		&entry.ReferenceID,
		&description,
		&effectiveDate,
		&amount,
		&balanceAfter,
		&createdBy,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.TransactionID = textToStringPtr(transactionID)
	entry.Description = description.String
	entry.EffectiveDate = pgDateToTime(effectiveDate)
	entry.Amount = numericToDecimal(amount)
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.CreatedBy = createdBy.String

	return &entry, nil
}

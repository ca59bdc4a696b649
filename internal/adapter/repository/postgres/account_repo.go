package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AccountRepository implements usecase.AccountRepository for one tenant
// schema. All statements address the schema-qualified table, never the
// session search path.
type AccountRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewAccountRepository creates a new AccountRepository scoped to a schema.
func NewAccountRepository(pool *pgxpool.Pool, schema string) *AccountRepository {
	return &AccountRepository{
		pool:  pool,
		table: pgx.Identifier{schema, "financial_bank_accounts"}.Sanitize(),
	}
}

const accountColumns = `id, tenant_id, account_name, bank_name, current_balance, last_balance_update, created_at, deleted_at`

// GetByID retrieves a non-deleted account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	return r.getByID(ctx, r.pool, id, "")
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankAccount, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return r.getByID(ctx, pgxTx, id, " FOR UPDATE")
}

func (r *AccountRepository) getByID(ctx context.Context, q querier, id, suffix string) (*domain.BankAccount, error) {
	row := q.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM `+r.table+` WHERE id = $1 AND deleted_at IS NULL`+suffix, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// ListActive retrieves all non-deleted accounts ordered by ID.
func (r *AccountRepository) ListActive(ctx context.Context) ([]*domain.BankAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM `+r.table+` WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.BankAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the current balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE `+r.table+` SET current_balance = $2, last_balance_update = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.BankAccount, error) {
	var (
		account           domain.BankAccount
		balance           pgtype.Numeric
		lastBalanceUpdate pgtype.Timestamptz
		deletedAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.TenantID,
		&account.AccountName,
		&account.BankName,
		&balance,
		&lastBalanceUpdate,
		&account.CreatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	account.CurrentBalance = numericToDecimal(balance)
	account.LastBalanceUpdate = pgTimestamptzToTimePtr(lastBalanceUpdate)
	account.DeletedAt = pgTimestamptzToTimePtr(deletedAt)

	return &account, nil
}

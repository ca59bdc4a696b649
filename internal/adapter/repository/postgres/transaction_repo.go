package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casalar/ledger/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository for one
// tenant schema.
type TransactionRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewTransactionRepository creates a new TransactionRepository scoped to
// a schema.
func NewTransactionRepository(pool *pgxpool.Pool, schema string) *TransactionRepository {
	return &TransactionRepository{
		pool:  pool,
		table: pgx.Identifier{schema, "financial_transactions"}.Sanitize(),
	}
}

// ListPaidByAccount retrieves the settled transactions of one account in
// replay order: effective date (payment date, falling back to due date),
// then creation time, then ID as the final tie-break.
func (r *TransactionRepository) ListPaidByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, bank_account_id, type, net_amount, status,
		        payment_date, due_date, description, created_by, created_at
		   FROM `+r.table+`
		  WHERE bank_account_id = $1
		    AND status = 'PAID'
		    AND deleted_at IS NULL
		  ORDER BY COALESCE(payment_date, due_date) ASC, created_at ASC, id ASC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx          domain.Transaction
		netAmount   pgtype.Numeric
		paymentDate pgtype.Date
		dueDate     pgtype.Date
		description pgtype.Text
		createdBy   pgtype.Text
	)

	err := row.Scan(
		&tx.ID,
		&tx.TenantID,
		&tx.BankAccountID,
		&tx.Type,
		&netAmount,
		&tx.Status,
		&paymentDate,
		&dueDate,
		&description,
		&createdBy,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.NetAmount = numericToDecimal(netAmount)
	tx.PaymentDate = pgDateToTimePtr(paymentDate)
	tx.DueDate = pgDateToTime(dueDate)
	tx.Description = description.String
	tx.CreatedBy = createdBy.String

	return &tx, nil
}

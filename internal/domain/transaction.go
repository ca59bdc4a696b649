package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a financial transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// TransactionStatus is the settlement state of a transaction. Only PAID
// transactions are reflected in the ledger.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusPaid      TransactionStatus = "PAID"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is a settled financial movement. Within the reconciliation
// engine transactions are read-only input.
type Transaction struct {
	ID            string
	TenantID      string
	BankAccountID string
	Type          TransactionType
	NetAmount     decimal.Decimal
	Status        TransactionStatus
	PaymentDate   *time.Time
	DueDate       time.Time
	Description   string
	CreatedBy     string
	CreatedAt     time.Time
}

// SignedImpact returns the transaction amount with the sign of its effect
// on the account balance: positive for income, negative for expense.
func (t *Transaction) SignedImpact() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.NetAmount.Neg()
	}
	return t.NetAmount
}

// EffectiveDate returns the date the transaction takes effect on the
// balance: the payment date when present, the due date otherwise. A
// transaction with neither has no position in the ledger order and is
// rejected rather than placed at "now", which would break replay
// determinism.
func (t *Transaction) EffectiveDate() (time.Time, error) {
	if t.PaymentDate != nil && !t.PaymentDate.IsZero() {
		return *t.PaymentDate, nil
	}
	if !t.DueDate.IsZero() {
		return t.DueDate, nil
	}
	return time.Time{}, ErrMissingEffectiveDate
}

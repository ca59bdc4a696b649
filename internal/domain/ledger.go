package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	// EntryTypeInitialBalance is the single opening entry of an account's
	// ledger. Its amount equals its balance-after.
	EntryTypeInitialBalance EntryType = "INITIAL_BALANCE"
	// EntryTypePaymentConfirmation records one settled transaction's
	// impact on the running balance.
	EntryTypePaymentConfirmation EntryType = "PAYMENT_CONFIRMATION"
)

// ReferenceType names the aggregate a ledger entry points back at.
type ReferenceType string

const (
	ReferenceTypeAccount     ReferenceType = "ACCOUNT"
	ReferenceTypeTransaction ReferenceType = "TRANSACTION"
)

// LedgerEntry is one immutable, dated balance movement together with the
// running balance it produced. Entries are append-only: corrections happen
// only through a full delete-and-replay of the account's ledger.
type LedgerEntry struct {
	ID            string
	TenantID      string
	BankAccountID string
	TransactionID *string
	EntryType     EntryType
	ReferenceType ReferenceType
	ReferenceID   string
	Description   string
	EffectiveDate time.Time
	Amount        decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}

// ConsistencyResult reports how an account's stored ledger chain compares
// against its recorded balance.
type ConsistencyResult struct {
	AccountID       string
	EntryCount      int
	RecordedBalance decimal.Decimal
	ReplayedBalance decimal.Decimal
	Difference      decimal.Decimal
	Consistent      bool
	Problems        []string
	CheckedAt       time.Time
}

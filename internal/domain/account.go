package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a tenant-owned bank account whose current balance anchors
// ledger reconciliation.
type BankAccount struct {
	ID                string
	TenantID          string
	AccountName       string
	BankName          string
	CurrentBalance    decimal.Decimal
	LastBalanceUpdate *time.Time
	CreatedAt         time.Time
	DeletedAt         *time.Time
}

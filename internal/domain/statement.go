package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntry is one ledger movement as presented on an account
// statement.
type StatementEntry struct {
	ID             string          `json:"id"`
	EntryType      EntryType       `json:"entryType"`
	TransactionID  *string         `json:"transactionId,omitempty"`
	Description    string          `json:"description"`
	EffectiveDate  time.Time       `json:"effectiveDate"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// StatementSummary aggregates a statement period.
type StatementSummary struct {
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
	PeriodNetImpact decimal.Decimal `json:"periodNetImpact"`
	EntriesCount    int             `json:"entriesCount"`
}

// AccountStatement is the dated view of an account's ledger over a period.
type AccountStatement struct {
	AccountID      string           `json:"accountId"`
	AccountName    string           `json:"accountName"`
	BankName       string           `json:"bankName"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	FromDate       time.Time        `json:"fromDate"`
	ToDate         time.Time        `json:"toDate"`
	Summary        StatementSummary `json:"summary"`
	Entries        []StatementEntry `json:"entries"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatementEntryResponse represents one ledger movement in a statement.
type StatementEntryResponse struct {
	ID             string          `json:"id"`
	EntryType      string          `json:"entry_type"`
	TransactionID  *string         `json:"transaction_id,omitempty"`
	Description    string          `json:"description"`
	EffectiveDate  string          `json:"effective_date"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementSummaryResponse represents statement totals.
type StatementSummaryResponse struct {
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	PeriodNetImpact decimal.Decimal `json:"period_net_impact"`
	EntriesCount    int             `json:"entries_count"`
}

// StatementResponse represents an account statement in API responses.
type StatementResponse struct {
	AccountID      string                   `json:"account_id"`
	AccountName    string                   `json:"account_name"`
	BankName       string                   `json:"bank_name"`
	CurrentBalance decimal.Decimal          `json:"current_balance"`
	FromDate       string                   `json:"from_date"`
	ToDate         string                   `json:"to_date"`
	Summary        StatementSummaryResponse `json:"summary"`
	Entries        []StatementEntryResponse `json:"entries"`
}

// StatementFromDomain converts a domain statement to a response.
func StatementFromDomain(s *domain.AccountStatement) *StatementResponse {
	entries := make([]StatementEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = StatementEntryResponse{
			ID:             e.ID,
			EntryType:      string(e.EntryType),
			TransactionID:  e.TransactionID,
			Description:    e.Description,
			EffectiveDate:  e.EffectiveDate.Format("2006-01-02"),
			Amount:         e.Amount,
			RunningBalance: e.RunningBalance,
		}
	}

	return &StatementResponse{
		AccountID:      s.AccountID,
		AccountName:    s.AccountName,
		BankName:       s.BankName,
		CurrentBalance: s.CurrentBalance,
		FromDate:       s.FromDate.Format("2006-01-02"),
		ToDate:         s.ToDate.Format("2006-01-02"),
		Summary: StatementSummaryResponse{
			OpeningBalance:  s.Summary.OpeningBalance,
			ClosingBalance:  s.Summary.ClosingBalance,
			PeriodNetImpact: s.Summary.PeriodNetImpact,
			EntriesCount:    s.Summary.EntriesCount,
		},
		Entries: entries,
	}
}

// ConsistencyResponse represents a ledger consistency check result.
type ConsistencyResponse struct {
	AccountID       string          `json:"account_id"`
	EntryCount      int             `json:"entry_count"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
	Problems        []string        `json:"problems,omitempty"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// ConsistencyFromDomain converts a domain result to a response.
func ConsistencyFromDomain(r *domain.ConsistencyResult) *ConsistencyResponse {
	return &ConsistencyResponse{
		AccountID:       r.AccountID,
		EntryCount:      r.EntryCount,
		RecordedBalance: r.RecordedBalance,
		ReplayedBalance: r.ReplayedBalance,
		Difference:      r.Difference,
		Consistent:      r.Consistent,
		Problems:        r.Problems,
		CheckedAt:       r.CheckedAt,
	}
}

// ConsistenciesFromDomain converts domain results to responses.
func ConsistenciesFromDomain(results []*domain.ConsistencyResult) []*ConsistencyResponse {
	out := make([]*ConsistencyResponse, len(results))
	for i, r := range results {
		out[i] = ConsistencyFromDomain(r)
	}
	return out
}

package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalar/ledger/internal/domain"
)

func TestStatementFromDomain(t *testing.T) {
	txID := "tx-1"
	statement := &domain.AccountStatement{
		AccountID:      "acc-1",
		AccountName:    "Conta Principal",
		BankName:       "Banco Azul",
		CurrentBalance: decimal.RequireFromString("120.00"),
		FromDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ToDate:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Summary: domain.StatementSummary{
			OpeningBalance:  decimal.RequireFromString("100.00"),
			ClosingBalance:  decimal.RequireFromString("120.00"),
			PeriodNetImpact: decimal.RequireFromString("20.00"),
			EntriesCount:    2,
		},
		Entries: []domain.StatementEntry{
			{
				ID:             "le-1",
				EntryType:      domain.EntryTypeInitialBalance,
				Description:    "Saldo inicial",
				EffectiveDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				Amount:         decimal.RequireFromString("100.00"),
				RunningBalance: decimal.RequireFromString("100.00"),
			},
			{
				ID:             "le-2",
				EntryType:      domain.EntryTypePaymentConfirmation,
				TransactionID:  &txID,
				Description:    "Aluguel junho",
				EffectiveDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				Amount:         decimal.RequireFromString("20.00"),
				RunningBalance: decimal.RequireFromString("120.00"),
			},
		},
	}

	resp := StatementFromDomain(statement)

	require.NotNil(t, resp)
	assert.Equal(t, "acc-1", resp.AccountID)
	assert.Equal(t, "2025-06-01", resp.FromDate)
	assert.Equal(t, "2025-06-30", resp.ToDate)
	assert.Equal(t, 2, resp.Summary.EntriesCount)
	assert.True(t, resp.Summary.ClosingBalance.Equal(statement.Summary.ClosingBalance))

	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "INITIAL_BALANCE", resp.Entries[0].EntryType)
	assert.Nil(t, resp.Entries[0].TransactionID)
	assert.Equal(t, "2025-06-10", resp.Entries[1].EffectiveDate)
	require.NotNil(t, resp.Entries[1].TransactionID)
	assert.Equal(t, txID, *resp.Entries[1].TransactionID)
}

func TestConsistencyFromDomain(t *testing.T) {
	now := time.Now()
	result := &domain.ConsistencyResult{
		AccountID:       "acc-1",
		EntryCount:      3,
		RecordedBalance: decimal.RequireFromString("130.00"),
		ReplayedBalance: decimal.RequireFromString("120.00"),
		Difference:      decimal.RequireFromString("10.00"),
		Consistent:      false,
		Problems:        []string{"balance mismatch"},
		CheckedAt:       now,
	}

	resp := ConsistencyFromDomain(result)

	require.NotNil(t, resp)
	assert.Equal(t, result.AccountID, resp.AccountID)
	assert.False(t, resp.Consistent)
	assert.True(t, resp.Difference.Equal(result.Difference))
	assert.Equal(t, result.Problems, resp.Problems)

	list := ConsistenciesFromDomain([]*domain.ConsistencyResult{result})
	require.Len(t, list, 1)
	assert.Equal(t, "acc-1", list[0].AccountID)
}

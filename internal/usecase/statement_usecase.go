package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/infrastructure/metrics"
)

// StatementUseCase builds dated account statements from the stored ledger.
// Statements are read-only and may be served from cache.
type StatementUseCase struct {
	registry TenantRegistry
	stores   TenantStoreFactory
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewStatementUseCase creates a new StatementUseCase. The cache is
// optional; pass nil to always compute from the store. Metrics may be nil.
func NewStatementUseCase(registry TenantRegistry, stores TenantStoreFactory, cache Cache, cacheTTL time.Duration, metrics *metrics.Metrics) *StatementUseCase {
	return &StatementUseCase{
		registry: registry,
		stores:   stores,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// GetStatement returns the account's ledger movements between from and to
// inclusive, with opening and closing balances for the period.
func (uc *StatementUseCase) GetStatement(ctx context.Context, schema, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidPeriod
	}

	cacheKey := fmt.Sprintf("statement:%s:%s:%s:%s", schema, accountID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			statement := &domain.AccountStatement{}
			if err := json.Unmarshal([]byte(cached), statement); err == nil {
				if uc.metrics != nil {
					uc.metrics.CacheHits.Inc()
					uc.metrics.StatementsServed.Inc()
				}
				return statement, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	tenant, err := resolveTenant(ctx, uc.registry, schema)
	if err != nil {
		return nil, err
	}

	store, err := uc.stores.Open(ctx, tenant)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	statement, err := uc.buildStatement(ctx, store, accountID, from, to)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if payload, err := json.Marshal(statement); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(payload), uc.cacheTTL)
		}
	}

	if uc.metrics != nil {
		uc.metrics.StatementsServed.Inc()
	}
	return statement, nil
}

func (uc *StatementUseCase) buildStatement(ctx context.Context, store TenantStore, accountID string, from, to time.Time) (*domain.AccountStatement, error) {
	account, err := store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := store.Ledger().ListByAccountBetween(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	previous, err := store.Ledger().LastBefore(ctx, accountID, from)
	if err != nil {
		return nil, err
	}

	openingBalance := openingBalanceFor(account, entries, previous)

	// The opening entry is a base reference, not a movement of the period.
	netImpact := decimal.Zero
	for _, entry := range entries {
		if entry.EntryType != domain.EntryTypeInitialBalance {
			netImpact = netImpact.Add(entry.Amount)
		}
	}

	closingBalance := openingBalance
	if len(entries) > 0 {
		closingBalance = entries[len(entries)-1].BalanceAfter
	}

	statementEntries := make([]domain.StatementEntry, 0, len(entries))
	for _, entry := range entries {
		description := entry.Description
		if description == "" {
			description = "-"
		}
		statementEntries = append(statementEntries, domain.StatementEntry{
			ID:             entry.ID,
			EntryType:      entry.EntryType,
			TransactionID:  entry.TransactionID,
			Description:    description,
			EffectiveDate:  entry.EffectiveDate,
			Amount:         entry.Amount,
			RunningBalance: entry.BalanceAfter,
		})
	}

	return &domain.AccountStatement{
		AccountID:      account.ID,
		AccountName:    account.AccountName,
		BankName:       account.BankName,
		CurrentBalance: account.CurrentBalance,
		FromDate:       from,
		ToDate:         to,
		Summary: domain.StatementSummary{
			OpeningBalance:  openingBalance,
			ClosingBalance:  closingBalance,
			PeriodNetImpact: netImpact,
			EntriesCount:    len(statementEntries),
		},
		Entries: statementEntries,
	}, nil
}

// openingBalanceFor derives the period's opening balance: the running
// balance just before the window when there is earlier history, otherwise
// reconstructed from the first in-period entry, otherwise the account's
// recorded balance.
func openingBalanceFor(account *domain.BankAccount, entries []*domain.LedgerEntry, previous *domain.LedgerEntry) decimal.Decimal {
	switch {
	case previous != nil:
		return previous.BalanceAfter
	case len(entries) > 0 && entries[0].EntryType == domain.EntryTypeInitialBalance:
		return entries[0].BalanceAfter
	case len(entries) > 0:
		return entries[0].BalanceAfter.Sub(entries[0].Amount)
	default:
		return account.CurrentBalance
	}
}

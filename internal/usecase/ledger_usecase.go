package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/casalar/ledger/internal/domain"
)

// LedgerUseCase verifies stored ledger chains without mutating them.
// Operators use it to decide whether an account needs a rebuild.
type LedgerUseCase struct {
	registry TenantRegistry
	stores   TenantStoreFactory
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(registry TenantRegistry, stores TenantStoreFactory) *LedgerUseCase {
	return &LedgerUseCase{
		registry: registry,
		stores:   stores,
	}
}

// VerifyAccount replays the stored chain of one account and checks every
// ledger invariant: a single leading INITIAL_BALANCE entry, balance-after
// arithmetic, at most one PAYMENT_CONFIRMATION per transaction, and the
// final balance matching the account's recorded balance.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, schema, accountID string) (*domain.ConsistencyResult, error) {
	tenant, err := resolveTenant(ctx, uc.registry, schema)
	if err != nil {
		return nil, err
	}

	store, err := uc.stores.Open(ctx, tenant)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return uc.verifyAccount(ctx, store, accountID)
}

// VerifyTenant verifies every non-deleted account of one tenant.
func (uc *LedgerUseCase) VerifyTenant(ctx context.Context, schema string) ([]*domain.ConsistencyResult, error) {
	tenant, err := resolveTenant(ctx, uc.registry, schema)
	if err != nil {
		return nil, err
	}

	store, err := uc.stores.Open(ctx, tenant)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	accounts, err := store.Accounts().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.ConsistencyResult, 0, len(accounts))
	for _, account := range accounts {
		result, err := uc.verifyAccount(ctx, store, account.ID)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (uc *LedgerUseCase) verifyAccount(ctx context.Context, store TenantStore, accountID string) (*domain.ConsistencyResult, error) {
	account, err := store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := store.Ledger().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := &domain.ConsistencyResult{
		AccountID:       accountID,
		EntryCount:      len(entries),
		RecordedBalance: account.CurrentBalance,
		CheckedAt:       time.Now().UTC(),
	}

	if len(entries) == 0 {
		// Nothing to verify; backfill is the tool that fills this gap.
		result.ReplayedBalance = account.CurrentBalance
		result.Consistent = true
		return result, nil
	}

	running := entries[0].BalanceAfter
	seenTransactions := make(map[string]bool)

	for i, entry := range entries {
		switch {
		case i == 0 && entry.EntryType != domain.EntryTypeInitialBalance:
			result.Problems = append(result.Problems, fmt.Sprintf("first entry %s is %s, not %s", entry.ID, entry.EntryType, domain.EntryTypeInitialBalance))
		case i == 0 && !entry.Amount.Equal(entry.BalanceAfter):
			result.Problems = append(result.Problems, fmt.Sprintf("opening entry %s amount %s differs from balance-after %s", entry.ID, entry.Amount, entry.BalanceAfter))
		case i > 0 && entry.EntryType == domain.EntryTypeInitialBalance:
			result.Problems = append(result.Problems, fmt.Sprintf("entry %s is a second %s entry", entry.ID, domain.EntryTypeInitialBalance))
		case i > 0:
			expected := running.Add(entry.Amount)
			if !entry.BalanceAfter.Equal(expected) {
				result.Problems = append(result.Problems, fmt.Sprintf("entry %s balance-after %s, expected %s", entry.ID, entry.BalanceAfter, expected))
			}
		}

		if entry.EntryType == domain.EntryTypePaymentConfirmation && entry.TransactionID != nil {
			if seenTransactions[*entry.TransactionID] {
				result.Problems = append(result.Problems, fmt.Sprintf("transaction %s confirmed more than once", *entry.TransactionID))
			}
			seenTransactions[*entry.TransactionID] = true
		}

		if i > 0 {
			running = running.Add(entry.Amount)
		}
	}

	result.ReplayedBalance = running
	result.Difference = account.CurrentBalance.Sub(running)

	if !running.Equal(account.CurrentBalance) {
		result.Problems = append(result.Problems, fmt.Sprintf("replayed balance %s differs from recorded balance %s", running, account.CurrentBalance))
	}

	result.Consistent = len(result.Problems) == 0
	return result, nil
}

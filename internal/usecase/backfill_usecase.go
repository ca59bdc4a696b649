package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/infrastructure/metrics"
)

// BackfillUseCase reconstructs missing ledgers in bulk. It only touches
// accounts with zero ledger history: the opening balance is back-solved
// from the recorded current balance, so replay lands exactly on it and the
// balance itself is never written.
type BackfillUseCase struct {
	registry TenantRegistry
	stores   TenantStoreFactory
	idGen    IDGenerator
	metrics  *metrics.Metrics
}

// NewBackfillUseCase creates a new BackfillUseCase. Metrics may be nil.
func NewBackfillUseCase(registry TenantRegistry, stores TenantStoreFactory, idGen IDGenerator, metrics *metrics.Metrics) *BackfillUseCase {
	return &BackfillUseCase{
		registry: registry,
		stores:   stores,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// BackfillInput selects the backfill scope.
type BackfillInput struct {
	// Schema restricts the run to one tenant; empty means all active
	// tenants.
	Schema string
	DryRun bool
}

// BackfillAccountResult reports one account's outcome.
type BackfillAccountResult struct {
	Schema           string
	AccountID        string
	Skipped          bool
	TransactionCount int
	OpeningBalance   decimal.Decimal
	TotalImpact      decimal.Decimal
	FinalBalance     decimal.Decimal
	OpeningDate      time.Time
	EntriesWritten   int
}

// BackfillReport aggregates a whole run.
type BackfillReport struct {
	DryRun  bool
	Tenants int
	Results []BackfillAccountResult
}

// Backfilled counts accounts that received (or, on a dry run, would
// receive) a reconstructed ledger.
func (r *BackfillReport) Backfilled() int {
	n := 0
	for _, res := range r.Results {
		if !res.Skipped {
			n++
		}
	}
	return n
}

// SkippedCount counts accounts left untouched because they already had
// ledger history.
func (r *BackfillReport) SkippedCount() int {
	return len(r.Results) - r.Backfilled()
}

// Run executes the backfill. Tenants and accounts are processed
// sequentially; any error aborts the remaining batch. Re-running after a
// fix is safe: accounts backfilled by an earlier run are skipped.
func (uc *BackfillUseCase) Run(ctx context.Context, input BackfillInput) (*BackfillReport, error) {
	tenants, err := uc.selectTenants(ctx, input.Schema)
	if err != nil {
		return nil, err
	}

	report := &BackfillReport{DryRun: input.DryRun, Tenants: len(tenants)}
	for _, tenant := range tenants {
		if err := uc.runTenant(ctx, tenant, input.DryRun, report); err != nil {
			if uc.metrics != nil {
				uc.metrics.BackfillRuns.WithLabelValues("error").Inc()
			}
			return nil, fmt.Errorf("tenant %s: %w", tenant.SchemaName, err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.BackfillRuns.WithLabelValues("success").Inc()
	}
	return report, nil
}

func (uc *BackfillUseCase) selectTenants(ctx context.Context, schema string) ([]*domain.Tenant, error) {
	if schema != "" {
		tenant, err := resolveTenant(ctx, uc.registry, schema)
		if err != nil {
			return nil, err
		}
		return []*domain.Tenant{tenant}, nil
	}
	return uc.registry.ListActive(ctx)
}

func (uc *BackfillUseCase) runTenant(ctx context.Context, tenant *domain.Tenant, dryRun bool, report *BackfillReport) error {
	store, err := uc.stores.Open(ctx, tenant)
	if err != nil {
		return err
	}
	defer store.Close()

	accounts, err := store.Accounts().ListActive(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		result, err := uc.backfillAccount(ctx, tenant, store, account, dryRun)
		if err != nil {
			return fmt.Errorf("account %s: %w", account.ID, err)
		}
		report.Results = append(report.Results, result)
	}

	return nil
}

func (uc *BackfillUseCase) backfillAccount(
	ctx context.Context,
	tenant *domain.Tenant,
	store TenantStore,
	account *domain.BankAccount,
	dryRun bool,
) (BackfillAccountResult, error) {
	result := BackfillAccountResult{Schema: tenant.SchemaName, AccountID: account.ID}

	// Any prior history means the account is left untouched: appending to
	// or reordering an existing ledger here could duplicate entries.
	count, err := store.Ledger().CountByAccount(ctx, account.ID)
	if err != nil {
		return result, err
	}
	if count > 0 {
		result.Skipped = true
		if uc.metrics != nil {
			uc.metrics.BackfillAccounts.WithLabelValues("skipped").Inc()
		}
		return result, nil
	}

	transactions, err := store.Transactions().ListPaidByAccount(ctx, account.ID)
	if err != nil {
		return result, err
	}

	// Back-solve the opening balance so replay lands exactly on the
	// recorded current balance.
	totalImpact := totalSignedImpact(transactions)
	openingBalance := account.CurrentBalance.Sub(totalImpact)

	openingDate, err := inferOpeningDate(transactions, account)
	if err != nil {
		return result, err
	}

	replay, err := ReplayBalance(ReplayInput{
		TenantID:       account.TenantID,
		BankAccountID:  account.ID,
		OpeningBalance: openingBalance,
		OpeningDate:    openingDate,
		Transactions:   transactions,
	})
	if err != nil {
		return result, err
	}

	result.TransactionCount = len(transactions)
	result.OpeningBalance = openingBalance
	result.TotalImpact = totalImpact
	result.FinalBalance = replay.FinalBalance
	result.OpeningDate = openingDate

	if dryRun {
		return result, nil
	}

	tx, err := store.TxManager().Begin(ctx)
	if err != nil {
		return result, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, entry := range replay.Entries {
		entry.ID = uc.idGen.Generate()
		entry.CreatedAt = now
	}

	if err := store.Ledger().CreateBatch(ctx, tx, replay.Entries); err != nil {
		return result, err
	}

	if err := tx.Commit(ctx); err != nil {
		return result, err
	}

	result.EntriesWritten = len(replay.Entries)
	if uc.metrics != nil {
		uc.metrics.BackfillAccounts.WithLabelValues("backfilled").Inc()
		uc.metrics.EntriesWritten.Add(float64(result.EntriesWritten))
	}
	return result, nil
}

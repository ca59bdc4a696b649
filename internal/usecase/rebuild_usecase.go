package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/infrastructure/metrics"
)

// RebuildUseCase destructively reconstructs one account's ledger from an
// operator-supplied opening balance. Unlike backfill, the opening balance
// is ground truth here, so the account's current balance is rewritten to
// match the replay outcome.
type RebuildUseCase struct {
	registry TenantRegistry
	stores   TenantStoreFactory
	idGen    IDGenerator
	metrics  *metrics.Metrics
}

// NewRebuildUseCase creates a new RebuildUseCase. Metrics may be nil.
func NewRebuildUseCase(registry TenantRegistry, stores TenantStoreFactory, idGen IDGenerator, metrics *metrics.Metrics) *RebuildUseCase {
	return &RebuildUseCase{
		registry: registry,
		stores:   stores,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// RebuildInput identifies the account and supplies the authoritative
// opening state.
type RebuildInput struct {
	Schema         string
	AccountID      string
	OpeningBalance decimal.Decimal
	// OpeningDate overrides the opening entry's effective date. When nil,
	// the first transaction's effective date is used, falling back to the
	// account's creation date.
	OpeningDate *time.Time
	DryRun      bool
}

// RebuildResult reports the computed and, unless dry-run, persisted
// outcome.
type RebuildResult struct {
	Schema           string
	AccountID        string
	TransactionCount int
	OpeningBalance   decimal.Decimal
	TotalImpact      decimal.Decimal
	ResultingBalance decimal.Decimal
	OpeningDate      time.Time
	EntriesDeleted   int64
	EntriesWritten   int
	DryRun           bool
}

// Run rebuilds the account ledger. All destructive work happens in one
// database transaction: the prior ledger is deleted, the replayed entries
// are inserted, and the account balance is updated, or none of it is.
func (uc *RebuildUseCase) Run(ctx context.Context, input RebuildInput) (*RebuildResult, error) {
	tenant, err := resolveTenant(ctx, uc.registry, input.Schema)
	if err != nil {
		return nil, err
	}

	store, err := uc.stores.Open(ctx, tenant)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	account, err := store.Accounts().GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	transactions, err := store.Transactions().ListPaidByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	openingDate := time.Time{}
	if input.OpeningDate != nil {
		openingDate = *input.OpeningDate
	} else if openingDate, err = inferOpeningDate(transactions, account); err != nil {
		return nil, err
	}

	replay, err := ReplayBalance(ReplayInput{
		TenantID:       account.TenantID,
		BankAccountID:  account.ID,
		OpeningBalance: input.OpeningBalance,
		OpeningDate:    openingDate,
		Transactions:   transactions,
	})
	if err != nil {
		return nil, err
	}

	result := &RebuildResult{
		Schema:           tenant.SchemaName,
		AccountID:        account.ID,
		TransactionCount: len(transactions),
		OpeningBalance:   input.OpeningBalance,
		TotalImpact:      totalSignedImpact(transactions),
		ResultingBalance: replay.FinalBalance,
		OpeningDate:      openingDate,
		DryRun:           input.DryRun,
	}

	if input.DryRun {
		return result, nil
	}

	tx, err := store.TxManager().Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the account row so a concurrent posting in this schema
	// serializes behind the rebuild.
	if _, err := store.Accounts().GetByIDForUpdate(ctx, tx, account.ID); err != nil {
		return nil, err
	}

	deleted, err := store.Ledger().DeleteByAccount(ctx, tx, account.ID)
	if err != nil {
		return nil, err
	}
	result.EntriesDeleted = deleted

	now := time.Now().UTC()
	for _, entry := range replay.Entries {
		entry.ID = uc.idGen.Generate()
		entry.CreatedAt = now
	}

	if err := store.Ledger().CreateBatch(ctx, tx, replay.Entries); err != nil {
		return nil, err
	}

	if err := store.Accounts().UpdateBalance(ctx, tx, account.ID, replay.FinalBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result.EntriesWritten = len(replay.Entries)
	if uc.metrics != nil {
		uc.metrics.RebuildRuns.WithLabelValues("success").Inc()
		uc.metrics.EntriesDeleted.Add(float64(result.EntriesDeleted))
		uc.metrics.EntriesWritten.Add(float64(result.EntriesWritten))
	}
	return result, nil
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
	"github.com/casalar/ledger/internal/usecase/mocks"
)

func rebuildFixture(t *testing.T) (*mocks.FakeTenantRegistry, *mocks.FakeTenantStoreFactory, *mocks.FakeTenantStore, *domain.BankAccount) {
	t.Helper()
	tenant := activeTenant("casa_sol")
	registry := mocks.NewFakeTenantRegistry(tenant)
	factory := mocks.NewFakeTenantStoreFactory()

	account := bankAccount("acc-1", tenant.ID, "999.99")
	store := factory.StoreFor("casa_sol")
	store.AccountRepo = mocks.NewFakeAccountRepository(account)
	store.TransactionRepo = mocks.NewFakeTransactionRepository(
		settledTx("tx-1", "acc-1", domain.TransactionTypeExpense, "30.00", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		settledTx("tx-2", "acc-1", domain.TransactionTypeIncome, "50.00", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)),
	)
	return registry, factory, store, account
}

func TestRebuildReplaysFromSuppliedOpening(t *testing.T) {
	// Opening 100, expense 30, income 50: balances run 100, 70, 120 and
	// the account balance is rewritten to 120.
	registry, factory, store, account := rebuildFixture(t)

	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	result, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-1",
		OpeningBalance: decimalFrom(t, "100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TransactionCount != 2 || result.EntriesWritten != 3 {
		t.Errorf("transactions=%d written=%d, want 2/3", result.TransactionCount, result.EntriesWritten)
	}
	if !result.ResultingBalance.Equal(decimalFrom(t, "120.00")) {
		t.Errorf("resulting balance = %s, want 120.00", result.ResultingBalance)
	}

	entries := store.LedgerRepo.Entries("acc-1")
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantBalances := []string{"100.00", "70.00", "120.00"}
	for i, want := range wantBalances {
		if !entries[i].BalanceAfter.Equal(decimalFrom(t, want)) {
			t.Errorf("entry %d balance-after = %s, want %s", i, entries[i].BalanceAfter, want)
		}
	}

	if !account.CurrentBalance.Equal(decimalFrom(t, "120.00")) {
		t.Errorf("account balance = %s, want replay outcome 120.00", account.CurrentBalance)
	}
	if account.LastBalanceUpdate == nil {
		t.Error("balance update timestamp not set")
	}

	// Opening date inferred from the earliest settled transaction.
	wantOpening := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	if !result.OpeningDate.Equal(wantOpening) {
		t.Errorf("opening date = %s, want %s", result.OpeningDate, wantOpening)
	}

	if len(store.TxMgr.Transactions) != 1 || !store.TxMgr.Transactions[0].Committed {
		t.Error("expected exactly one committed database transaction")
	}
}

func TestRebuildReplacesExistingLedger(t *testing.T) {
	registry, factory, store, _ := rebuildFixture(t)
	store.LedgerRepo.Seed("acc-1",
		&domain.LedgerEntry{ID: "stale-1", BankAccountID: "acc-1", EntryType: domain.EntryTypeInitialBalance},
		&domain.LedgerEntry{ID: "stale-2", BankAccountID: "acc-1", EntryType: domain.EntryTypePaymentConfirmation},
	)

	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	result, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-1",
		OpeningBalance: decimalFrom(t, "100.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.EntriesDeleted != 2 {
		t.Errorf("deleted %d entries, want 2", result.EntriesDeleted)
	}

	entries := store.LedgerRepo.Entries("acc-1")
	if len(entries) != 3 {
		t.Fatalf("expected 3 fresh entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.ID == "stale-1" || entry.ID == "stale-2" {
			t.Errorf("stale entry %s survived the rebuild", entry.ID)
		}
	}
}

func TestRebuildDryRunWritesNothing(t *testing.T) {
	registry, factory, store, account := rebuildFixture(t)
	store.LedgerRepo.Seed("acc-1",
		&domain.LedgerEntry{ID: "stale-1", BankAccountID: "acc-1", EntryType: domain.EntryTypeInitialBalance},
	)

	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	result, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-1",
		OpeningBalance: decimalFrom(t, "100.00"),
		DryRun:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.DryRun {
		t.Error("result must record dry-run mode")
	}
	if !result.ResultingBalance.Equal(decimalFrom(t, "120.00")) {
		t.Errorf("dry-run resulting balance = %s, want 120.00", result.ResultingBalance)
	}
	if result.EntriesDeleted != 0 || result.EntriesWritten != 0 {
		t.Errorf("dry-run reported deleted=%d written=%d", result.EntriesDeleted, result.EntriesWritten)
	}

	entries := store.LedgerRepo.Entries("acc-1")
	if len(entries) != 1 || entries[0].ID != "stale-1" {
		t.Error("dry-run must leave the stored ledger untouched")
	}
	if !account.CurrentBalance.Equal(decimalFrom(t, "999.99")) {
		t.Errorf("dry-run changed account balance to %s", account.CurrentBalance)
	}
	if len(store.TxMgr.Transactions) != 0 {
		t.Error("dry-run must not open a database transaction")
	}
}

func TestRebuildOpeningDateOverride(t *testing.T) {
	registry, factory, store, _ := rebuildFixture(t)

	override := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	result, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-1",
		OpeningBalance: decimal.Zero,
		OpeningDate:    &override,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.OpeningDate.Equal(override) {
		t.Errorf("opening date = %s, want override %s", result.OpeningDate, override)
	}
	if got := store.LedgerRepo.Entries("acc-1")[0].EffectiveDate; !got.Equal(override) {
		t.Errorf("opening entry effective date = %s, want %s", got, override)
	}
}

func TestRebuildUnknownAccount(t *testing.T) {
	registry, factory, _, _ := rebuildFixture(t)

	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	_, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-missing",
		OpeningBalance: decimal.Zero,
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRebuildRollsBackOnWriteError(t *testing.T) {
	registry, factory, store, account := rebuildFixture(t)
	store.LedgerRepo.Seed("acc-1",
		&domain.LedgerEntry{ID: "stale-1", BankAccountID: "acc-1", EntryType: domain.EntryTypeInitialBalance},
	)
	boom := errors.New("insert failed")
	store.LedgerRepo.CreateBatchFunc = func(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error {
		return boom
	}

	uc := usecase.NewRebuildUseCase(registry, factory, mocks.NewFakeIDGenerator("led"), nil)
	_, err := uc.Run(context.Background(), usecase.RebuildInput{
		Schema:         "casa_sol",
		AccountID:      "acc-1",
		OpeningBalance: decimalFrom(t, "100.00"),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if len(store.TxMgr.Transactions) != 1 || !store.TxMgr.Transactions[0].RolledBack {
		t.Error("failed rebuild must be rolled back")
	}
	if !account.CurrentBalance.Equal(decimalFrom(t, "999.99")) {
		t.Errorf("account balance changed to %s on a failed rebuild", account.CurrentBalance)
	}
}

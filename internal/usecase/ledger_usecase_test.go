package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
	"github.com/casalar/ledger/internal/usecase/mocks"
)

func ledgerEntry(id, accountID string, entryType domain.EntryType, amount, balanceAfter string, day int) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            id,
		BankAccountID: accountID,
		EntryType:     entryType,
		Amount:        decimal.RequireFromString(amount),
		BalanceAfter:  decimal.RequireFromString(balanceAfter),
		EffectiveDate: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
	}
}

func confirmationEntry(id, accountID, transactionID, amount, balanceAfter string, day int) *domain.LedgerEntry {
	entry := ledgerEntry(id, accountID, domain.EntryTypePaymentConfirmation, amount, balanceAfter, day)
	entry.TransactionID = &transactionID
	return entry
}

func verifyFixture(t *testing.T, balance string) (*usecase.LedgerUseCase, *mocks.FakeTenantStore) {
	t.Helper()
	tenant := activeTenant("casa_sol")
	registry := mocks.NewFakeTenantRegistry(tenant)
	factory := mocks.NewFakeTenantStoreFactory()

	store := factory.StoreFor("casa_sol")
	store.AccountRepo = mocks.NewFakeAccountRepository(bankAccount("acc-1", tenant.ID, balance))
	return usecase.NewLedgerUseCase(registry, factory), store
}

func TestVerifyAccountConsistentChain(t *testing.T) {
	uc, store := verifyFixture(t, "120.00")
	store.LedgerRepo.Seed("acc-1",
		ledgerEntry("led-1", "acc-1", domain.EntryTypeInitialBalance, "100.00", "100.00", 1),
		confirmationEntry("led-2", "acc-1", "tx-1", "-30.00", "70.00", 5),
		confirmationEntry("led-3", "acc-1", "tx-2", "50.00", "120.00", 9),
	)

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Consistent {
		t.Fatalf("expected consistent, got problems: %v", result.Problems)
	}
	if result.EntryCount != 3 {
		t.Errorf("entry count = %d, want 3", result.EntryCount)
	}
	if !result.ReplayedBalance.Equal(decimalFrom(t, "120.00")) || !result.Difference.IsZero() {
		t.Errorf("replayed=%s difference=%s", result.ReplayedBalance, result.Difference)
	}
}

func TestVerifyAccountEmptyLedger(t *testing.T) {
	uc, _ := verifyFixture(t, "42.00")

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Consistent || result.EntryCount != 0 {
		t.Errorf("empty ledger must be consistent, got %+v", result)
	}
}

func TestVerifyAccountBrokenChain(t *testing.T) {
	uc, store := verifyFixture(t, "130.00")
	store.LedgerRepo.Seed("acc-1",
		ledgerEntry("led-1", "acc-1", domain.EntryTypeInitialBalance, "100.00", "100.00", 1),
		// Balance-after jumps by 10 more than the amount.
		confirmationEntry("led-2", "acc-1", "tx-1", "20.00", "130.00", 5),
	)

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Consistent {
		t.Fatal("expected inconsistency")
	}
	if !hasProblemContaining(result, "expected 120") {
		t.Errorf("missing chain problem, got %v", result.Problems)
	}
	// Replay follows the amounts, not the stored balance-after values.
	if !result.ReplayedBalance.Equal(decimalFrom(t, "120.00")) {
		t.Errorf("replayed balance = %s, want 120.00", result.ReplayedBalance)
	}
	if !result.Difference.Equal(decimalFrom(t, "10.00")) {
		t.Errorf("difference = %s, want 10.00", result.Difference)
	}
}

func TestVerifyAccountDuplicateConfirmation(t *testing.T) {
	uc, store := verifyFixture(t, "140.00")
	store.LedgerRepo.Seed("acc-1",
		ledgerEntry("led-1", "acc-1", domain.EntryTypeInitialBalance, "100.00", "100.00", 1),
		confirmationEntry("led-2", "acc-1", "tx-1", "20.00", "120.00", 5),
		confirmationEntry("led-3", "acc-1", "tx-1", "20.00", "140.00", 5),
	)

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Consistent {
		t.Fatal("expected inconsistency")
	}
	if !hasProblemContaining(result, "confirmed more than once") {
		t.Errorf("missing duplicate problem, got %v", result.Problems)
	}
}

func TestVerifyAccountMisplacedOpening(t *testing.T) {
	uc, store := verifyFixture(t, "200.00")
	store.LedgerRepo.Seed("acc-1",
		confirmationEntry("led-1", "acc-1", "tx-1", "100.00", "100.00", 1),
		ledgerEntry("led-2", "acc-1", domain.EntryTypeInitialBalance, "100.00", "200.00", 2),
	)

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Consistent {
		t.Fatal("expected inconsistency")
	}
	if !hasProblemContaining(result, "not INITIAL_BALANCE") {
		t.Errorf("missing first-entry problem, got %v", result.Problems)
	}
	if !hasProblemContaining(result, "second INITIAL_BALANCE") {
		t.Errorf("missing second-opening problem, got %v", result.Problems)
	}
}

func TestVerifyAccountBalanceDrift(t *testing.T) {
	// Chain is internally coherent but the account record disagrees.
	uc, store := verifyFixture(t, "500.00")
	store.LedgerRepo.Seed("acc-1",
		ledgerEntry("led-1", "acc-1", domain.EntryTypeInitialBalance, "100.00", "100.00", 1),
		confirmationEntry("led-2", "acc-1", "tx-1", "20.00", "120.00", 5),
	)

	result, err := uc.VerifyAccount(context.Background(), "casa_sol", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Consistent {
		t.Fatal("expected inconsistency")
	}
	if !hasProblemContaining(result, "differs from recorded balance") {
		t.Errorf("missing drift problem, got %v", result.Problems)
	}
	if !result.Difference.Equal(decimalFrom(t, "380.00")) {
		t.Errorf("difference = %s, want 380.00", result.Difference)
	}
}

func TestVerifyTenantCoversAllAccounts(t *testing.T) {
	tenant := activeTenant("casa_sol")
	registry := mocks.NewFakeTenantRegistry(tenant)
	factory := mocks.NewFakeTenantStoreFactory()

	store := factory.StoreFor("casa_sol")
	store.AccountRepo = mocks.NewFakeAccountRepository(
		bankAccount("acc-1", tenant.ID, "100.00"),
		bankAccount("acc-2", tenant.ID, "0.00"),
	)
	store.LedgerRepo.Seed("acc-1",
		ledgerEntry("led-1", "acc-1", domain.EntryTypeInitialBalance, "100.00", "100.00", 1),
	)

	uc := usecase.NewLedgerUseCase(registry, factory)
	results, err := uc.VerifyTenant(context.Background(), "casa_sol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("verified %d accounts, want 2", len(results))
	}
	for _, result := range results {
		if !result.Consistent {
			t.Errorf("account %s inconsistent: %v", result.AccountID, result.Problems)
		}
	}
}

func hasProblemContaining(result *domain.ConsistencyResult, fragment string) bool {
	for _, problem := range result.Problems {
		if strings.Contains(problem, fragment) {
			return true
		}
	}
	return false
}

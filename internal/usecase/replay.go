package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
)

// openingEntryDescription is the description written on every opening
// ledger entry.
const openingEntryDescription = "Opening balance"

// ReplayInput carries everything the replay engine needs. Transactions
// must already be ordered by (payment date ?? due date, created at)
// ascending; the engine preserves the given order.
type ReplayInput struct {
	TenantID       string
	BankAccountID  string
	OpeningBalance decimal.Decimal
	OpeningDate    time.Time
	Transactions   []*domain.Transaction
}

// ReplayResult is the deterministic outcome of one replay: draft entries
// (without IDs or creation timestamps, which the caller stamps at persist
// time) and the final running balance.
type ReplayResult struct {
	Entries      []*domain.LedgerEntry
	FinalBalance decimal.Decimal
}

// ReplayBalance turns an opening balance and an ordered transaction list
// into the account's full ledger. It is referentially transparent:
// identical inputs always produce identical entries and final balance.
//
// The first entry is always the single INITIAL_BALANCE row whose amount
// and balance-after both equal the opening balance. Every transaction then
// appends one PAYMENT_CONFIRMATION row carrying its signed impact and the
// running balance after it.
func ReplayBalance(input ReplayInput) (*ReplayResult, error) {
	entries := make([]*domain.LedgerEntry, 0, 1+len(input.Transactions))

	running := input.OpeningBalance
	entries = append(entries, &domain.LedgerEntry{
		TenantID:      input.TenantID,
		BankAccountID: input.BankAccountID,
		EntryType:     domain.EntryTypeInitialBalance,
		ReferenceType: domain.ReferenceTypeAccount,
		ReferenceID:   input.BankAccountID,
		Description:   openingEntryDescription,
		EffectiveDate: input.OpeningDate,
		Amount:        running,
		BalanceAfter:  running,
	})

	for _, tx := range input.Transactions {
		if tx.NetAmount.IsNegative() {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, domain.ErrNegativeNetAmount)
		}

		effectiveDate, err := tx.EffectiveDate()
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}

		impact := tx.SignedImpact()
		running = running.Add(impact)

		transactionID := tx.ID
		entries = append(entries, &domain.LedgerEntry{
			TenantID:      input.TenantID,
			BankAccountID: input.BankAccountID,
			TransactionID: &transactionID,
			EntryType:     domain.EntryTypePaymentConfirmation,
			ReferenceType: domain.ReferenceTypeTransaction,
			ReferenceID:   tx.ID,
			Description:   tx.Description,
			EffectiveDate: effectiveDate,
			Amount:        impact,
			BalanceAfter:  running,
			CreatedBy:     tx.CreatedBy,
		})
	}

	return &ReplayResult{Entries: entries, FinalBalance: running}, nil
}

// totalSignedImpact sums the signed impact of a transaction set.
func totalSignedImpact(transactions []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.SignedImpact())
	}
	return total
}

// inferOpeningDate picks the opening entry's effective date: the first
// transaction's effective date, or the account's creation date for an
// account with no settled history.
func inferOpeningDate(transactions []*domain.Transaction, account *domain.BankAccount) (time.Time, error) {
	if len(transactions) == 0 {
		return account.CreatedAt, nil
	}
	date, err := transactions[0].EffectiveDate()
	if err != nil {
		return time.Time{}, fmt.Errorf("transaction %s: %w", transactions[0].ID, err)
	}
	return date, nil
}

package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
)

// TenantRegistry resolves tenants from the shared registry schema.
type TenantRegistry interface {
	ListActive(ctx context.Context) ([]*domain.Tenant, error)
	GetBySchema(ctx context.Context, schema string) (*domain.Tenant, error)
}

// TenantStore bundles the repositories scoped to one tenant's schema.
type TenantStore interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Ledger() LedgerRepository
	TxManager() TransactionManager
	// Close releases whatever the factory acquired for this tenant. It must
	// be safe to call on every exit path of a batch.
	Close()
}

// TenantStoreFactory opens schema-scoped stores. Injected into the
// orchestrators so no use case holds a process-wide database handle.
type TenantStoreFactory interface {
	Open(ctx context.Context, tenant *domain.Tenant) (TenantStore, error)
}

// AccountRepository defines data access for bank accounts within one
// tenant schema.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BankAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.BankAccount, error)
	ListActive(ctx context.Context) ([]*domain.BankAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines read-only access to settled transactions.
type TransactionRepository interface {
	// ListPaidByAccount returns PAID, non-deleted transactions ordered by
	// (payment date ?? due date, created at, id) ascending. Both
	// orchestrators depend on this order for running-balance correctness.
	ListPaidByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	CountByAccount(ctx context.Context, accountID string) (int64, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
	ListByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error)
	// LastBefore returns the newest entry strictly before the given date,
	// or nil when the account has none.
	LastBefore(ctx context.Context, accountID string, before time.Time) (*domain.LedgerEntry, error)
	CreateBatch(ctx context.Context, tx Transaction, entries []*domain.LedgerEntry) error
	DeleteByAccount(ctx context.Context, tx Transaction, accountID string) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for read-side responses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// resolveTenant looks a schema up in the registry and rejects inactive
// tenants before any store is opened.
func resolveTenant(ctx context.Context, registry TenantRegistry, schema string) (*domain.Tenant, error) {
	tenant, err := registry.GetBySchema(ctx, schema)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, domain.ErrTenantInactive
	}
	return tenant, nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
)

// StoreFactory implements usecase.TenantStoreFactory. All tenants share
// one pool; a Store only binds the repositories to a schema.
type StoreFactory struct {
	pool *pgxpool.Pool
}

// NewStoreFactory creates a new StoreFactory.
func NewStoreFactory(pool *pgxpool.Pool) *StoreFactory {
	return &StoreFactory{pool: pool}
}

// Open builds a store scoped to the tenant's schema.
func (f *StoreFactory) Open(_ context.Context, tenant *domain.Tenant) (usecase.TenantStore, error) {
	return &Store{
		accounts:     NewAccountRepository(f.pool, tenant.SchemaName),
		transactions: NewTransactionRepository(f.pool, tenant.SchemaName),
		ledger:       NewLedgerRepository(f.pool, tenant.SchemaName),
		txManager:    NewTxManager(f.pool),
	}, nil
}

// Store bundles the schema-scoped repositories of one tenant.
type Store struct {
	accounts     *AccountRepository
	transactions *TransactionRepository
	ledger       *LedgerRepository
	txManager    *TxManager
}

func (s *Store) Accounts() usecase.AccountRepository         { return s.accounts }
func (s *Store) Transactions() usecase.TransactionRepository { return s.transactions }
func (s *Store) Ledger() usecase.LedgerRepository            { return s.ledger }
func (s *Store) TxManager() usecase.TransactionManager       { return s.txManager }

// Close is a no-op: the underlying pool is shared and owned by the
// process, not by any one tenant store.
func (s *Store) Close() {}

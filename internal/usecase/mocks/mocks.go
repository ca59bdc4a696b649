// Package mocks provides hand-maintained in-memory test doubles for the
// usecase ports. Every method can be overridden through its corresponding
// Func field; without an override the mock behaves like a small in-memory
// store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casalar/ledger/internal/domain"
	"github.com/casalar/ledger/internal/usecase"
)

// FakeTenantRegistry is a mock implementation of TenantRegistry.
type FakeTenantRegistry struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant

	ListActiveFunc  func(ctx context.Context) ([]*domain.Tenant, error)
	GetBySchemaFunc func(ctx context.Context, schema string) (*domain.Tenant, error)
}

func NewFakeTenantRegistry(tenants ...*domain.Tenant) *FakeTenantRegistry {
	r := &FakeTenantRegistry{tenants: make(map[string]*domain.Tenant)}
	for _, tenant := range tenants {
		r.tenants[tenant.SchemaName] = tenant
	}
	return r
}

func (m *FakeTenantRegistry) ListActive(ctx context.Context) ([]*domain.Tenant, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var active []*domain.Tenant
	for _, tenant := range m.tenants {
		if tenant.IsActive {
			active = append(active, tenant)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].SchemaName < active[j].SchemaName })
	return active, nil
}

func (m *FakeTenantRegistry) GetBySchema(ctx context.Context, schema string) (*domain.Tenant, error) {
	if m.GetBySchemaFunc != nil {
		return m.GetBySchemaFunc(ctx, schema)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tenant, ok := m.tenants[schema]; ok {
		return tenant, nil
	}
	return nil, domain.ErrTenantNotFound
}

// FakeAccountRepository is a mock implementation of AccountRepository.
type FakeAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.BankAccount

	GetByIDFunc          func(ctx context.Context, id string) (*domain.BankAccount, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankAccount, error)
	ListActiveFunc       func(ctx context.Context) ([]*domain.BankAccount, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewFakeAccountRepository(accounts ...*domain.BankAccount) *FakeAccountRepository {
	r := &FakeAccountRepository{accounts: make(map[string]*domain.BankAccount)}
	for _, account := range accounts {
		r.accounts[account.ID] = account
	}
	return r
}

func (m *FakeAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if account, ok := m.accounts[id]; ok && account.DeletedAt == nil {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *FakeAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankAccount, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *FakeAccountRepository) ListActive(ctx context.Context) ([]*domain.BankAccount, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.BankAccount
	for _, account := range m.accounts {
		if account.DeletedAt == nil {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *FakeAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.CurrentBalance = balance
	account.LastBalanceUpdate = &updatedAt
	return nil
}

// FakeTransactionRepository is a mock implementation of
// TransactionRepository.
type FakeTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	ListPaidByAccountFunc func(ctx context.Context, accountID string) ([]*domain.Transaction, error)
}

func NewFakeTransactionRepository(transactions ...*domain.Transaction) *FakeTransactionRepository {
	return &FakeTransactionRepository{transactions: transactions}
}

func (m *FakeTransactionRepository) ListPaidByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	if m.ListPaidByAccountFunc != nil {
		return m.ListPaidByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var paid []*domain.Transaction
	for _, tx := range m.transactions {
		if tx.BankAccountID == accountID && tx.Status == domain.TransactionStatusPaid {
			paid = append(paid, tx)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		di, _ := paid[i].EffectiveDate()
		dj, _ := paid[j].EffectiveDate()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if !paid[i].CreatedAt.Equal(paid[j].CreatedAt) {
			return paid[i].CreatedAt.Before(paid[j].CreatedAt)
		}
		return paid[i].ID < paid[j].ID
	})
	return paid, nil
}

// FakeLedgerRepository is a mock implementation of LedgerRepository.
type FakeLedgerRepository struct {
	mu      sync.RWMutex
	entries map[string][]*domain.LedgerEntry

	CountByAccountFunc       func(ctx context.Context, accountID string) (int64, error)
	ListByAccountFunc        func(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
	ListByAccountBetweenFunc func(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error)
	LastBeforeFunc           func(ctx context.Context, accountID string, before time.Time) (*domain.LedgerEntry, error)
	CreateBatchFunc          func(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error
	DeleteByAccountFunc      func(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error)
}

func NewFakeLedgerRepository() *FakeLedgerRepository {
	return &FakeLedgerRepository{entries: make(map[string][]*domain.LedgerEntry)}
}

// Seed inserts entries without going through CreateBatch.
func (m *FakeLedgerRepository) Seed(accountID string, entries ...*domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[accountID] = append(m.entries[accountID], entries...)
}

// Entries returns the stored entries of one account in insertion order.
func (m *FakeLedgerRepository) Entries(accountID string) []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.LedgerEntry(nil), m.entries[accountID]...)
}

func (m *FakeLedgerRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries[accountID])), nil
}

func (m *FakeLedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	return m.Entries(accountID), nil
}

func (m *FakeLedgerRepository) ListByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountBetweenFunc != nil {
		return m.ListByAccountBetweenFunc(ctx, accountID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var inPeriod []*domain.LedgerEntry
	for _, entry := range m.entries[accountID] {
		if !entry.EffectiveDate.Before(from) && !entry.EffectiveDate.After(to) {
			inPeriod = append(inPeriod, entry)
		}
	}
	return inPeriod, nil
}

func (m *FakeLedgerRepository) LastBefore(ctx context.Context, accountID string, before time.Time) (*domain.LedgerEntry, error) {
	if m.LastBeforeFunc != nil {
		return m.LastBeforeFunc(ctx, accountID, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *domain.LedgerEntry
	for _, entry := range m.entries[accountID] {
		if entry.EffectiveDate.Before(before) {
			last = entry
		}
	}
	return last, nil
}

func (m *FakeLedgerRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.LedgerEntry) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		m.entries[entry.BankAccountID] = append(m.entries[entry.BankAccountID], entry)
	}
	return nil
}

func (m *FakeLedgerRepository) DeleteByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	if m.DeleteByAccountFunc != nil {
		return m.DeleteByAccountFunc(ctx, tx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deleted := int64(len(m.entries[accountID]))
	delete(m.entries, accountID)
	return deleted, nil
}

// FakeTransaction is a mock implementation of Transaction.
type FakeTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *FakeTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *FakeTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// FakeTransactionManager is a mock implementation of TransactionManager.
type FakeTransactionManager struct {
	mu           sync.Mutex
	Transactions []*FakeTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewFakeTransactionManager() *FakeTransactionManager {
	return &FakeTransactionManager{}
}

func (m *FakeTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &FakeTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// FakeTenantStore bundles per-tenant mocks into a TenantStore.
type FakeTenantStore struct {
	AccountRepo     *FakeAccountRepository
	TransactionRepo *FakeTransactionRepository
	LedgerRepo      *FakeLedgerRepository
	TxMgr           *FakeTransactionManager
	CloseCount      int
}

func NewFakeTenantStore() *FakeTenantStore {
	return &FakeTenantStore{
		AccountRepo:     NewFakeAccountRepository(),
		TransactionRepo: NewFakeTransactionRepository(),
		LedgerRepo:      NewFakeLedgerRepository(),
		TxMgr:           NewFakeTransactionManager(),
	}
}

func (m *FakeTenantStore) Accounts() usecase.AccountRepository         { return m.AccountRepo }
func (m *FakeTenantStore) Transactions() usecase.TransactionRepository { return m.TransactionRepo }
func (m *FakeTenantStore) Ledger() usecase.LedgerRepository            { return m.LedgerRepo }
func (m *FakeTenantStore) TxManager() usecase.TransactionManager       { return m.TxMgr }
func (m *FakeTenantStore) Close()                                      { m.CloseCount++ }

// FakeTenantStoreFactory is a mock implementation of TenantStoreFactory.
type FakeTenantStoreFactory struct {
	mu     sync.Mutex
	Stores map[string]*FakeTenantStore
	Opens  int

	OpenFunc func(ctx context.Context, tenant *domain.Tenant) (usecase.TenantStore, error)
}

func NewFakeTenantStoreFactory() *FakeTenantStoreFactory {
	return &FakeTenantStoreFactory{Stores: make(map[string]*FakeTenantStore)}
}

// StoreFor returns (creating if needed) the store bound to a schema.
func (m *FakeTenantStoreFactory) StoreFor(schema string) *FakeTenantStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.Stores[schema]
	if !ok {
		store = NewFakeTenantStore()
		m.Stores[schema] = store
	}
	return store
}

func (m *FakeTenantStoreFactory) Open(ctx context.Context, tenant *domain.Tenant) (usecase.TenantStore, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, tenant)
	}
	store := m.StoreFor(tenant.SchemaName)
	m.mu.Lock()
	m.Opens++
	m.mu.Unlock()
	return store, nil
}

// FakeIDGenerator generates sequential IDs for deterministic assertions.
type FakeIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewFakeIDGenerator(prefix string) *FakeIDGenerator {
	return &FakeIDGenerator{prefix: prefix}
}

func (m *FakeIDGenerator) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("%s-%04d", m.prefix, m.next)
}

// FakeCache is an in-memory Cache.
type FakeCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewFakeCache() *FakeCache {
	return &FakeCache{values: make(map[string]string)}
}

func (m *FakeCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *FakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *FakeCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

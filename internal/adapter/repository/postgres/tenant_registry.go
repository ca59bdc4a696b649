package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casalar/ledger/internal/domain"
)

// TenantRegistry implements usecase.TenantRegistry against the shared
// public.tenants table.
type TenantRegistry struct {
	pool *pgxpool.Pool
}

// NewTenantRegistry creates a new TenantRegistry.
func NewTenantRegistry(pool *pgxpool.Pool) *TenantRegistry {
	return &TenantRegistry{pool: pool}
}

const tenantColumns = `id, schema_name, name, is_active, created_at`

// ListActive retrieves all active tenants ordered by schema name.
func (r *TenantRegistry) ListActive(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE is_active ORDER BY schema_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, rows.Err()
}

// GetBySchema retrieves a tenant by its schema name.
func (r *TenantRegistry) GetBySchema(ctx context.Context, schema string) (*domain.Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE schema_name = $1`, schema)

	tenant, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}

		return nil, err
	}

	return tenant, nil
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.SchemaName,
		&tenant.Name,
		&tenant.IsActive,
		&tenant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &tenant, nil
}

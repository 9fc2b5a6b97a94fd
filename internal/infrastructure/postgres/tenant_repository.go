package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, name, domain, contact_email, phone, customization, plan,
	subscription_start, subscription_end, is_active, created_at, updated_at, deleted_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Domain, &t.ContactEmail, &t.Phone, &t.Customization, &t.Plan,
		&t.SubscriptionStart, &t.SubscriptionEnd, &t.IsActive, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un nuevo tenant.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, domain, contact_email, phone, customization, plan, subscription_start, subscription_end, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Domain, tenant.ContactEmail, tenant.Phone,
		tenant.Customization, tenant.Plan, tenant.SubscriptionStart, tenant.SubscriptionEnd,
		tenant.IsActive, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID (excluye eliminados).
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 AND deleted_at IS NULL`
	t, err := scanTenant(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetByDomain obtiene un tenant por dominio.
func (r *TenantRepo) GetByDomain(dom string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE domain = $1 AND deleted_at IS NULL`
	t, err := scanTenant(r.q.QueryRow(context.Background(), query, dom))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by domain: %w", err)
	}
	return t, nil
}

// Update actualiza un tenant existente.
func (r *TenantRepo) Update(tenant *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, domain = $3, contact_email = $4, phone = $5, customization = $6,
			plan = $7, subscription_start = $8, subscription_end = $9, is_active = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		tenant.ID, tenant.Name, tenant.Domain, tenant.ContactEmail, tenant.Phone,
		tenant.Customization, tenant.Plan, tenant.SubscriptionStart, tenant.SubscriptionEnd,
		tenant.IsActive, tenant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// List lista tenants con paginación y búsqueda por nombre o dominio.
func (r *TenantRepo) List(params repository.ListParams) ([]*entity.Tenant, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if params.Search != "" {
		where += ` AND (name ILIKE $1 OR domain ILIKE $1)`
		args = append(args, searchPattern(params.Search))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tenants `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	order := orderClause(params, map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}, "created_at")
	query := fmt.Sprintf(`SELECT %s FROM tenants %s %s LIMIT $%d OFFSET $%d`,
		tenantColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, params.PageSize(), params.Offset())

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// Delete marca el tenant como eliminado (soft delete).
func (r *TenantRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE tenants SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

// DeactivateExpired marca inactivos los tenants cuya suscripción venció.
func (r *TenantRepo) DeactivateExpired(now time.Time) (int, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE tenants SET is_active = false, updated_at = now()
		WHERE is_active = true AND deleted_at IS NULL
		  AND subscription_end IS NOT NULL AND subscription_end < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired tenants: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

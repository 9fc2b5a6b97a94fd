package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, tenant_id, name, created_at, updated_at, deleted_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, tenant_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.TenantID, category.Name, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría del tenant por ID.
func (r *CategoryRepo) GetByID(tenantID, id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	c, err := scanCategory(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByName busca por nombre exacto (trim); ante duplicados devuelve el más antiguo.
func (r *CategoryRepo) GetByName(tenantID, name string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + ` FROM categories
		WHERE tenant_id = $1 AND TRIM(name) = TRIM($2) AND deleted_at IS NULL
		ORDER BY created_at ASC LIMIT 1`
	c, err := scanCategory(r.q.QueryRow(context.Background(), query, tenantID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// Update actualiza una categoría existente.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query, category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// ListByTenant lista categorías del tenant con paginación y búsqueda por nombre.
func (r *CategoryRepo) ListByTenant(tenantID string, params repository.ListParams) ([]*entity.Category, int, error) {
	where := `WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []any{tenantID}
	if params.Search != "" {
		where += ` AND name ILIKE $2`
		args = append(args, searchPattern(params.Search))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM categories `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	order := orderClause(params, map[string]string{
		"name":      "name",
		"createdAt": "created_at",
	}, "created_at")
	query := fmt.Sprintf(`SELECT %s FROM categories %s %s LIMIT $%d OFFSET $%d`,
		categoryColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, params.PageSize(), params.Offset())

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// ReplaceProducts reemplaza el conjunto completo de productos vinculados a la categoría.
func (r *CategoryRepo) ReplaceProducts(categoryID string, productIDs []string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM category_products WHERE category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("clear category products: %w", err)
	}
	for _, pid := range productIDs {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO category_products (product_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			pid, categoryID); err != nil {
			return fmt.Errorf("link category product: %w", err)
		}
	}
	return nil
}

// GetProducts devuelve los productos vinculados a la categoría.
func (r *CategoryRepo) GetProducts(categoryID string) ([]entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products p
		JOIN category_products cp ON cp.product_id = p.id
		WHERE cp.category_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.name ASC`
	rows, err := r.q.Query(context.Background(), query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category products: %w", err)
	}
	defer rows.Close()
	var list []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// DeleteUnused marca eliminadas las categorías del tenant que quedaron sin productos.
func (r *CategoryRepo) DeleteUnused(tenantID string) (int, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE categories SET deleted_at = now(), updated_at = now()
		WHERE tenant_id = $1 AND deleted_at IS NULL
		  AND id NOT IN (SELECT category_id FROM category_products)`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("delete unused categories: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// Delete marca la categoría como eliminada (soft delete) y limpia sus vínculos.
func (r *CategoryRepo) Delete(tenantID, id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM category_products WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("unlink category products: %w", err)
	}
	_, err := r.q.Exec(ctx,
		`UPDATE categories SET deleted_at = now(), updated_at = now() WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

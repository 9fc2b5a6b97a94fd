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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, name, description, price, stock, sku, image_url, status, created_at, updated_at, deleted_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.SKU, &p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, description, price, stock, sku, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.TenantID, product.Name, product.Description, product.Price,
		product.Stock, product.SKU, product.ImageURL, product.Status,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant por ID.
func (r *ProductRepo) GetByID(tenantID, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName busca por nombre exacto (trim) dentro del tenant.
// Ante duplicados devuelve el más antiguo por created_at (determinista).
func (r *ProductRepo) GetByName(tenantID, name string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE tenant_id = $1 AND TRIM(name) = TRIM($2) AND deleted_at IS NULL
		ORDER BY created_at ASC LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, tenantID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente (incluye stock y status).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, sku = $6,
			image_url = $7, status = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.SKU, product.ImageURL, product.Status, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListByTenant lista productos del tenant con paginación y búsqueda por nombre, descripción o SKU.
func (r *ProductRepo) ListByTenant(tenantID string, params repository.ListParams) ([]*entity.Product, int, error) {
	where := `WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []any{tenantID}
	if params.Search != "" {
		where += ` AND (name ILIKE $2 OR description ILIKE $2 OR sku ILIKE $2)`
		args = append(args, searchPattern(params.Search))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order := orderClause(params, map[string]string{
		"name":      "name",
		"price":     "price",
		"stock":     "stock",
		"status":    "status",
		"createdAt": "created_at",
	}, "created_at")
	query := fmt.Sprintf(`SELECT %s FROM products %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, params.PageSize(), params.Offset())

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete marca el producto como eliminado (soft delete).
func (r *ProductRepo) Delete(tenantID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = now(), updated_at = now() WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// DecrementStock descuenta stock de forma atómica y condicional en un solo UPDATE.
// Si RowsAffected es cero el stock no alcanzaba (o el producto no existe) y se
// devuelve domain.ErrInsufficientStock para que la transacción haga rollback.
func (r *ProductRepo) DecrementStock(tenantID, productID string, qty int) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE products SET stock = stock - $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL AND stock >= $3`,
		tenantID, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// IncrementStock suma stock (reposición o reversa de una venta).
func (r *ProductRepo) IncrementStock(tenantID, productID string, qty int) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE products SET stock = stock + $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, productID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceCategories reemplaza el conjunto completo de categorías del producto.
func (r *ProductRepo) ReplaceCategories(productID string, categoryIDs []string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM category_products WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	for _, catID := range categoryIDs {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO category_products (product_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			productID, catID); err != nil {
			return fmt.Errorf("link product category: %w", err)
		}
	}
	return nil
}

// GetCategories devuelve las categorías asociadas al producto.
func (r *ProductRepo) GetCategories(productID string) ([]entity.Category, error) {
	query := `
		SELECT c.id, c.tenant_id, c.name, c.created_at, c.updated_at, c.deleted_at
		FROM categories c
		JOIN category_products cp ON cp.category_id = c.id
		WHERE cp.product_id = $1 AND c.deleted_at IS NULL
		ORDER BY c.name ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("get product categories: %w", err)
	}
	defer rows.Close()
	var list []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

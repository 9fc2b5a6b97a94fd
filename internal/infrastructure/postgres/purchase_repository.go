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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, tenant_id, supplier_id, user_id, total, date, created_at, updated_at, deleted_at`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.TenantID, &p.SupplierID, &p.UserID, &p.Total, &p.Date,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la compra y sus ítems.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchases (id, tenant_id, supplier_id, user_id, total, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.TenantID, purchase.SupplierID, purchase.UserID,
		purchase.Total, purchase.Date, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertItems(ctx, purchase.ID, purchase.Items)
}

func (r *PurchaseRepo) insertItems(ctx context.Context, purchaseID string, items []entity.PurchaseItem) error {
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, purchaseID, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una compra del tenant con sus ítems.
func (r *PurchaseRepo) GetByID(tenantID, id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.loadItems(context.Background(), []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Items = items[p.ID]
	return p, nil
}

func (r *PurchaseRepo) loadItems(ctx context.Context, purchaseIDs []string) (map[string][]entity.PurchaseItem, error) {
	if len(purchaseIDs) == 0 {
		return map[string][]entity.PurchaseItem{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, price
		FROM purchase_items WHERE purchase_id = ANY($1::uuid[]) ORDER BY id`, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("load purchase items: %w", err)
	}
	defer rows.Close()
	byPurchase := make(map[string][]entity.PurchaseItem, len(purchaseIDs))
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		byPurchase[it.PurchaseID] = append(byPurchase[it.PurchaseID], it)
	}
	return byPurchase, rows.Err()
}

// Update actualiza la cabecera de la compra (los ítems van por ReplaceItems).
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, total = $3, date = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Total, purchase.Date, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// ReplaceItems borra los ítems actuales y escribe los nuevos.
func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("clear purchase items: %w", err)
	}
	return r.insertItems(ctx, purchaseID, items)
}

// ListByTenant lista compras del tenant con sus ítems; búsqueda por nombre del proveedor.
func (r *PurchaseRepo) ListByTenant(tenantID string, params repository.ListParams) ([]*entity.Purchase, int, error) {
	where := `WHERE p.tenant_id = $1 AND p.deleted_at IS NULL`
	args := []any{tenantID}
	if params.Search != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM suppliers s WHERE s.id = p.supplier_id AND s.name ILIKE $2)`
		args = append(args, searchPattern(params.Search))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM purchases p `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	order := orderClause(params, map[string]string{
		"date":      "p.date",
		"total":     "p.total",
		"createdAt": "p.created_at",
	}, "p.created_at")
	query := fmt.Sprintf(`
		SELECT p.id, p.tenant_id, p.supplier_id, p.user_id, p.total, p.date, p.created_at, p.updated_at, p.deleted_at
		FROM purchases p %s %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)
	args = append(args, params.PageSize(), params.Offset())

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	var ids []string
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	byPurchase, err := r.loadItems(context.Background(), ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range list {
		p.Items = byPurchase[p.ID]
	}
	return list, total, nil
}

// Delete marca la compra como eliminada (soft delete). Los ítems se conservan.
func (r *PurchaseRepo) Delete(tenantID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET deleted_at = now(), updated_at = now() WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

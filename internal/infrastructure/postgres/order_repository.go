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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, tenant_id, customer_id, user_id, status, total, date, created_at, updated_at, deleted_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
// La cabecera y los ítems se escriben juntos; la atomicidad la garantiza el TxRunner.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.UserID, &o.Status, &o.Total, &o.Date,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste la orden y sus ítems.
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (id, tenant_id, customer_id, user_id, status, total, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.CustomerID, order.UserID, order.Status, order.Total,
		order.Date, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, order.ID, order.Items)
}

func (r *OrderRepo) insertItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, orderID, it.ProductID, it.Quantity, it.Price)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden del tenant con sus ítems.
func (r *OrderRepo) GetByID(tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.loadItems(context.Background(), []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[string][]entity.OrderItem{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	byOrder := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, rows.Err()
}

// Update actualiza la cabecera de la orden (los ítems van por ReplaceItems).
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET customer_id = $2, status = $3, total = $4, date = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.Status, order.Total, order.Date, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// ReplaceItems borra los ítems actuales y escribe los nuevos.
func (r *OrderRepo) ReplaceItems(orderID string, items []entity.OrderItem) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	return r.insertItems(ctx, orderID, items)
}

// ListByTenant lista órdenes del tenant con sus ítems; búsqueda por nombre del cliente.
func (r *OrderRepo) ListByTenant(tenantID string, params repository.ListParams) ([]*entity.Order, int, error) {
	where := `WHERE o.tenant_id = $1 AND o.deleted_at IS NULL`
	args := []any{tenantID}
	if params.Search != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM customers c WHERE c.id = o.customer_id AND c.name ILIKE $2)`
		args = append(args, searchPattern(params.Search))
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM orders o `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	order := orderClause(params, map[string]string{
		"date":      "o.date",
		"total":     "o.total",
		"createdAt": "o.created_at",
	}, "o.created_at")
	query := fmt.Sprintf(`
		SELECT o.id, o.tenant_id, o.customer_id, o.user_id, o.status, o.total, o.date, o.created_at, o.updated_at, o.deleted_at
		FROM orders o %s %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)
	args = append(args, params.PageSize(), params.Offset())

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	byOrder, err := r.loadItems(context.Background(), ids)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		o.Items = byOrder[o.ID]
	}
	return list, total, nil
}

// Delete marca la orden como eliminada (soft delete). Los ítems se conservan.
func (r *OrderRepo) Delete(tenantID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET deleted_at = now(), updated_at = now() WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// MetricsRepo consultas de solo lectura para el dashboard. Siempre trabaja
// sobre el pool (no participa de transacciones).
type MetricsRepo struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository construye el adaptador de métricas.
func NewMetricsRepository(pool *pgxpool.Pool) *MetricsRepo {
	return &MetricsRepo{pool: pool}
}

// CountEntities devuelve los conteos globales del tenant en una sola pasada.
func (r *MetricsRepo) CountEntities(ctx context.Context, tenantID string) (repository.EntityCounts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products   WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM customers  WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM suppliers  WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM orders     WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM purchases  WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM categories WHERE tenant_id = $1 AND deleted_at IS NULL),
	    (SELECT COUNT(*) FROM users      WHERE tenant_id = $1 AND deleted_at IS NULL)`

	var c repository.EntityCounts
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&c.Products, &c.Customers, &c.Suppliers, &c.Orders, &c.Purchases, &c.Categories, &c.Users,
	)
	if err != nil {
		return repository.EntityCounts{}, fmt.Errorf("metrics.CountEntities: %w", err)
	}
	return c, nil
}

// TotalRevenue suma los totales de órdenes no canceladas del rango.
// COALESCE devuelve cero si no hay ventas.
func (r *MetricsRepo) TotalRevenue(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM orders
		WHERE tenant_id = $1 AND deleted_at IS NULL AND status <> 'cancelled'
		  AND date BETWEEN $2 AND $3`,
		tenantID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metrics.TotalRevenue: %w", err)
	}
	return total, nil
}

// TotalSpent suma los totales de compras del rango.
func (r *MetricsRepo) TotalSpent(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM purchases
		WHERE tenant_id = $1 AND deleted_at IS NULL AND date BETWEEN $2 AND $3`,
		tenantID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("metrics.TotalSpent: %w", err)
	}
	return total, nil
}

func (r *MetricsRepo) weeklyAmounts(ctx context.Context, table, tenantID string, from time.Time) ([]repository.WeeklyAmountResult, error) {
	query := fmt.Sprintf(`
	SELECT date_trunc('week', date) AS week_start,
	       COALESCE(SUM(total), 0)  AS total,
	       COUNT(*)                 AS count
	FROM %s
	WHERE tenant_id = $1 AND deleted_at IS NULL AND date >= $2
	GROUP BY week_start
	ORDER BY week_start ASC`, table)

	rows, err := r.pool.Query(ctx, query, tenantID, from)
	if err != nil {
		return nil, fmt.Errorf("metrics.weekly %s: %w", table, err)
	}
	defer rows.Close()
	var results []repository.WeeklyAmountResult
	for rows.Next() {
		var w repository.WeeklyAmountResult
		if err := rows.Scan(&w.WeekStart, &w.Total, &w.Count); err != nil {
			return nil, fmt.Errorf("metrics.weekly %s scan: %w", table, err)
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

// WeeklySales ventas agrupadas por semana (date_trunc('week')).
func (r *MetricsRepo) WeeklySales(ctx context.Context, tenantID string, from time.Time) ([]repository.WeeklyAmountResult, error) {
	return r.weeklyAmounts(ctx, "orders", tenantID, from)
}

// WeeklyPurchases compras agrupadas por semana.
func (r *MetricsRepo) WeeklyPurchases(ctx context.Context, tenantID string, from time.Time) ([]repository.WeeklyAmountResult, error) {
	return r.weeklyAmounts(ctx, "purchases", tenantID, from)
}

// TopProducts productos ordenados por unidades vendidas descendente.
func (r *MetricsRepo) TopProducts(ctx context.Context, tenantID string, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT p.id, p.name,
	       COALESCE(SUM(oi.quantity), 0)            AS units_sold,
	       COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue
	FROM products p
	JOIN order_items oi ON oi.product_id = p.id
	JOIN orders o       ON o.id = oi.order_id AND o.deleted_at IS NULL
	WHERE p.tenant_id = $1 AND p.deleted_at IS NULL
	GROUP BY p.id, p.name
	ORDER BY units_sold DESC
	LIMIT $2`
	return r.queryTopProducts(ctx, query, tenantID, limit)
}

// IncomePerProduct productos ordenados por ingreso total descendente.
func (r *MetricsRepo) IncomePerProduct(ctx context.Context, tenantID string, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT p.id, p.name,
	       COALESCE(SUM(oi.quantity), 0)            AS units_sold,
	       COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue
	FROM products p
	JOIN order_items oi ON oi.product_id = p.id
	JOIN orders o       ON o.id = oi.order_id AND o.deleted_at IS NULL
	WHERE p.tenant_id = $1 AND p.deleted_at IS NULL
	GROUP BY p.id, p.name
	ORDER BY revenue DESC
	LIMIT $2`
	return r.queryTopProducts(ctx, query, tenantID, limit)
}

func (r *MetricsRepo) queryTopProducts(ctx context.Context, query, tenantID string, limit int) ([]repository.TopProductResult, error) {
	rows, err := r.pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics.topProducts: %w", err)
	}
	defer rows.Close()
	var results []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.Name, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("metrics.topProducts scan: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// CountOrdersByStatus órdenes agrupadas por estado (pending, completed, cancelled).
func (r *MetricsRepo) CountOrdersByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM orders
		WHERE tenant_id = $1 AND deleted_at IS NULL
		GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("metrics.CountOrdersByStatus: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("metrics.CountOrdersByStatus scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountProductsByStatus productos agrupados por estado.
func (r *MetricsRepo) CountProductsByStatus(ctx context.Context, tenantID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM products
		WHERE tenant_id = $1 AND deleted_at IS NULL
		GROUP BY status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("metrics.CountProductsByStatus: %w", err)
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("metrics.CountProductsByStatus scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountNewProducts productos creados desde `since`.
func (r *MetricsRepo) CountNewProducts(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products
		WHERE tenant_id = $1 AND deleted_at IS NULL AND created_at >= $2`,
		tenantID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("metrics.CountNewProducts: %w", err)
	}
	return n, nil
}

// TopCustomers clientes ordenados por monto comprado descendente.
func (r *MetricsRepo) TopCustomers(ctx context.Context, tenantID string, limit int) ([]repository.TopPartyResult, error) {
	const query = `
	SELECT c.id, c.name, COUNT(o.id) AS orders, COALESCE(SUM(o.total), 0) AS total
	FROM customers c
	JOIN orders o ON o.customer_id = c.id AND o.deleted_at IS NULL
	WHERE c.tenant_id = $1 AND c.deleted_at IS NULL
	GROUP BY c.id, c.name
	ORDER BY total DESC
	LIMIT $2`
	return r.queryTopParties(ctx, query, tenantID, limit)
}

// TopSuppliers proveedores ordenados por monto comprado descendente.
func (r *MetricsRepo) TopSuppliers(ctx context.Context, tenantID string, limit int) ([]repository.TopPartyResult, error) {
	const query = `
	SELECT s.id, s.name, COUNT(p.id) AS purchases, COALESCE(SUM(p.total), 0) AS total
	FROM suppliers s
	JOIN purchases p ON p.supplier_id = s.id AND p.deleted_at IS NULL
	WHERE s.tenant_id = $1 AND s.deleted_at IS NULL
	GROUP BY s.id, s.name
	ORDER BY total DESC
	LIMIT $2`
	return r.queryTopParties(ctx, query, tenantID, limit)
}

func (r *MetricsRepo) queryTopParties(ctx context.Context, query, tenantID string, limit int) ([]repository.TopPartyResult, error) {
	rows, err := r.pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("metrics.topParties: %w", err)
	}
	defer rows.Close()
	var results []repository.TopPartyResult
	for rows.Next() {
		var t repository.TopPartyResult
		if err := rows.Scan(&t.ID, &t.Name, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("metrics.topParties scan: %w", err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// CountRecurringCustomers clientes con más de una orden.
func (r *MetricsRepo) CountRecurringCustomers(ctx context.Context, tenantID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT o.customer_id FROM orders o
			WHERE o.tenant_id = $1 AND o.deleted_at IS NULL
			GROUP BY o.customer_id
			HAVING COUNT(*) > 1
		) recurring`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("metrics.CountRecurringCustomers: %w", err)
	}
	return n, nil
}

// CountNewCustomers clientes creados desde `since`.
func (r *MetricsRepo) CountNewCustomers(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE tenant_id = $1 AND deleted_at IS NULL AND created_at >= $2`,
		tenantID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("metrics.CountNewCustomers: %w", err)
	}
	return n, nil
}

// CategoryStock stock agregado por categoría. Con maxStock > 0 devuelve solo
// las categorías cuyo stock total queda por debajo de ese umbral.
func (r *MetricsRepo) CategoryStock(ctx context.Context, tenantID string, maxStock int) ([]repository.CategoryStockResult, error) {
	query := `
	SELECT c.id, c.name, COUNT(p.id) AS products, COALESCE(SUM(p.stock), 0) AS total_stock
	FROM categories c
	LEFT JOIN category_products cp ON cp.category_id = c.id
	LEFT JOIN products p ON p.id = cp.product_id AND p.deleted_at IS NULL
	WHERE c.tenant_id = $1 AND c.deleted_at IS NULL
	GROUP BY c.id, c.name`
	args := []any{tenantID}
	if maxStock > 0 {
		query += ` HAVING COALESCE(SUM(p.stock), 0) < $2`
		args = append(args, maxStock)
	}
	query += ` ORDER BY total_stock ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("metrics.CategoryStock: %w", err)
	}
	defer rows.Close()
	var results []repository.CategoryStockResult
	for rows.Next() {
		var c repository.CategoryStockResult
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Products, &c.TotalStock); err != nil {
			return nil, fmt.Errorf("metrics.CategoryStock scan: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

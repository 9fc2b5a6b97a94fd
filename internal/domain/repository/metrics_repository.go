package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WeeklyAmountResult total monetario agrupado por semana (date_trunc('week')).
type WeeklyAmountResult struct {
	WeekStart time.Time
	Total     decimal.Decimal
	Count     int
}

// TopProductResult producto ordenado por unidades vendidas o ingreso.
type TopProductResult struct {
	ProductID string
	Name      string
	UnitsSold int
	Revenue   decimal.Decimal
}

// TopPartyResult cliente o proveedor ordenado por monto operado.
type TopPartyResult struct {
	ID    string
	Name  string
	Count int
	Total decimal.Decimal
}

// CategoryStockResult stock agregado por categoría.
type CategoryStockResult struct {
	CategoryID string
	Name       string
	Products   int
	TotalStock int
}

// EntityCounts conteos globales del tenant para el dashboard general.
type EntityCounts struct {
	Products   int
	Customers  int
	Suppliers  int
	Orders     int
	Purchases  int
	Categories int
	Users      int
}

// MetricsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type MetricsRepository interface {
	CountEntities(ctx context.Context, tenantID string) (EntityCounts, error)

	// TotalRevenue suma los totales de órdenes no eliminadas en el rango dado.
	TotalRevenue(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error)
	// TotalSpent suma los totales de compras en el rango dado.
	TotalSpent(ctx context.Context, tenantID string, from, to time.Time) (decimal.Decimal, error)

	// WeeklySales ventas agrupadas por semana desde `from` (date_trunc('week')).
	WeeklySales(ctx context.Context, tenantID string, from time.Time) ([]WeeklyAmountResult, error)
	// WeeklyPurchases compras agrupadas por semana desde `from`.
	WeeklyPurchases(ctx context.Context, tenantID string, from time.Time) ([]WeeklyAmountResult, error)

	TopProducts(ctx context.Context, tenantID string, limit int) ([]TopProductResult, error)
	// IncomePerProduct ingreso total por producto (todas las ventas).
	IncomePerProduct(ctx context.Context, tenantID string, limit int) ([]TopProductResult, error)
	// CountProductsByStatus productos agrupados por estado (active, inactive, out_of_stock).
	CountProductsByStatus(ctx context.Context, tenantID string) (map[string]int, error)
	// CountOrdersByStatus órdenes agrupadas por estado (pending, completed, cancelled).
	CountOrdersByStatus(ctx context.Context, tenantID string) (map[string]int, error)
	// CountNewProducts productos creados desde `since`.
	CountNewProducts(ctx context.Context, tenantID string, since time.Time) (int, error)

	TopCustomers(ctx context.Context, tenantID string, limit int) ([]TopPartyResult, error)
	// CountRecurringCustomers clientes con más de una orden.
	CountRecurringCustomers(ctx context.Context, tenantID string) (int, error)
	CountNewCustomers(ctx context.Context, tenantID string, since time.Time) (int, error)

	TopSuppliers(ctx context.Context, tenantID string, limit int) ([]TopPartyResult, error)

	// CategoryStock stock agregado por categoría; maxStock filtra las de bajo
	// stock cuando es > 0 (categorías con stock total < maxStock).
	CategoryStock(ctx context.Context, tenantID string, maxStock int) ([]CategoryStockResult, error)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubMetric par etiqueta/valor que el dashboard pinta tal cual.
type SubMetric struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// WeeklyPoint punto de una serie semanal.
type WeeklyPoint struct {
	WeekStart time.Time       `json:"weekStart"`
	Total     decimal.Decimal `json:"total"`
	Count     int             `json:"count"`
}

// TopProductMetric producto destacado por ventas o ingreso.
type TopProductMetric struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"unitsSold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopPartyMetric cliente o proveedor destacado por monto operado.
type TopPartyMetric struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CategoryStockMetric stock agregado de una categoría.
type CategoryStockMetric struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Products   int    `json:"products"`
	TotalStock int    `json:"totalStock"`
}

// GeneralMetricsResponse resumen del negocio: conteos, ingresos y series semanales.
type GeneralMetricsResponse struct {
	Counts          map[string]int  `json:"counts"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	WeeklySales     []WeeklyPoint   `json:"weeklySales"`
	WeeklyPurchases []WeeklyPoint   `json:"weeklyPurchases"`
}

// ProductMetricsResponse métricas del catálogo.
type ProductMetricsResponse struct {
	Total            int                `json:"total"`
	ByStatus         map[string]int     `json:"byStatus"`
	NewLast30Days    int                `json:"newLast30Days"`
	TopSelling       []TopProductMetric `json:"topSelling"`
	IncomePerProduct []TopProductMetric `json:"incomePerProduct"`
}

// CustomerMetricsResponse métricas de clientes.
type CustomerMetricsResponse struct {
	Total         int              `json:"total"`
	NewLast30Days int              `json:"newLast30Days"`
	Recurring     int              `json:"recurring"`
	TopSpenders   []TopPartyMetric `json:"topSpenders"`
}

// SupplierMetricsResponse métricas de proveedores.
type SupplierMetricsResponse struct {
	Total        int              `json:"total"`
	TopSuppliers []TopPartyMetric `json:"topSuppliers"`
}

// OrderMetricsResponse métricas de ventas.
type OrderMetricsResponse struct {
	Total        int             `json:"total"`
	ByStatus     map[string]int  `json:"byStatus"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	WeeklySales  []WeeklyPoint   `json:"weeklySales"`
}

// PurchaseMetricsResponse métricas de compras.
type PurchaseMetricsResponse struct {
	Total           int             `json:"total"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	WeeklyPurchases []WeeklyPoint   `json:"weeklyPurchases"`
}

// CategoryMetricsResponse métricas de categorías, incluidas las de bajo stock.
type CategoryMetricsResponse struct {
	Total      int                   `json:"total"`
	Stock      []CategoryStockMetric `json:"stock"`
	LowStock   []CategoryStockMetric `json:"lowStock"`
	LowStockAt int                   `json:"lowStockAt"` // umbral usado
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// ParseOrderStatus valida el estado de una venta. Devuelve "" si no se reconoce.
func ParseOrderStatus(s string) string {
	switch normalizeStatus(s) {
	case "pending", "pendiente":
		return OrderPending
	case "completed", "completada":
		return OrderCompleted
	case "cancelled", "cancelada":
		return OrderCancelled
	}
	return ""
}

// Order representa una venta a un cliente. Total siempre se recalcula como
// la suma de Quantity*Price de sus ítems; nunca se acepta desde el cliente.
type Order struct {
	ID         string
	TenantID   string
	CustomerID string
	UserID     string // usuario que registró la venta
	Status     string
	Total      decimal.Decimal
	Date       time.Time
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// OrderItem es una línea de la venta. Price es el precio unitario congelado
// al momento de la operación (no sigue al producto).
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// ComputeTotal recalcula el total a partir de los ítems.
func (o *Order) ComputeTotal() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o.Total = total
}

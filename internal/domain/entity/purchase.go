package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra a un proveedor. Incrementa stock al crearse;
// al editarse primero se revierte lo sumado por la versión anterior.
type Purchase struct {
	ID         string
	TenantID   string
	SupplierID string
	UserID     string
	Total      decimal.Decimal
	Date       time.Time
	Items      []PurchaseItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// PurchaseItem es una línea de la compra. Price es el precio de compra unitario.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int
	Price      decimal.Decimal
}

// ComputeTotal recalcula el total a partir de los ítems.
func (p *Purchase) ComputeTotal() {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	p.Total = total
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto. OUT_OF_STOCK y ACTIVE se derivan del stock;
// INACTIVE es una decisión explícita del usuario y se respeta siempre.
const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out_of_stock"
)

// Product representa un producto del catálogo de un tenant.
// Stock es unidades enteras; Price es el precio de venta.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	SKU         string
	ImageURL    string
	Status      string
	Categories  []Category // cargadas bajo demanda (M2M vía category_products)
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// RefreshStatus recalcula el estado derivado a partir del stock.
// Debe invocarse después de toda mutación de stock: el estado nunca se deriva
// implícitamente en la capa de persistencia. INACTIVE es explícito y se conserva.
func (p *Product) RefreshStatus() {
	if p.Status == ProductInactive {
		return
	}
	if p.Stock <= 0 {
		p.Status = ProductOutOfStock
		return
	}
	p.Status = ProductActive
}

// ParseProductStatus acepta los valores canónicos y sus sinónimos en español
// (lo que llega desde planillas de Excel). Devuelve "" si no se reconoce.
func ParseProductStatus(s string) string {
	switch normalizeStatus(s) {
	case "active", "activo":
		return ProductActive
	case "inactive", "inactivo":
		return ProductInactive
	case "out_of_stock", "outofstock", "agotado":
		return ProductOutOfStock
	}
	return ""
}

package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(tenantID, id string) (*entity.Product, error)
	// GetByName busca por nombre exacto (trim) dentro del tenant; si hay
	// duplicados devuelve el más antiguo por created_at.
	GetByName(tenantID, name string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Product, int, error)
	Delete(tenantID, id string) error

	// DecrementStock descuenta de forma atómica y condicional: falla con
	// domain.ErrInsufficientStock si el stock disponible no alcanza.
	DecrementStock(tenantID, productID string, qty int) error
	// IncrementStock suma stock (reposición o reversa de una venta).
	IncrementStock(tenantID, productID string, qty int) error

	// ReplaceCategories reemplaza el conjunto completo de categorías del producto.
	ReplaceCategories(productID string, categoryIDs []string) error
	GetCategories(productID string) ([]entity.Category, error)
}

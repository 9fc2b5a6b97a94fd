package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(tenantID, id string) (*entity.Category, error)
	GetByName(tenantID, name string) (*entity.Category, error)
	Update(category *entity.Category) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Category, int, error)
	Delete(tenantID, id string) error
	// ReplaceProducts reemplaza el conjunto completo de productos de la categoría.
	ReplaceProducts(categoryID string, productIDs []string) error
	// GetProducts devuelve los productos vinculados a la categoría.
	GetProducts(categoryID string) ([]entity.Product, error)
	// DeleteUnused elimina (soft delete) las categorías del tenant sin productos.
	DeleteUnused(tenantID string) (int, error)
}

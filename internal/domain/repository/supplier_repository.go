package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(tenantID, id string) (*entity.Supplier, error)
	GetByName(tenantID, name string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Supplier, int, error)
	Delete(tenantID, id string) error
}

package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (DIP).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(tenantID, id string) (*entity.Customer, error)
	GetByName(tenantID, name string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Customer, int, error)
	Delete(tenantID, id string) error
}

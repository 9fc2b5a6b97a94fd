package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetByNameAndTenant busca por nombre exacto (trim) dentro del tenant.
	GetByNameAndTenant(tenantID, name string) (*entity.User, error)
	Update(user *entity.User) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.User, int, error)
	Delete(id string) error
}

package repository

import (
	"time"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	GetByDomain(domain string) (*entity.Tenant, error)
	Update(tenant *entity.Tenant) error
	List(params ListParams) ([]*entity.Tenant, int, error)
	Delete(id string) error
	// DeactivateExpired marca inactivos los tenants cuya suscripción venció.
	// Devuelve cuántos se desactivaron.
	DeactivateExpired(now time.Time) (int, error)
}

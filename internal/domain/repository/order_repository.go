package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order (DIP).
// Los ítems se persisten junto con la cabecera.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(tenantID, id string) (*entity.Order, error)
	Update(order *entity.Order) error
	// ReplaceItems borra los ítems actuales y escribe los nuevos.
	ReplaceItems(orderID string, items []entity.OrderItem) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Order, int, error)
	Delete(tenantID, id string) error
}

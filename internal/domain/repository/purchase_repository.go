package repository

import "github.com/jhoicas/comercio-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase (DIP).
// Los ítems se persisten junto con la cabecera.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(tenantID, id string) (*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	ReplaceItems(purchaseID string, items []entity.PurchaseItem) error
	ListByTenant(tenantID string, params ListParams) ([]*entity.Purchase, int, error)
	Delete(tenantID, id string) error
}

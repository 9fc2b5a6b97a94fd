package purchases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// Service compras transaccionales. El proveedor y los productos referidos por
// nombre se crean si no existen (find-or-create); los referidos por ID deben
// existir. Todo corre dentro de una transacción.
type Service struct {
	purchases repository.PurchaseRepository
	tx        ports.TxRunner
	log       *logger.Logger
}

// NewService construye el servicio de compras.
func NewService(purchases repository.PurchaseRepository, tx ports.TxRunner, log *logger.Logger) *Service {
	return &Service{purchases: purchases, tx: tx, log: log}
}

// Create registra una compra: resuelve el proveedor, resuelve o crea cada
// producto y suma el stock comprado. Los productos nuevos nacen con el stock
// de la compra y su precio de venta inicial igual al de compra.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	var purchase *entity.Purchase
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		supplier, err := ResolveSupplier(repos.Suppliers, tenantID, in.SupplierID, in.SupplierName)
		if err != nil {
			return err
		}

		now := time.Now()
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		purchase = &entity.Purchase{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			SupplierID: supplier.ID,
			UserID:     userID,
			Date:       date,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		purchase.Items, err = applyPurchaseItems(repos, tenantID, purchase.ID, in.Items)
		if err != nil {
			return err
		}
		purchase.ComputeTotal()
		return repos.Purchases.Create(purchase)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("purchase_id", purchase.ID).Str("tenant_id", tenantID).Msg("compra registrada")
	return toPurchaseResponse(purchase), nil
}

// Update reemplaza la compra completa: primero resta el stock que la versión
// anterior había sumado y recién entonces aplica los ítems nuevos. Si revertir
// dejaría stock negativo (ya se vendió lo comprado), la edición falla entera.
func (s *Service) Update(ctx context.Context, tenantID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	var purchase *entity.Purchase
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		var err error
		purchase, err = repos.Purchases.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}

		if err := revertPurchaseStock(repos, tenantID, purchase.Items); err != nil {
			return err
		}

		if in.SupplierID != "" || strings.TrimSpace(in.SupplierName) != "" {
			supplier, err := ResolveSupplier(repos.Suppliers, tenantID, in.SupplierID, in.SupplierName)
			if err != nil {
				return err
			}
			purchase.SupplierID = supplier.ID
		}
		if in.Date != nil {
			purchase.Date = *in.Date
		}

		purchase.Items, err = applyPurchaseItems(repos, tenantID, purchase.ID, in.Items)
		if err != nil {
			return err
		}
		if err := repos.Purchases.ReplaceItems(purchase.ID, purchase.Items); err != nil {
			return err
		}
		purchase.ComputeTotal()
		purchase.UpdatedAt = time.Now()
		return repos.Purchases.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// Delete elimina la compra (soft delete) restando el stock que había sumado.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.tx.Run(ctx, func(repos ports.TxRepos) error {
		purchase, err := repos.Purchases.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if err := revertPurchaseStock(repos, tenantID, purchase.Items); err != nil {
			return err
		}
		return repos.Purchases.Delete(tenantID, id)
	})
}

// GetByID obtiene una compra del tenant.
func (s *Service) GetByID(tenantID, id string) (*dto.PurchaseResponse, error) {
	purchase, err := s.purchases.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, nil
	}
	return toPurchaseResponse(purchase), nil
}

// List lista compras del tenant con paginación.
func (s *Service) List(tenantID string, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	params := repository.ListParams{
		Page: page.Page, Limit: page.Limit, Search: page.Search,
		OrderBy: page.OrderBy, Order: page.Order,
	}
	list, total, err := s.purchases.ListByTenant(tenantID, params)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: params.Page, Limit: params.PageSize(), Total: total},
	}, nil
}

// ResolveSupplier aplica la precedencia ID sobre nombre; por nombre se crea si
// no existe (find-or-create).
func ResolveSupplier(suppliers repository.SupplierRepository, tenantID, supplierID, supplierName string) (*entity.Supplier, error) {
	if supplierID != "" {
		sup, err := suppliers.GetByID(tenantID, supplierID)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			return nil, domain.ErrNotFound
		}
		return sup, nil
	}
	name := strings.TrimSpace(supplierName)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	sup, err := suppliers.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if sup != nil {
		return sup, nil
	}
	now := time.Now()
	sup = &entity.Supplier{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := suppliers.Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// applyPurchaseItems resuelve cada producto (por ID debe existir, por nombre
// se crea) y suma el stock comprado.
func applyPurchaseItems(repos ports.TxRepos, tenantID, purchaseID string, in []dto.PurchaseItemRequest) ([]entity.PurchaseItem, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.PurchaseItem, 0, len(in))
	for _, line := range in {
		product, err := resolvePurchaseProduct(repos.Products, tenantID, line)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}
	return items, nil
}

func resolvePurchaseProduct(products repository.ProductRepository, tenantID string, line dto.PurchaseItemRequest) (*entity.Product, error) {
	if line.ProductID != "" {
		product, err := products.GetByID(tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if err := products.IncrementStock(tenantID, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		return product, refreshProductStatus(products, tenantID, product.ID)
	}

	name := strings.TrimSpace(line.ProductName)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := products.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if err := products.IncrementStock(tenantID, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		return product, refreshProductStatus(products, tenantID, product.ID)
	}

	now := time.Now()
	product = &entity.Product{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Price:     line.Price,
		Stock:     line.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.RefreshStatus()
	if err := products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// revertPurchaseStock resta las cantidades sumadas por los ítems dados.
// Usa el decremento condicional: nunca deja stock negativo.
func revertPurchaseStock(repos ports.TxRepos, tenantID string, items []entity.PurchaseItem) error {
	for _, it := range items {
		if err := repos.Products.DecrementStock(tenantID, it.ProductID, it.Quantity); err != nil {
			return err
		}
		if err := refreshProductStatus(repos.Products, tenantID, it.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func refreshProductStatus(products repository.ProductRepository, tenantID, productID string) error {
	product, err := products.GetByID(tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	before := product.Status
	product.RefreshStatus()
	if product.Status == before {
		return nil
	}
	product.UpdatedAt = time.Now()
	return products.Update(product)
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return &dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		UserID:     p.UserID,
		Total:      p.Total,
		Date:       p.Date,
		Items:      items,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

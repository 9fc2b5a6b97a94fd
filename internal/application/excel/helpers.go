package excel

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

// findOrCreateSupplier resuelve un proveedor por nombre dentro del tenant,
// creándolo con email de relleno si no existe.
func findOrCreateSupplier(suppliers repository.SupplierRepository, tenantID, name string) (*entity.Supplier, error) {
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
		Email:     placeholderEmail(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := suppliers.Create(sup); err != nil {
		return nil, err
	}
	return sup, nil
}

// findOrCreateCustomer ídem para clientes (las ventas importadas pueden traer
// clientes que todavía no existen).
func findOrCreateCustomer(customers repository.CustomerRepository, tenantID, name string) (*entity.Customer, error) {
	c, err := customers.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	now := time.Now()
	c = &entity.Customer{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Email:     placeholderEmail(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := customers.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// findOrCreateCategory ídem para categorías.
func findOrCreateCategory(categories repository.CategoryRepository, tenantID, name string) (*entity.Category, error) {
	c, err := categories.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	now := time.Now()
	c = &entity.Category{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := categories.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveCategoryNames convierte una lista de nombres en IDs, creando las
// categorías que falten. Con lista vacía usa la categoría por defecto.
func resolveCategoryNames(categories repository.CategoryRepository, tenantID string, names []string) ([]string, error) {
	if len(names) == 0 {
		names = []string{DefaultCategoryName}
	}
	seen := map[string]bool{}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		cat, err := findOrCreateCategory(categories, tenantID, name)
		if err != nil {
			return nil, err
		}
		if !seen[cat.ID] {
			seen[cat.ID] = true
			ids = append(ids, cat.ID)
		}
	}
	return ids, nil
}

// refreshProductStatus relee el producto y recalcula su estado derivado tras
// una mutación de stock. El estado nunca se deriva implícitamente en SQL.
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

// restoreOrderItems devuelve al inventario las cantidades de una venta previa.
func restoreOrderItems(repos ports.TxRepos, tenantID string, items []entity.OrderItem) error {
	for _, it := range items {
		if err := repos.Products.IncrementStock(tenantID, it.ProductID, it.Quantity); err != nil {
			return err
		}
		if err := refreshProductStatus(repos.Products, tenantID, it.ProductID); err != nil {
			return err
		}
	}
	return nil
}

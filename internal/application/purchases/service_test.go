package purchases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

const testTenant = "tenant-1"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con snapshot/restore para verificar rollback real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]entity.Product
	suppliers map[string]entity.Supplier
	purchases map[string]entity.Purchase
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  map[string]entity.Product{},
		suppliers: map[string]entity.Supplier{},
		purchases: map[string]entity.Purchase{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	return c
}

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	snap := t.s.clone()
	err := fn(ports.TxRepos{
		Products:  &fakeProducts{s: t.s},
		Suppliers: &fakeSuppliers{s: t.s},
		Purchases: &fakePurchases{s: t.s},
	})
	if err != nil {
		t.s.products = snap.products
		t.s.suppliers = snap.suppliers
		t.s.purchases = snap.purchases
	}
	return err
}

type fakeProducts struct{ s *fakeStore }

var _ repository.ProductRepository = (*fakeProducts)(nil)

func (r *fakeProducts) Create(p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProducts) GetByID(tenantID, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProducts) GetByName(tenantID, name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProducts) Update(p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProducts) ListByTenant(string, repository.ListParams) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProducts) Delete(string, string) error { return nil }

func (r *fakeProducts) DecrementStock(tenantID, productID string, qty int) error {
	p, ok := r.s.products[productID]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	r.s.products[productID] = p
	return nil
}

func (r *fakeProducts) IncrementStock(tenantID, productID string, qty int) error {
	p, ok := r.s.products[productID]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	p.Stock += qty
	r.s.products[productID] = p
	return nil
}

func (r *fakeProducts) ReplaceCategories(string, []string) error        { return nil }
func (r *fakeProducts) GetCategories(string) ([]entity.Category, error) { return nil, nil }

type fakeSuppliers struct{ s *fakeStore }

var _ repository.SupplierRepository = (*fakeSuppliers)(nil)

func (r *fakeSuppliers) Create(sp *entity.Supplier) error {
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *fakeSuppliers) GetByID(tenantID, id string) (*entity.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok || sp.TenantID != tenantID {
		return nil, nil
	}
	return &sp, nil
}

func (r *fakeSuppliers) GetByName(tenantID, name string) (*entity.Supplier, error) {
	for _, sp := range r.s.suppliers {
		if sp.TenantID == tenantID && sp.Name == name {
			cp := sp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSuppliers) Update(*entity.Supplier) error { return nil }
func (r *fakeSuppliers) ListByTenant(string, repository.ListParams) ([]*entity.Supplier, int, error) {
	return nil, 0, nil
}
func (r *fakeSuppliers) Delete(string, string) error { return nil }

type fakePurchases struct{ s *fakeStore }

var _ repository.PurchaseRepository = (*fakePurchases)(nil)

func (r *fakePurchases) Create(p *entity.Purchase) error {
	r.s.purchases[p.ID] = *p
	return nil
}

func (r *fakePurchases) GetByID(tenantID, id string) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &p, nil
}

func (r *fakePurchases) Update(p *entity.Purchase) error {
	r.s.purchases[p.ID] = *p
	return nil
}

func (r *fakePurchases) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	p := r.s.purchases[purchaseID]
	p.Items = append([]entity.PurchaseItem(nil), items...)
	r.s.purchases[purchaseID] = p
	return nil
}

func (r *fakePurchases) ListByTenant(string, repository.ListParams) ([]*entity.Purchase, int, error) {
	return nil, 0, nil
}

func (r *fakePurchases) Delete(tenantID, id string) error {
	delete(r.s.purchases, id)
	return nil
}

func newTestService(s *fakeStore) *Service {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return NewService(&fakePurchases{s: s}, &fakeTx{s: s}, log)
}

func seedProduct(s *fakeStore, name string, stock int, price string) entity.Product {
	p := entity.Product{
		ID:       uuid.New().String(),
		TenantID: testTenant,
		Name:     name,
		Stock:    stock,
		Price:    decimal.RequireFromString(price),
		Status:   entity.ProductActive,
	}
	s.products[p.ID] = p
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SumaStockYCalculaTotal(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 24, Price: decimal.RequireFromString("900")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 34, s.products[product.ID].Stock)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("21600")),
		"total 24 x 900, tiene %s", out.Total)

	require.Len(t, s.suppliers, 1, "el proveedor por nombre se crea si no existe")
}

func TestCreate_ProductoPorNombreSeCrea(t *testing.T) {
	s := newFakeStore()
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductName: "Fideos", Quantity: 30, Price: decimal.RequireFromString("200")},
		},
	})

	require.NoError(t, err)
	require.Len(t, s.products, 1)
	for _, p := range s.products {
		assert.Equal(t, "Fideos", p.Name)
		assert.Equal(t, 30, p.Stock, "el producto nuevo nace con el stock comprado")
		assert.Equal(t, entity.ProductActive, p.Status)
	}
}

func TestCreate_ProductoPorIDDebeExistir(t *testing.T) {
	s := newFakeStore()
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "no-existe", Quantity: 1, Price: decimal.RequireFromString("100")},
		},
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.purchases)
	assert.Empty(t, s.suppliers, "el proveedor creado en la misma transacción se revierte")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete: reversa del stock sumado
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_RestaElStockDeLaVersionAnterior(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 24, Price: decimal.RequireFromString("900")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 34, s.products[product.ID].Stock)

	updated, err := svc.Update(context.Background(), testTenant, out.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 12, Price: decimal.RequireFromString("950")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 22, s.products[product.ID].Stock,
		"el stock vuelve a 10 y recién entonces se suman 12")
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("11400")), "tiene %s", updated.Total)
}

func TestUpdate_FallaSiLoCompradoYaSeVendio(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 0, "1500")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 24, Price: decimal.RequireFromString("900")},
		},
	})
	require.NoError(t, err)

	// Simular que parte de lo comprado ya se vendió.
	p := s.products[product.ID]
	p.Stock = 5
	s.products[product.ID] = p

	_, err = svc.Update(context.Background(), testTenant, out.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 10, Price: decimal.RequireFromString("900")},
		},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock,
		"revertir dejaría stock negativo: la edición falla entera")
	assert.Equal(t, 5, s.products[product.ID].Stock)
	require.Len(t, s.purchases[out.ID].Items, 1)
	assert.Equal(t, 24, s.purchases[out.ID].Items[0].Quantity, "la compra conserva sus ítems")
}

func TestDelete_RestaElStockSumado(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []dto.PurchaseItemRequest{
			{ProductID: product.ID, Quantity: 24, Price: decimal.RequireFromString("900")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testTenant, out.ID))
	assert.Equal(t, 10, s.products[product.ID].Stock)
	assert.Empty(t, s.purchases)
}

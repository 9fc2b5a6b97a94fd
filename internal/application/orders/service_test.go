package orders

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
// Fakes en memoria. El runner falso toma snapshot antes de ejecutar y restaura
// si fn falla: los tests de rollback verifican el estado del store, no mocks.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]entity.Product
	customers map[string]entity.Customer
	orders    map[string]entity.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  map[string]entity.Product{},
		customers: map[string]entity.Customer{},
		orders:    map[string]entity.Order{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	return c
}

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) Run(_ context.Context, fn func(repos ports.TxRepos) error) error {
	snap := t.s.clone()
	err := fn(ports.TxRepos{
		Products:  &fakeProducts{s: t.s},
		Customers: &fakeCustomers{s: t.s},
		Orders:    &fakeOrders{s: t.s},
	})
	if err != nil {
		t.s.products = snap.products
		t.s.customers = snap.customers
		t.s.orders = snap.orders
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

type fakeCustomers struct{ s *fakeStore }

var _ repository.CustomerRepository = (*fakeCustomers)(nil)

func (r *fakeCustomers) Create(c *entity.Customer) error {
	r.s.customers[c.ID] = *c
	return nil
}

func (r *fakeCustomers) GetByID(tenantID, id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCustomers) GetByName(tenantID, name string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.TenantID == tenantID && c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomers) Update(c *entity.Customer) error { return nil }
func (r *fakeCustomers) ListByTenant(string, repository.ListParams) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}
func (r *fakeCustomers) Delete(string, string) error { return nil }

type fakeOrders struct{ s *fakeStore }

var _ repository.OrderRepository = (*fakeOrders)(nil)

func (r *fakeOrders) Create(o *entity.Order) error {
	r.s.orders[o.ID] = *o
	return nil
}

func (r *fakeOrders) GetByID(tenantID, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o, nil
}

func (r *fakeOrders) Update(o *entity.Order) error {
	r.s.orders[o.ID] = *o
	return nil
}

func (r *fakeOrders) ReplaceItems(orderID string, items []entity.OrderItem) error {
	o := r.s.orders[orderID]
	o.Items = append([]entity.OrderItem(nil), items...)
	r.s.orders[orderID] = o
	return nil
}

func (r *fakeOrders) ListByTenant(string, repository.ListParams) ([]*entity.Order, int, error) {
	return nil, 0, nil
}

func (r *fakeOrders) Delete(tenantID, id string) error {
	delete(r.s.orders, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

func newTestService(s *fakeStore) *Service {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return NewService(&fakeOrders{s: s}, &fakeTx{s: s}, log)
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

func seedCustomer(s *fakeStore, name string) entity.Customer {
	c := entity.Customer{
		ID:       uuid.New().String(),
		TenantID: testTenant,
		Name:     name,
		Email:    "cliente@ejemplo.com",
	}
	s.customers[c.ID] = c
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotalYDescuentaStock(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, out.Status, "sin estado explícito la venta nace pendiente")
	assert.True(t, out.Total.Equal(decimal.RequireFromString("4500")),
		"total 3 x 1500, tiene %s", out.Total)
	assert.Equal(t, 7, s.products[product.ID].Stock)

	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Price.Equal(product.Price),
		"sin precio de línea se congela el del producto")
}

func TestCreate_PrecioDeLineaPisaAlDelProducto(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	linePrice := decimal.RequireFromString("1200")
	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 2, Price: &linePrice}},
	})

	require.NoError(t, err)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("2400")), "tiene %s", out.Total)
}

func TestCreate_StockInsuficienteRevierteTodo(t *testing.T) {
	s := newFakeStore()
	yerba := seedProduct(s, "Yerba", 10, "1500")
	fideos := seedProduct(s, "Fideos", 2, "350")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []dto.OrderItemRequest{
			{ProductID: yerba.ID, Quantity: 3},
			{ProductID: fideos.ID, Quantity: 99},
		},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, s.products[yerba.ID].Stock, "la primera línea también debe revertirse")
	assert.Equal(t, 2, s.products[fideos.ID].Stock)
	assert.Empty(t, s.orders)
}

func TestCreate_ClientePorNombreDebeExistir(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerName: "Fantasma",
		Items:        []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrNotFound, "una venta nunca crea clientes")
	assert.Equal(t, 10, s.products[product.ID].Stock)
}

func TestCreate_IDDeClienteTienePrecedenciaSobreNombre(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	porID := seedCustomer(s, "Juan Pérez")
	seedCustomer(s, "Otra Persona")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID:   porID.ID,
		CustomerName: "Otra Persona",
		Items:        []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, porID.ID, out.CustomerID)
}

func TestCreate_ProductoPorNombre(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba mate 1kg", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductName: "Yerba mate 1kg", Quantity: 3}},
	})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, product.ID, out.Items[0].ProductID)
	assert.Equal(t, 7, s.products[product.ID].Stock)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("4500")), "tiene %s", out.Total)
}

func TestCreate_ProductoPorNombreDebeExistir(t *testing.T) {
	s := newFakeStore()
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductName: "Fantasma", Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrNotFound, "una venta nunca crea productos")
	assert.Empty(t, s.orders)
}

func TestCreate_IDDeProductoTienePrecedenciaSobreNombre(t *testing.T) {
	s := newFakeStore()
	porID := seedProduct(s, "Yerba", 10, "1500")
	otro := seedProduct(s, "Fideos", 10, "350")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: porID.ID, ProductName: "Fideos", Quantity: 2}},
	})

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, porID.ID, out.Items[0].ProductID)
	assert.Equal(t, 8, s.products[porID.ID].Stock)
	assert.Equal(t, 10, s.products[otro.ID].Stock, "el nombre se ignora cuando hay ID")
}

func TestCreate_LineaSinProductoEsInvalida(t *testing.T) {
	s := newFakeStore()
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductName: "   ", Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinItemsEsInvalido(t *testing.T) {
	s := newFakeStore()
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_AgotaElStockYDerivaElEstado(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 3, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	_, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})

	require.NoError(t, err)
	got := s.products[product.ID]
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, entity.ProductOutOfStock, got.Status, "vender la última unidad agota el producto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete: restauración de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_RestauraElStockDeLaVersionAnterior(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 7, s.products[product.ID].Stock)

	updated, err := svc.Update(context.Background(), testTenant, out.ID, dto.UpdateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 5}},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, s.products[product.ID].Stock,
		"el stock vuelve a 10 y recién entonces se descuentan 5")
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("7500")), "tiene %s", updated.Total)
}

func TestUpdate_VentaInexistente(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Update(context.Background(), testTenant, "no-existe", dto.UpdateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "p", Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_FallaYNoTocaElEstadoPrevio(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), testTenant, out.ID, dto.UpdateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 99}},
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 7, s.products[product.ID].Stock,
		"la restauración previa al fallo también se revierte")
	require.Len(t, s.orders[out.ID].Items, 1)
	assert.Equal(t, 3, s.orders[out.ID].Items[0].Quantity, "la venta conserva sus ítems originales")
}

func TestDelete_DevuelveElStock(t *testing.T) {
	s := newFakeStore()
	product := seedProduct(s, "Yerba", 10, "1500")
	customer := seedCustomer(s, "Juan Pérez")
	svc := newTestService(s)

	out, err := svc.Create(context.Background(), testTenant, "user-1", dto.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []dto.OrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testTenant, out.ID))
	assert.Equal(t, 10, s.products[product.ID].Stock)
	assert.Empty(t, s.orders)
}

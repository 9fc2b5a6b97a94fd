package excel

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testService(s *memStore) *Service {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return NewService(&memTxRunner{s: s}, log, 1000)
}

// sheetOf arma una hoja ya parseada: headers y una fila por slice de valores.
func sheetOf(headers []string, rows ...[]string) *xlsx.Sheet {
	sheet := &xlsx.Sheet{Headers: headers}
	for i, vals := range rows {
		cells := map[string]string{}
		for j, h := range headers {
			if j < len(vals) {
				cells[h] = vals[j]
			}
		}
		sheet.Rows = append(sheet.Rows, xlsx.Row{Number: i + 2, Cells: cells})
	}
	return sheet
}

func seedProduct(s *memStore, name string, stock int, price string) entity.Product {
	p := entity.Product{
		ID:       uuid.New().String(),
		TenantID: testTenant,
		Name:     name,
		Stock:    stock,
		Price:    decimal.RequireFromString(price),
		Status:   entity.ProductActive,
	}
	p.RefreshStatus()
	s.products = append(s.products, p)
	return p
}

func findSupplier(s *memStore, name string) *entity.Supplier {
	for i := range s.suppliers {
		if s.suppliers[i].Name == name {
			return &s.suppliers[i]
		}
	}
	return nil
}

func findCategory(s *memStore, name string) *entity.Category {
	for i := range s.categories {
		if s.categories[i].Name == name {
			return &s.categories[i]
		}
	}
	return nil
}

func findProduct(s *memStore, name string) *entity.Product {
	for i := range s.products {
		if s.products[i].Name == name {
			return &s.products[i]
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Gates previos: entidad, modo y columna ID
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_EntidadDesconocidaRechazada(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf([]string{"Nombre"}, []string{"algo"})
	_, err := svc.Process(context.Background(), testTenant, testUser, "invoices", ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr, "una entidad desconocida debe rechazar el lote")
	assert.Contains(t, batchErr.Message, "invoices")
}

func TestProcess_ModoUpdateSinColumnaID(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf([]string{"Nombre"}, []string{"Yerba"})
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeUpdate, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Contains(t, batchErr.Message, "ID", "update sin columna ID debe nombrar la columna que falta")
}

func TestProcess_ModoImportConColumnaID(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf([]string{"ID", "Nombre"}, []string{"abc", "Yerba"})
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr, "import con columna ID debe rechazarse antes de validar")
}

func TestProcess_PlanillaSinFilas(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf([]string{"Nombre"})
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
}

func TestProcess_LoteSuperaElMaximoDeFilas(t *testing.T) {
	s := newMemStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	svc := NewService(&memTxRunner{s: s}, log, 1)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock"},
		[]string{"A", "10", "5", "1"},
		[]string{"B", "10", "5", "1"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Empty(t, s.products, "un lote rechazado no debe crear nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de esquema: todo el lote se rechaza antes de tocar la base
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ValidacionRechazaElLoteCompleto(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock"},
		[]string{"Yerba", "1500,50", "900", "10"},
		[]string{"Fideos", "abc", "200", "4"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.NotNil(t, batchErr.Report, "el rechazo de esquema debe adjuntar el reporte")
	require.Len(t, batchErr.Report.Errors, 1)
	assert.Equal(t, 3, batchErr.Report.Errors[0].Row, "la fila 3 es la inválida")
	assert.Equal(t, colSalePrice, batchErr.Report.Errors[0].Column)
	assert.Empty(t, s.products, "la fila válida tampoco debe persistir")
}

func TestProcess_ValidacionEstadoDesconocido(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock", "Estado"},
		[]string{"Yerba", "100", "50", "2", "congelado"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Report.Errors, 1)
	assert.Equal(t, colStatus, batchErr.Report.Errors[0].Column)
}

func TestProcess_ValidacionListasDesparejas(t *testing.T) {
	svc := testService(newMemStore())

	sheet := sheetOf(
		[]string{"Cliente", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Juan", "completada", "2026-01-15", "Yerba,Fideos", "3", "1500,200"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeImport, sheet)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	require.Len(t, batchErr.Report.Errors, 1)
	assert.Equal(t, colQuantities, batchErr.Report.Errors[0].Column, "cantidades desparejas respecto de productos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Import de productos: proveedor, compra de intake y merge aditivo
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ImportaProductoConProveedorYCompra(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock", "Proveedor", "Categorias"},
		[]string{"Yerba Mate", "1500,50", "900", "12", "Acme", "Almacén"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, "created", report.Successes[0].Action)

	product := findProduct(s, "Yerba Mate")
	require.NotNil(t, product, "el producto debe crearse")
	assert.Equal(t, 12, product.Stock)
	assert.Equal(t, entity.ProductActive, product.Status)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("1500.50")),
		"el precio con coma decimal debe parsearse, tiene %s", product.Price)

	supplier := findSupplier(s, "Acme")
	require.NotNil(t, supplier, "el proveedor de la fila debe crearse")
	assert.Equal(t, "acme@ejemplo.com", supplier.Email)

	category := findCategory(s, "Almacén")
	require.NotNil(t, category)
	assert.Equal(t, []string{category.ID}, s.prodCats[product.ID])

	require.Len(t, s.purchases, 1, "el intake de stock debe quedar trazado como compra")
	purchase := s.purchases[0]
	assert.Equal(t, supplier.ID, purchase.SupplierID)
	assert.Equal(t, testUser, purchase.UserID)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, 12, purchase.Items[0].Quantity)
	assert.True(t, purchase.Total.Equal(decimal.RequireFromString("10800")),
		"total 12 x 900, tiene %s", purchase.Total)
}

func TestProcess_ImportSinProveedorNiCategoriaUsaDefaults(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock"},
		[]string{"Azúcar", "800", "400", "5"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	require.NoError(t, err)
	assert.NotNil(t, findSupplier(s, DefaultSupplierName))
	assert.NotNil(t, findCategory(s, DefaultCategoryName))
}

func TestProcess_ReimportarSumaStock(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "Yerba", 10, "1400")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock"},
		[]string{"Yerba", "1500", "900", "5"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	require.NoError(t, err)
	assert.Equal(t, "merged", report.Successes[0].Action)

	product := findProduct(s, "Yerba")
	require.NotNil(t, product)
	assert.Equal(t, 15, product.Stock, "el merge suma el stock importado al existente")
	assert.True(t, product.Price.Equal(decimal.RequireFromString("1500")), "el precio de venta se pisa")
}

func TestProcess_ImportStockCeroNoGeneraCompra(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Nombre", "PrecioVenta", "PrecioCompra", "Stock"},
		[]string{"Harina", "500", "250", "0"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)

	require.NoError(t, err)
	assert.Empty(t, s.purchases, "sin unidades no hay compra de intake")

	product := findProduct(s, "Harina")
	require.NotNil(t, product)
	assert.Equal(t, entity.ProductOutOfStock, product.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollback total: cualquier error de fila revierte el lote entero
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_UpdateRevierteTodoSiUnaFilaFalla(t *testing.T) {
	s := newMemStore()
	customer := entity.Customer{
		ID:       uuid.New().String(),
		TenantID: testTenant,
		Name:     "Juan Pérez",
		Email:    "juan@ejemplo.com",
	}
	s.customers = append(s.customers, customer)
	svc := testService(s)

	sheet := sheetOf(
		[]string{"ID", "Nombre"},
		[]string{customer.ID, "Juan P. Gómez"},
		[]string{"no-existe", "Fantasma"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityCustomers, ModeUpdate, sheet)

	require.ErrorIs(t, err, ErrBatchFailed)
	require.NotNil(t, report, "el reporte viaja junto con el error")
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, 0, report.SuccessCount, "tras el rollback no hay filas exitosas")
	assert.Empty(t, report.Successes)

	assert.Equal(t, "Juan Pérez", s.customers[0].Name,
		"la fila válida también debe revertirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Import de ventas: cliente, stock y total
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ImportaVentaDescontandoStock(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "Yerba", 10, "1500")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Cliente", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Juan Pérez", "completada", "2026-01-15", "Yerba", "3", "1500"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeImport, sheet)

	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)

	require.Len(t, s.orders, 1)
	order := s.orders[0]
	assert.Equal(t, entity.OrderCompleted, order.Status)
	assert.Equal(t, testUser, order.UserID, "sin columna Usuario la venta queda a nombre de quien importa")
	assert.True(t, order.Total.Equal(decimal.RequireFromString("4500")),
		"total 3 x 1500, tiene %s", order.Total)

	assert.Equal(t, 7, findProduct(s, "Yerba").Stock)

	require.Len(t, s.customers, 1, "el cliente de la fila debe crearse")
	assert.Equal(t, "juanperez@ejemplo.com", s.customers[0].Email)
}

func TestProcess_VentaConStockInsuficienteRevierte(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "Yerba", 10, "1500")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Cliente", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Juan Pérez", "completada", "2026-01-15", "Yerba", "50", "1500"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeImport, sheet)

	require.ErrorIs(t, err, ErrBatchFailed)
	require.Equal(t, 1, report.ErrorCount)
	assert.Contains(t, report.Errors[0].Message, "stock insuficiente")

	assert.Equal(t, 10, findProduct(s, "Yerba").Stock, "el stock no debe moverse")
	assert.Empty(t, s.orders)
	assert.Empty(t, s.customers, "el cliente creado en la misma transacción también se revierte")
}

func TestProcess_VentaConProductoInexistenteRevierte(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Cliente", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Juan Pérez", "pendiente", "2026-01-15", "NoExiste", "1", "100"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeImport, sheet)

	require.ErrorIs(t, err, ErrBatchFailed)
	require.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, colProducts, report.Errors[0].Column)
	assert.Empty(t, s.orders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Import de compras: crea productos faltantes y suma stock
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ImportaCompraCreandoProductoFaltante(t *testing.T) {
	s := newMemStore()
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Proveedor", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Acme", "2026-02-01", "Fideos", "4", "200"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityPurchases, ModeImport, sheet)

	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)

	product := findProduct(s, "Fideos")
	require.NotNil(t, product, "un producto comprado que no existe se crea con el stock recibido")
	assert.Equal(t, 4, product.Stock)

	require.Len(t, s.purchases, 1)
	assert.True(t, s.purchases[0].Total.Equal(decimal.RequireFromString("800")))
	assert.NotNil(t, findSupplier(s, "Acme"))
}

func TestProcess_ImportaCompraSumandoStockExistente(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "Fideos", 6, "350")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"Proveedor", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{"Acme", "2026-02-01", "Fideos", "4", "200"},
	)
	_, err := svc.Process(context.Background(), testTenant, testUser, EntityPurchases, ModeImport, sheet)

	require.NoError(t, err)
	assert.Equal(t, 10, findProduct(s, "Fideos").Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update de ventas y compras: restaurar primero, aplicar después
// ──────────────────────────────────────────────────────────────────────────────

func seedOrder(s *memStore, customerID, userID string, product entity.Product, qty int, price string) entity.Order {
	o := entity.Order{
		ID:         uuid.New().String(),
		TenantID:   testTenant,
		CustomerID: customerID,
		UserID:     userID,
		Status:     entity.OrderPending,
		Items: []entity.OrderItem{{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  qty,
			Price:     decimal.RequireFromString(price),
		}},
	}
	o.Items[0].OrderID = o.ID
	o.ComputeTotal()
	s.orders = append(s.orders, o)
	return o
}

func seedPurchase(s *memStore, supplierID string, product entity.Product, qty int, price string) entity.Purchase {
	p := entity.Purchase{
		ID:         uuid.New().String(),
		TenantID:   testTenant,
		SupplierID: supplierID,
		UserID:     testUser,
		Items: []entity.PurchaseItem{{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  qty,
			Price:     decimal.RequireFromString(price),
		}},
	}
	p.Items[0].PurchaseID = p.ID
	p.ComputeTotal()
	s.purchases = append(s.purchases, p)
	return p
}

func TestProcess_UpdateVentaRestauraYReaplicaStock(t *testing.T) {
	s := newMemStore()
	// Quedan 7 en inventario porque la venta original descontó 3 de 10.
	yerba := seedProduct(s, "Yerba", 7, "1500")
	customer := entity.Customer{ID: uuid.New().String(), TenantID: testTenant, Name: "Juan Pérez"}
	s.customers = append(s.customers, customer)
	order := seedOrder(s, customer.ID, "user-0", yerba, 3, "1500")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"ID", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{order.ID, "completada", "2026-01-20", "Yerba", "5", "1500"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeUpdate, sheet)

	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, "updated", report.Successes[0].Action)

	assert.Equal(t, 5, findProduct(s, "Yerba").Stock,
		"el stock vuelve a 10 y recién entonces se descuentan 5")

	got := s.orders[0]
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("7500")), "tiene %s", got.Total)
	assert.Equal(t, entity.OrderCompleted, got.Status)
	assert.Equal(t, "user-0", got.UserID, "sin columna Usuario la venta conserva su dueño")
	assert.Equal(t, customer.ID, got.CustomerID, "sin columna Cliente se conserva el cliente")
}

func TestProcess_UpdateVentaInexistenteRevierte(t *testing.T) {
	s := newMemStore()
	yerba := seedProduct(s, "Yerba", 7, "1500")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"ID", "Estado", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{uuid.New().String(), "completada", "2026-01-20", "Yerba", "5", "1500"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityOrders, ModeUpdate, sheet)

	require.ErrorIs(t, err, ErrBatchFailed)
	require.Equal(t, 1, report.ErrorCount)
	assert.Contains(t, report.Errors[0].Message, "venta no encontrada")
	assert.Equal(t, 7, findProduct(s, yerba.Name).Stock)
}

func TestProcess_UpdateCompraRestaLoSumadoAntes(t *testing.T) {
	s := newMemStore()
	// 34 en inventario: 10 propios más 24 que sumó la compra original.
	fideos := seedProduct(s, "Fideos", 34, "350")
	supplier := entity.Supplier{ID: uuid.New().String(), TenantID: testTenant, Name: "Acme"}
	s.suppliers = append(s.suppliers, supplier)
	purchase := seedPurchase(s, supplier.ID, fideos, 24, "450")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"ID", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{purchase.ID, "2026-02-10", "Fideos", "12", "950"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityPurchases, ModeUpdate, sheet)

	require.NoError(t, err)
	require.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, "updated", report.Successes[0].Action)

	assert.Equal(t, 22, findProduct(s, "Fideos").Stock,
		"primero se restan los 24 de la versión anterior y luego se suman 12")

	got := s.purchases[0]
	require.Len(t, got.Items, 1)
	assert.Equal(t, 12, got.Items[0].Quantity)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("11400")), "tiene %s", got.Total)
	assert.Equal(t, supplier.ID, got.SupplierID, "sin columna Proveedor se conserva el proveedor")
}

func TestProcess_UpdateCompraFallaSiLoCompradoYaSeVendio(t *testing.T) {
	s := newMemStore()
	// La compra original sumó 24 pero el tenant ya vendió casi todo.
	fideos := seedProduct(s, "Fideos", 5, "350")
	purchase := seedPurchase(s, uuid.New().String(), fideos, 24, "450")
	svc := testService(s)

	sheet := sheetOf(
		[]string{"ID", "Fecha", "Productos", "Cantidades", "Precios"},
		[]string{purchase.ID, "2026-02-10", "Fideos", "12", "950"},
	)
	report, err := svc.Process(context.Background(), testTenant, testUser, EntityPurchases, ModeUpdate, sheet)

	require.ErrorIs(t, err, ErrBatchFailed)
	require.Equal(t, 1, report.ErrorCount)
	assert.Contains(t, report.Errors[0].Message, "no se puede revertir la compra")

	assert.Equal(t, 5, findProduct(s, "Fideos").Stock, "el stock no debe quedar negativo ni moverse")
	require.Len(t, s.purchases, 1)
	assert.Equal(t, 24, s.purchases[0].Items[0].Quantity, "la compra conserva sus ítems originales")
}

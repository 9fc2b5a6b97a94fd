package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

func testExporter(s *memStore) *Exporter {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	repos := s.repos()
	return NewExporter(
		repos.Products, repos.Categories, repos.Customers, repos.Suppliers,
		repos.Orders, repos.Purchases, repos.Users, log,
	)
}

func TestExport_ProductosConCategorias(t *testing.T) {
	s := newMemStore()
	product := seedProduct(s, "Yerba Mate", 12, "1500.50")
	category := entity.Category{ID: uuid.New().String(), TenantID: testTenant, Name: "Almacén"}
	s.categories = append(s.categories, category)
	s.prodCats[product.ID] = []string{category.ID}

	data, err := testExporter(s).Export(testTenant, EntityProducts)
	require.NoError(t, err)

	sheet, err := xlsx.ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, sheet.HasHeader(colID),
		"el export lleva ID para poder reimportarse en modo update")

	require.Len(t, sheet.Rows, 1)
	row := sheet.Rows[0]
	assert.Equal(t, product.ID, row.Get(colID))
	assert.Equal(t, "Yerba Mate", row.Get(colName))
	assert.Equal(t, "1500.5", row.Get(colSalePrice))
	assert.Equal(t, "12", row.Get(colStock))
	assert.Equal(t, "Almacén", row.Get(colCategory))
}

func TestExport_VentasConListasParalelas(t *testing.T) {
	s := newMemStore()
	yerba := seedProduct(s, "Yerba", 10, "1500")
	fideos := seedProduct(s, "Fideos", 5, "350")
	customer := entity.Customer{ID: uuid.New().String(), TenantID: testTenant, Name: "Juan Pérez"}
	s.customers = append(s.customers, customer)
	userTenant := testTenant
	user := entity.User{ID: uuid.New().String(), TenantID: &userTenant, Name: "Cajero Uno"}
	s.users = append(s.users, user)

	order := entity.Order{
		ID:         uuid.New().String(),
		TenantID:   testTenant,
		CustomerID: customer.ID,
		UserID:     user.ID,
		Status:     entity.OrderCompleted,
		Date:       time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{ID: uuid.New().String(), ProductID: yerba.ID, Quantity: 2, Price: decimal.RequireFromString("1500")},
			{ID: uuid.New().String(), ProductID: fideos.ID, Quantity: 3, Price: decimal.RequireFromString("350")},
		},
	}
	order.ComputeTotal()
	s.orders = append(s.orders, order)

	data, err := testExporter(s).Export(testTenant, EntityOrders)
	require.NoError(t, err)

	sheet, err := xlsx.ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	row := sheet.Rows[0]
	assert.Equal(t, "Juan Pérez", row.Get(colCustomer))
	assert.Equal(t, "Cajero Uno", row.Get(colUser))
	assert.Equal(t, "2026-03-10", row.Get(colDate))
	assert.Equal(t, "Yerba, Fideos", row.Get(colProducts))
	assert.Equal(t, "2, 3", row.Get(colQuantities))
	assert.Equal(t, "1500, 350", row.Get(colPrices))
}

// La hoja de datos se titula con el nombre en español de la entidad.
func TestExport_NombreDeHojaPorEntidad(t *testing.T) {
	exporter := testExporter(newMemStore())

	want := map[string]string{
		EntityProducts:   "Productos",
		EntityCustomers:  "Clientes",
		EntitySuppliers:  "Proveedores",
		EntityCategories: "Categorias",
		EntityOrders:     "Ventas",
		EntityPurchases:  "Compras",
	}
	for entityName, title := range want {
		data, err := exporter.Export(testTenant, entityName)
		require.NoError(t, err, "entidad %s", entityName)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err, "entidad %s", entityName)
		assert.Equal(t, title, f.GetSheetList()[0], "entidad %s", entityName)
		require.NoError(t, f.Close())
	}
}

func TestExport_EntidadDesconocida(t *testing.T) {
	_, err := testExporter(newMemStore()).Export(testTenant, "invoices")

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
}

// El export de un tenant vacío es una planilla con encabezado y sin filas.
func TestExport_TenantVacio(t *testing.T) {
	data, err := testExporter(newMemStore()).Export(testTenant, EntityCustomers)
	require.NoError(t, err)

	sheet, err := xlsx.ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
	assert.True(t, sheet.HasHeader(colEmail))
}

// Las plantillas de ejemplo no llevan ID: están pensadas para modo import.
func TestExample_SinColumnaID(t *testing.T) {
	s := newMemStore()
	exporter := testExporter(s)

	for _, entityName := range []string{
		EntityProducts, EntityCustomers, EntitySuppliers,
		EntityCategories, EntityOrders, EntityPurchases,
	} {
		data, err := exporter.Example(testTenant, entityName)
		require.NoError(t, err, "entidad %s", entityName)

		sheet, err := xlsx.ReadFirstSheet(bytes.NewReader(data))
		require.NoError(t, err, "entidad %s", entityName)
		assert.False(t, sheet.HasHeader(colID),
			"la plantilla de %s no debe llevar ID", entityName)
		assert.NotEmpty(t, sheet.Rows, "la plantilla de %s trae filas de muestra", entityName)
	}
}

// La plantilla de ejemplo debe pasar el pipeline completo en modo import.
func TestExample_EsImportable(t *testing.T) {
	s := newMemStore()
	exporter := testExporter(s)
	svc := testService(s)

	data, err := exporter.Example(testTenant, EntityProducts)
	require.NoError(t, err)

	sheet, err := xlsx.ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)

	report, err := svc.Process(context.Background(), testTenant, testUser, EntityProducts, ModeImport, sheet)
	require.NoError(t, err, "la plantilla generada debe importar sin errores")
	assert.Equal(t, len(sheet.Rows), report.SuccessCount)
}

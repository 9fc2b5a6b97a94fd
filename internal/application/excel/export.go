package excel

import (
	"strconv"
	"strings"

	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
	"github.com/jhoicas/comercio-api/pkg/logger"
	"github.com/jhoicas/comercio-api/pkg/strutil"
)

const (
	exportPageSize = 100
	exportDate     = "2006-01-02"
)

// sheetWords nombre en español de la hoja de datos de cada entidad; el título
// final sale del casing de strutil.
var sheetWords = map[string]string{
	EntityProducts:   "productos",
	EntityCustomers:  "clientes",
	EntitySuppliers:  "proveedores",
	EntityCategories: "categorias",
	EntityOrders:     "ventas",
	EntityPurchases:  "compras",
}

func sheetTitle(entityName string) string {
	return strutil.Title(sheetWords[entityName])
}

// Exporter genera workbooks de exportación y de ejemplo por entidad.
// Los exports incluyen la columna ID para que el archivo sirva tal cual como
// entrada del modo update; los ejemplos no la traen (el modo import la prohíbe).
type Exporter struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	customers  repository.CustomerRepository
	suppliers  repository.SupplierRepository
	orders     repository.OrderRepository
	purchases  repository.PurchaseRepository
	users      repository.UserRepository
	log        *logger.Logger
}

// NewExporter construye el exportador.
func NewExporter(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	customers repository.CustomerRepository,
	suppliers repository.SupplierRepository,
	orders repository.OrderRepository,
	purchases repository.PurchaseRepository,
	users repository.UserRepository,
	log *logger.Logger,
) *Exporter {
	return &Exporter{
		products: products, categories: categories, customers: customers,
		suppliers: suppliers, orders: orders, purchases: purchases,
		users: users, log: log,
	}
}

// collectPages agota el listado paginado de un repositorio.
func collectPages[T any](fetch func(params repository.ListParams) ([]T, int, error)) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		items, total, err := fetch(repository.ListParams{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

// Export genera el workbook con las filas actuales del tenant.
func (e *Exporter) Export(tenantID, entityName string) ([]byte, error) {
	wb := xlsx.NewWorkbook()
	var err error
	switch entityName {
	case EntityProducts:
		err = e.exportProducts(wb, tenantID)
	case EntityCustomers:
		err = e.exportCustomers(wb, tenantID)
	case EntitySuppliers:
		err = e.exportSuppliers(wb, tenantID)
	case EntityCategories:
		err = e.exportCategories(wb, tenantID)
	case EntityOrders:
		err = e.exportOrders(wb, tenantID)
	case EntityPurchases:
		err = e.exportPurchases(wb, tenantID)
	default:
		return nil, &BatchError{Message: "entidad no soportada: " + entityName}
	}
	if err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func (e *Exporter) exportProducts(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Product, int, error) {
		return e.products.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, p := range list {
		cats, err := e.products.GetCategories(p.ID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		rows = append(rows, []any{
			p.ID, p.Name, p.Description, p.Price.String(), p.SKU,
			p.Stock, p.Status, strings.Join(names, ", "), p.ImageURL,
		})
	}
	return wb.AddSheet(sheetTitle(EntityProducts),
		[]string{colID, colName, colDescription, colSalePrice, colSKU, colStock, colStatus, colCategory, colImage},
		rows)
}

func (e *Exporter) exportCustomers(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Customer, int, error) {
		return e.customers.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, c := range list {
		rows = append(rows, []any{c.ID, c.Name, c.Email, c.Phone, c.City, c.Country})
	}
	return wb.AddSheet(sheetTitle(EntityCustomers),
		[]string{colID, colName, colEmail, colPhone, colCity, colCountry}, rows)
}

func (e *Exporter) exportSuppliers(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Supplier, int, error) {
		return e.suppliers.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.ID, s.Name, s.Email, s.Phone, s.City, s.Country})
	}
	return wb.AddSheet(sheetTitle(EntitySuppliers),
		[]string{colID, colName, colEmail, colPhoneAcc, colCity, colCountry}, rows)
}

func (e *Exporter) exportCategories(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Category, int, error) {
		return e.categories.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, c := range list {
		products, err := e.categories.GetProducts(c.ID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(products))
		for _, p := range products {
			names = append(names, p.Name)
		}
		rows = append(rows, []any{c.ID, c.Name, strings.Join(names, ", ")})
	}
	return wb.AddSheet(sheetTitle(EntityCategories), []string{colID, colName, colProducts}, rows)
}

func (e *Exporter) exportOrders(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Order, int, error) {
		return e.orders.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	productNames := map[string]string{}
	customerNames := map[string]string{}
	userNames := map[string]string{}

	rows := make([][]any, 0, len(list))
	for _, o := range list {
		customer, err := lookupName(customerNames, o.CustomerID, func(id string) (string, error) {
			c, err := e.customers.GetByID(tenantID, id)
			if err != nil || c == nil {
				return "", err
			}
			return c.Name, nil
		})
		if err != nil {
			return err
		}
		user, err := lookupName(userNames, o.UserID, func(id string) (string, error) {
			u, err := e.users.GetByID(id)
			if err != nil || u == nil {
				return "", err
			}
			return u.Name, nil
		})
		if err != nil {
			return err
		}
		products, quantities, prices, err := e.joinItemLists(tenantID, productNames, orderItemRefs(o.Items))
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			o.ID, customer, user, o.Status, o.Date.Format(exportDate),
			products, quantities, prices,
		})
	}
	return wb.AddSheet(sheetTitle(EntityOrders),
		[]string{colID, colCustomer, colUser, colStatus, colDate, colProducts, colQuantities, colPrices},
		rows)
}

func (e *Exporter) exportPurchases(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Purchase, int, error) {
		return e.purchases.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	productNames := map[string]string{}
	supplierNames := map[string]string{}

	rows := make([][]any, 0, len(list))
	for _, p := range list {
		supplier, err := lookupName(supplierNames, p.SupplierID, func(id string) (string, error) {
			s, err := e.suppliers.GetByID(tenantID, id)
			if err != nil || s == nil {
				return "", err
			}
			return s.Name, nil
		})
		if err != nil {
			return err
		}
		products, quantities, prices, err := e.joinItemLists(tenantID, productNames, purchaseItemRefs(p.Items))
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			p.ID, supplier, p.Date.Format(exportDate), products, quantities, prices,
		})
	}
	return wb.AddSheet(sheetTitle(EntityPurchases),
		[]string{colID, colSupplier, colDate, colProducts, colQuantities, colPrices}, rows)
}

// itemRef vista mínima de una línea para armar las listas paralelas del export.
type itemRef struct {
	ProductID string
	Quantity  int
	Price     string
}

func orderItemRefs(items []entity.OrderItem) []itemRef {
	out := make([]itemRef, 0, len(items))
	for _, it := range items {
		out = append(out, itemRef{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price.String()})
	}
	return out
}

func purchaseItemRefs(items []entity.PurchaseItem) []itemRef {
	out := make([]itemRef, 0, len(items))
	for _, it := range items {
		out = append(out, itemRef{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price.String()})
	}
	return out
}

// joinItemLists arma las tres columnas paralelas alineadas por índice.
func (e *Exporter) joinItemLists(tenantID string, cache map[string]string, items []itemRef) (string, string, string, error) {
	names := make([]string, 0, len(items))
	quantities := make([]string, 0, len(items))
	prices := make([]string, 0, len(items))
	for _, it := range items {
		name, err := lookupName(cache, it.ProductID, func(id string) (string, error) {
			p, err := e.products.GetByID(tenantID, id)
			if err != nil || p == nil {
				return "", err
			}
			return p.Name, nil
		})
		if err != nil {
			return "", "", "", err
		}
		names = append(names, name)
		quantities = append(quantities, strconv.Itoa(it.Quantity))
		prices = append(prices, it.Price)
	}
	return strings.Join(names, ", "), strings.Join(quantities, ", "), strings.Join(prices, ", "), nil
}

func lookupName(cache map[string]string, id string, fetch func(id string) (string, error)) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, ok := cache[id]; ok {
		return name, nil
	}
	name, err := fetch(id)
	if err != nil {
		return "", err
	}
	cache[id] = name
	return name, nil
}

package excel

import (
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// Example genera el workbook de ejemplo para el modo import: una hoja con
// filas de muestra (sin columna ID), una hoja de instrucciones y hojas de
// referencia con los registros existentes del tenant.
func (e *Exporter) Example(tenantID, entityName string) ([]byte, error) {
	wb := xlsx.NewWorkbook()
	var err error
	switch entityName {
	case EntityProducts:
		err = e.exampleProducts(wb, tenantID)
	case EntityCustomers:
		err = e.exampleCustomers(wb)
	case EntitySuppliers:
		err = e.exampleSuppliers(wb)
	case EntityCategories:
		err = e.exampleCategories(wb, tenantID)
	case EntityOrders:
		err = e.exampleOrders(wb, tenantID)
	case EntityPurchases:
		err = e.examplePurchases(wb, tenantID)
	default:
		return nil, &BatchError{Message: "entidad no soportada: " + entityName}
	}
	if err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func (e *Exporter) exampleProducts(wb *xlsx.Workbook, tenantID string) error {
	err := wb.AddSheet(sheetTitle(EntityProducts),
		[]string{colName, colDescription, colSalePrice, colBuyPrice, colSKU, colStock, colStatus, colCategories, colSupplier, colImage},
		[][]any{
			{"Yerba mate 1kg", "Paquete de yerba", "3500", "2100", "YER-001", 40, "activo", "Almacén, Infusiones", "Distribuidora Sur", ""},
			{"Azúcar 1kg", "", "1200,50", "800", "", 0, "", "Almacén", "", ""},
		})
	if err != nil {
		return err
	}
	err = wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"La primera hoja es la plantilla: complete una fila por producto."},
		{"Nombre, PrecioVenta, PrecioCompra y Stock son obligatorios."},
		{"Los precios aceptan coma o punto decimal."},
		{"Estado acepta activo, inactivo o agotado; vacío se calcula del stock."},
		{"Categorias y Proveedor aceptan nombres nuevos: se crean solos."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
	if err != nil {
		return err
	}
	if err := e.referenceSuppliers(wb, tenantID); err != nil {
		return err
	}
	return e.referenceCategories(wb, tenantID)
}

func (e *Exporter) exampleCustomers(wb *xlsx.Workbook) error {
	err := wb.AddSheet(sheetTitle(EntityCustomers),
		[]string{colName, colEmail, colPhone, colCity, colCountry},
		[][]any{
			{"Juan Pérez", "juan.perez@ejemplo.com", "+54 11 5555-1234", "Buenos Aires", "Argentina"},
			{"María García", "maria.garcia@ejemplo.com", "", "Córdoba", "Argentina"},
		})
	if err != nil {
		return err
	}
	return wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"Complete una fila por cliente. Nombre y Email son obligatorios."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
}

func (e *Exporter) exampleSuppliers(wb *xlsx.Workbook) error {
	err := wb.AddSheet(sheetTitle(EntitySuppliers),
		[]string{colName, colEmail, colPhoneAcc, colCity, colCountry},
		[][]any{
			{"Distribuidora Sur", "ventas@distribuidorasur.com", "+54 11 5555-9876", "Avellaneda", "Argentina"},
			{"Frutas del Valle", "", "", "Mendoza", "Argentina"},
		})
	if err != nil {
		return err
	}
	return wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"Complete una fila por proveedor. Sólo el Nombre es obligatorio."},
		{"Si no indica Email se genera uno de relleno."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
}

func (e *Exporter) exampleCategories(wb *xlsx.Workbook, tenantID string) error {
	err := wb.AddSheet(sheetTitle(EntityCategories),
		[]string{colName, colProducts},
		[][]any{
			{"Almacén", "Yerba mate 1kg, Azúcar 1kg"},
			{"Infusiones", ""},
		})
	if err != nil {
		return err
	}
	err = wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"Complete una fila por categoría. El Nombre es obligatorio."},
		{"Productos acepta nombres existentes separados por coma; reemplaza la asociación completa."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
	if err != nil {
		return err
	}
	return e.referenceProducts(wb, tenantID)
}

func (e *Exporter) exampleOrders(wb *xlsx.Workbook, tenantID string) error {
	err := wb.AddSheet(sheetTitle(EntityOrders),
		[]string{colCustomer, colUser, colStatus, colDate, colProducts, colQuantities, colPrices},
		[][]any{
			{"Juan Pérez", "", "completada", "2026-08-01", "Yerba mate 1kg, Azúcar 1kg", "2, 1", "3500, 1200.50"},
			{"María García", "", "pendiente", "02/08/2026", "Azúcar 1kg", "3", "1200.50"},
		})
	if err != nil {
		return err
	}
	err = wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"Complete una fila por venta. Cliente, Estado y Fecha son obligatorios."},
		{"Productos, Cantidades y Precios van separados por coma y alineados por posición."},
		{"Los productos deben existir; los clientes se crean si faltan."},
		{"Usuario es opcional: vacío asigna la venta a quien importa."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
	if err != nil {
		return err
	}
	return e.referenceProducts(wb, tenantID)
}

func (e *Exporter) examplePurchases(wb *xlsx.Workbook, tenantID string) error {
	err := wb.AddSheet(sheetTitle(EntityPurchases),
		[]string{colSupplier, colDate, colProducts, colQuantities, colPrices},
		[][]any{
			{"Distribuidora Sur", "2026-08-01", "Yerba mate 1kg", "24", "2100"},
			{"Frutas del Valle", "2026-08-05", "Manzana roja, Banana", "30, 50", "450, 300"},
		})
	if err != nil {
		return err
	}
	err = wb.AddSheet("Instrucciones", []string{"Instrucciones"}, [][]any{
		{"Complete una fila por compra. Proveedor y Fecha son obligatorios."},
		{"Productos, Cantidades y Precios van separados por coma y alineados por posición."},
		{"Proveedores y productos inexistentes se crean; cada línea suma stock."},
		{"No agregue columna ID: el modo import la rechaza."},
	})
	if err != nil {
		return err
	}
	return e.referenceSuppliers(wb, tenantID)
}

// referenceSuppliers hoja de referencia con los proveedores actuales.
func (e *Exporter) referenceSuppliers(wb *xlsx.Workbook, tenantID string) error {
	list, _, err := e.suppliers.ListByTenant(tenantID, repository.ListParams{Page: 1, Limit: exportPageSize})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, s := range list {
		rows = append(rows, []any{s.Name})
	}
	return wb.AddSheet(sheetTitle(EntitySuppliers)+" existentes", []string{colName}, rows)
}

// referenceCategories hoja de referencia con las categorías actuales.
func (e *Exporter) referenceCategories(wb *xlsx.Workbook, tenantID string) error {
	list, _, err := e.categories.ListByTenant(tenantID, repository.ListParams{Page: 1, Limit: exportPageSize})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, c := range list {
		rows = append(rows, []any{c.Name})
	}
	return wb.AddSheet(sheetTitle(EntityCategories)+" existentes", []string{colName}, rows)
}

// referenceProducts hoja de referencia con los productos actuales y su stock.
func (e *Exporter) referenceProducts(wb *xlsx.Workbook, tenantID string) error {
	list, err := collectPages(func(p repository.ListParams) ([]*entity.Product, int, error) {
		return e.products.ListByTenant(tenantID, p)
	})
	if err != nil {
		return err
	}
	rows := make([][]any, 0, len(list))
	for _, p := range list {
		rows = append(rows, []any{p.Name, p.Stock, p.Price.String()})
	}
	return wb.AddSheet(sheetTitle(EntityProducts)+" existentes", []string{colName, colStock, colSalePrice}, rows)
}

package excel

import (
	"fmt"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// Encabezados por entidad. Son los nombres localizados que el front genera y
// que los usuarios ya conocen; "Teléfono" lleva tilde sólo en proveedores.
const (
	colID          = "ID"
	colName        = "Nombre"
	colDescription = "Descripcion"
	colSalePrice   = "PrecioVenta"
	colBuyPrice    = "PrecioCompra"
	colSKU         = "SKU"
	colStock       = "Stock"
	colStatus      = "Estado"
	colCategories  = "Categorias"
	colCategory    = "Categoria"
	colSupplier    = "Proveedor"
	colImage       = "Imagen"
	colEmail       = "Email"
	colPhone       = "Telefono"
	colPhoneAcc    = "Teléfono"
	colCity        = "Ciudad"
	colCountry     = "Localidad"
	colCustomer    = "Cliente"
	colUser        = "Usuario"
	colDate        = "Fecha"
	colProducts    = "Productos"
	colQuantities  = "Cantidades"
	colPrices      = "Precios"
)

// validateSheet revisa el esquema de todas las filas antes de tocar la base.
// Devuelve la lista completa de violaciones: una sola alcanza para rechazar
// el lote entero.
func validateSheet(entityName, mode string, sheet *xlsx.Sheet) []dto.RowError {
	var out []dto.RowError
	for _, row := range sheet.Rows {
		switch entityName {
		case EntityProducts:
			out = append(out, validateProductRow(row, mode)...)
		case EntityCustomers:
			out = append(out, validatePartyRow(row, mode, true)...)
		case EntitySuppliers:
			out = append(out, validatePartyRow(row, mode, false)...)
		case EntityCategories:
			out = append(out, validateCategoryRow(row, mode)...)
		case EntityOrders:
			out = append(out, validateOrderRow(row, mode)...)
		case EntityPurchases:
			out = append(out, validatePurchaseRow(row, mode)...)
		}
	}
	return out
}

func rowErr(row xlsx.Row, col, msg string) dto.RowError {
	return dto.RowError{Row: row.Number, Column: col, Message: msg}
}

func requireCell(row xlsx.Row, col string, out *[]dto.RowError) string {
	v := row.Get(col)
	if v == "" {
		*out = append(*out, rowErr(row, col, "campo requerido"))
	}
	return v
}

func checkDecimal(row xlsx.Row, col string, required bool, out *[]dto.RowError) {
	v := row.Get(col)
	if v == "" {
		if required {
			*out = append(*out, rowErr(row, col, "campo requerido"))
		}
		return
	}
	if _, err := parseDecimalCell(v); err != nil {
		*out = append(*out, rowErr(row, col, err.Error()))
	}
}

func checkInt(row xlsx.Row, col string, required bool, out *[]dto.RowError) {
	v := row.Get(col)
	if v == "" {
		if required {
			*out = append(*out, rowErr(row, col, "campo requerido"))
		}
		return
	}
	n, err := parseIntCell(v)
	if err != nil {
		*out = append(*out, rowErr(row, col, err.Error()))
		return
	}
	if n < 0 {
		*out = append(*out, rowErr(row, col, "no puede ser negativo"))
	}
}

func validateProductRow(row xlsx.Row, mode string) []dto.RowError {
	var out []dto.RowError
	if mode == ModeUpdate {
		requireCell(row, colID, &out)
		checkDecimal(row, colSalePrice, false, &out)
		checkDecimal(row, colBuyPrice, false, &out)
		checkInt(row, colStock, false, &out)
	} else {
		requireCell(row, colName, &out)
		checkDecimal(row, colSalePrice, true, &out)
		checkDecimal(row, colBuyPrice, true, &out)
		checkInt(row, colStock, true, &out)
	}
	if v := row.Get(colStatus); v != "" && entity.ParseProductStatus(v) == "" {
		out = append(out, rowErr(row, colStatus, fmt.Sprintf("estado desconocido %q", v)))
	}
	return out
}

// validatePartyRow valida clientes y proveedores, que comparten planilla.
// El email es obligatorio sólo para clientes.
func validatePartyRow(row xlsx.Row, mode string, emailRequired bool) []dto.RowError {
	var out []dto.RowError
	if mode == ModeUpdate {
		requireCell(row, colID, &out)
	} else {
		requireCell(row, colName, &out)
		if emailRequired {
			requireCell(row, colEmail, &out)
		}
	}
	if v := row.Get(colEmail); v != "" && !validEmail(v) {
		out = append(out, rowErr(row, colEmail, fmt.Sprintf("email inválido %q", v)))
	}
	return out
}

func validateCategoryRow(row xlsx.Row, mode string) []dto.RowError {
	var out []dto.RowError
	if mode == ModeUpdate {
		requireCell(row, colID, &out)
	} else {
		requireCell(row, colName, &out)
	}
	return out
}

func validateOrderRow(row xlsx.Row, mode string) []dto.RowError {
	var out []dto.RowError
	if mode == ModeUpdate {
		requireCell(row, colID, &out)
	} else {
		requireCell(row, colCustomer, &out)
	}
	if v := requireCell(row, colStatus, &out); v != "" && entity.ParseOrderStatus(v) == "" {
		out = append(out, rowErr(row, colStatus, fmt.Sprintf("estado desconocido %q", v)))
	}
	if v := requireCell(row, colDate, &out); v != "" {
		if _, err := parseDateCell(v); err != nil {
			out = append(out, rowErr(row, colDate, err.Error()))
		}
	}
	out = append(out, validateItemLists(row)...)
	return out
}

func validatePurchaseRow(row xlsx.Row, mode string) []dto.RowError {
	var out []dto.RowError
	if mode == ModeUpdate {
		requireCell(row, colID, &out)
	} else {
		requireCell(row, colSupplier, &out)
	}
	if v := requireCell(row, colDate, &out); v != "" {
		if _, err := parseDateCell(v); err != nil {
			out = append(out, rowErr(row, colDate, err.Error()))
		}
	}
	out = append(out, validateItemLists(row)...)
	return out
}

// validateItemLists valida las tres columnas paralelas Productos/Cantidades/
// Precios: misma longitud, cantidades enteras positivas y precios numéricos.
func validateItemLists(row xlsx.Row) []dto.RowError {
	var out []dto.RowError
	products := splitList(row.Get(colProducts))
	quantities := splitList(row.Get(colQuantities))
	prices := splitList(row.Get(colPrices))

	if len(products) == 0 {
		out = append(out, rowErr(row, colProducts, "se requiere al menos un producto"))
		return out
	}
	if len(quantities) != len(products) {
		out = append(out, rowErr(row, colQuantities,
			fmt.Sprintf("se esperaban %d valores y hay %d", len(products), len(quantities))))
	}
	if len(prices) != len(products) {
		out = append(out, rowErr(row, colPrices,
			fmt.Sprintf("se esperaban %d valores y hay %d", len(products), len(prices))))
	}
	for _, q := range quantities {
		n, err := parseIntCell(q)
		if err != nil {
			out = append(out, rowErr(row, colQuantities, err.Error()))
			continue
		}
		if n <= 0 {
			out = append(out, rowErr(row, colQuantities, "la cantidad debe ser positiva"))
		}
	}
	for _, p := range prices {
		if _, err := parseDecimalCell(p); err != nil {
			out = append(out, rowErr(row, colPrices, err.Error()))
		}
	}
	return out
}

package excel

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// reconcileProductsImport procesa una planilla de productos en modo import.
// Las filas se agrupan por proveedor (columna Proveedor, con valor por defecto
// si viene vacía) y cada grupo genera UNA compra con un ítem por fila: así el
// stock cargado queda trazado como intake y los totales de compras cierran.
// Un producto que ya existe por nombre se mergea sumando el stock importado.
func reconcileProductsImport(repos ports.TxRepos, tenantID, userID string, rows []xlsx.Row, report *dto.ImportReport) error {
	groups := map[string][]xlsx.Row{}
	var supplierOrder []string
	for _, row := range rows {
		name := row.Get(colSupplier)
		if name == "" {
			name = DefaultSupplierName
		}
		if _, ok := groups[name]; !ok {
			supplierOrder = append(supplierOrder, name)
		}
		groups[name] = append(groups[name], row)
	}

	for _, supplierName := range supplierOrder {
		supplier, err := findOrCreateSupplier(repos.Suppliers, tenantID, supplierName)
		if err != nil {
			return err
		}

		now := time.Now()
		purchase := &entity.Purchase{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			SupplierID: supplier.ID,
			UserID:     userID,
			Date:       now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		for _, row := range groups[supplierName] {
			buyPrice, _ := parseDecimalCell(row.Get(colBuyPrice))
			stock, _ := parseIntCell(row.Get(colStock))

			product, action, err := upsertImportedProduct(repos, tenantID, row, stock)
			if err != nil {
				return err
			}

			catIDs, err := resolveCategoryNames(repos.Categories, tenantID, splitList(row.Get(colCategories)))
			if err != nil {
				return err
			}
			if err := repos.Products.ReplaceCategories(product.ID, catIDs); err != nil {
				return err
			}

			if stock > 0 {
				purchase.Items = append(purchase.Items, entity.PurchaseItem{
					ID:         uuid.New().String(),
					PurchaseID: purchase.ID,
					ProductID:  product.ID,
					Quantity:   stock,
					Price:      buyPrice,
				})
			}
			report.Successes = append(report.Successes, dto.RowSuccess{
				Row: row.Number, ID: product.ID, Name: product.Name, Action: action,
			})
		}

		if len(purchase.Items) > 0 {
			purchase.ComputeTotal()
			if err := repos.Purchases.Create(purchase); err != nil {
				return err
			}
		}
	}
	return nil
}

// upsertImportedProduct crea el producto o lo mergea si ya existe por nombre.
// El merge es aditivo en stock: importar dos veces la misma planilla duplica
// las unidades, igual que recibir dos compras iguales.
func upsertImportedProduct(repos ports.TxRepos, tenantID string, row xlsx.Row, stock int) (*entity.Product, string, error) {
	name := row.Get(colName)
	salePrice, _ := parseDecimalCell(row.Get(colSalePrice))
	status := entity.ParseProductStatus(row.Get(colStatus))

	product, err := repos.Products.GetByName(tenantID, name)
	if err != nil {
		return nil, "", err
	}
	if product != nil {
		product.Stock += stock
		product.Price = salePrice
		if v := row.Get(colDescription); v != "" {
			product.Description = v
		}
		if v := row.Get(colSKU); v != "" {
			product.SKU = v
		}
		if v := row.Get(colImage); v != "" {
			product.ImageURL = v
		}
		if status != "" {
			product.Status = status
		}
		product.RefreshStatus()
		product.UpdatedAt = time.Now()
		if err := repos.Products.Update(product); err != nil {
			return nil, "", err
		}
		return product, "merged", nil
	}

	now := time.Now()
	product = &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Description: row.Get(colDescription),
		Price:       salePrice,
		Stock:       stock,
		SKU:         row.Get(colSKU),
		ImageURL:    row.Get(colImage),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.RefreshStatus()
	if err := repos.Products.Create(product); err != nil {
		return nil, "", err
	}
	return product, "created", nil
}

// reconcileProductsUpdate procesa la planilla en modo update: cada fila refiere
// un producto existente por ID y pisa sólo los campos presentes. La columna de
// categorías en este modo se llama Categoria (en singular, como la genera el
// export histórico) y reemplaza la asociación completa. Al final se eliminan
// las categorías del tenant que quedaron sin productos.
func reconcileProductsUpdate(repos ports.TxRepos, tenantID string, rows []xlsx.Row, report *dto.ImportReport) error {
	touched := false
	for _, row := range rows {
		product, err := repos.Products.GetByID(tenantID, row.Get(colID))
		if err != nil {
			return err
		}
		if product == nil {
			report.Errors = append(report.Errors, dto.RowError{
				Row: row.Number, Column: colID, Message: "producto no encontrado",
			})
			continue
		}

		if v := row.Get(colName); v != "" {
			product.Name = v
		}
		if v := row.Get(colDescription); v != "" {
			product.Description = v
		}
		if v := row.Get(colSalePrice); v != "" {
			product.Price, _ = parseDecimalCell(v)
		}
		if v := row.Get(colSKU); v != "" {
			product.SKU = v
		}
		if v := row.Get(colImage); v != "" {
			product.ImageURL = v
		}
		if v := row.Get(colStock); v != "" {
			product.Stock, _ = parseIntCell(v)
		}
		if v := entity.ParseProductStatus(row.Get(colStatus)); v != "" {
			product.Status = v
		}
		product.RefreshStatus()
		product.UpdatedAt = time.Now()
		if err := repos.Products.Update(product); err != nil {
			return err
		}

		if names := splitList(row.Get(colCategory)); len(names) > 0 {
			catIDs, err := resolveCategoryNames(repos.Categories, tenantID, names)
			if err != nil {
				return err
			}
			if err := repos.Products.ReplaceCategories(product.ID, catIDs); err != nil {
				return err
			}
			touched = true
		}

		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: product.ID, Name: product.Name, Action: "updated",
		})
	}

	if touched {
		if _, err := repos.Categories.DeleteUnused(tenantID); err != nil {
			return err
		}
	}
	return nil
}

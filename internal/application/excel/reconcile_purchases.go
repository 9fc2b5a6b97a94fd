package excel

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	xlsx "github.com/jhoicas/comercio-api/internal/infrastructure/excel"
)

// reconcilePurchases procesa planillas de compras. Proveedor y productos se
// crean si no existen; cada línea suma stock. En modo update primero se resta
// lo que la versión anterior había sumado: si ya se vendió, la fila falla.
func reconcilePurchases(repos ports.TxRepos, tenantID, importerID, mode string, rows []xlsx.Row, report *dto.ImportReport) error {
	for _, row := range rows {
		var purchase *entity.Purchase
		action := "created"

		if mode == ModeUpdate {
			existing, err := repos.Purchases.GetByID(tenantID, row.Get(colID))
			if err != nil {
				return err
			}
			if existing == nil {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colID, Message: "compra no encontrada",
				})
				continue
			}
			failed, err := revertPurchaseItems(repos, tenantID, existing.Items, row, report)
			if err != nil {
				return err
			}
			if failed {
				continue
			}
			purchase = existing
			action = "updated"
		} else {
			now := time.Now()
			purchase = &entity.Purchase{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				UserID:    importerID,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		if name := row.Get(colSupplier); name != "" {
			supplier, err := findOrCreateSupplier(repos.Suppliers, tenantID, name)
			if err != nil {
				return err
			}
			purchase.SupplierID = supplier.ID
		}
		purchase.Date, _ = parseDateCell(row.Get(colDate))

		items, err := buildPurchaseItems(repos, tenantID, purchase.ID, row)
		if err != nil {
			return err
		}
		purchase.Items = items
		purchase.ComputeTotal()

		if mode == ModeUpdate {
			if err := repos.Purchases.ReplaceItems(purchase.ID, purchase.Items); err != nil {
				return err
			}
			purchase.UpdatedAt = time.Now()
			if err := repos.Purchases.Update(purchase); err != nil {
				return err
			}
		} else {
			if err := repos.Purchases.Create(purchase); err != nil {
				return err
			}
		}
		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: purchase.ID, Action: action,
		})
	}
	return nil
}

// buildPurchaseItems resuelve cada producto (find-or-create) y suma el stock
// comprado. Un producto nuevo nace con el stock y el precio de su línea.
func buildPurchaseItems(repos ports.TxRepos, tenantID, purchaseID string, row xlsx.Row) ([]entity.PurchaseItem, error) {
	names := splitList(row.Get(colProducts))
	quantities := splitList(row.Get(colQuantities))
	prices := splitList(row.Get(colPrices))

	items := make([]entity.PurchaseItem, 0, len(names))
	for i, name := range names {
		qty, _ := parseIntCell(quantities[i])
		price, _ := parseDecimalCell(prices[i])

		product, err := repos.Products.GetByName(tenantID, name)
		if err != nil {
			return nil, err
		}
		if product != nil {
			if err := repos.Products.IncrementStock(tenantID, product.ID, qty); err != nil {
				return nil, err
			}
			if err := refreshProductStatus(repos.Products, tenantID, product.ID); err != nil {
				return nil, err
			}
		} else {
			now := time.Now()
			product = &entity.Product{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				Name:      name,
				Price:     price,
				Stock:     qty,
				CreatedAt: now,
				UpdatedAt: now,
			}
			product.RefreshStatus()
			if err := repos.Products.Create(product); err != nil {
				return nil, err
			}
		}
		items = append(items, entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  product.ID,
			Quantity:   qty,
			Price:      price,
		})
	}
	return items, nil
}

// revertPurchaseItems resta las cantidades que la compra había sumado usando
// el decremento condicional: si el stock ya se vendió, la fila falla en lugar
// de dejar inventario negativo.
func revertPurchaseItems(repos ports.TxRepos, tenantID string, items []entity.PurchaseItem, row xlsx.Row, report *dto.ImportReport) (bool, error) {
	for _, it := range items {
		if err := repos.Products.DecrementStock(tenantID, it.ProductID, it.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colID,
					Message: fmt.Sprintf("no se puede revertir la compra: el stock del producto %s ya se vendió", it.ProductID),
				})
				return true, nil
			}
			return false, err
		}
		if err := refreshProductStatus(repos.Products, tenantID, it.ProductID); err != nil {
			return false, err
		}
	}
	return false, nil
}

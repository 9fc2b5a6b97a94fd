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

// reconcileOrders procesa planillas de ventas. El cliente se crea si no existe
// (con email de relleno); el usuario es opcional pero si viene debe existir.
// Las columnas Productos/Cantidades/Precios son listas paralelas alineadas por
// índice; cada línea descuenta stock con el decremento condicional.
func reconcileOrders(repos ports.TxRepos, tenantID, importerID, mode string, rows []xlsx.Row, report *dto.ImportReport) error {
	for _, row := range rows {
		var order *entity.Order
		action := "created"

		if mode == ModeUpdate {
			existing, err := repos.Orders.GetByID(tenantID, row.Get(colID))
			if err != nil {
				return err
			}
			if existing == nil {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colID, Message: "venta no encontrada",
				})
				continue
			}
			// Devolver el stock de la versión anterior antes de aplicar la nueva.
			if err := restoreOrderItems(repos, tenantID, existing.Items); err != nil {
				return err
			}
			order = existing
			action = "updated"
		} else {
			now := time.Now()
			order = &entity.Order{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		if name := row.Get(colCustomer); name != "" {
			customer, err := findOrCreateCustomer(repos.Customers, tenantID, name)
			if err != nil {
				return err
			}
			order.CustomerID = customer.ID
		}

		if name := row.Get(colUser); name != "" {
			user, err := repos.Users.GetByNameAndTenant(tenantID, name)
			if err != nil {
				return err
			}
			if user == nil {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colUser,
					Message: fmt.Sprintf("usuario %q no encontrado", name),
				})
				continue
			}
			order.UserID = user.ID
		} else if order.UserID == "" {
			order.UserID = importerID
		}

		order.Status = entity.ParseOrderStatus(row.Get(colStatus))
		order.Date, _ = parseDateCell(row.Get(colDate))

		items, rowFailed, err := buildOrderItems(repos, tenantID, order.ID, row, report)
		if err != nil {
			return err
		}
		if rowFailed {
			continue
		}
		order.Items = items
		order.ComputeTotal()

		if mode == ModeUpdate {
			if err := repos.Orders.ReplaceItems(order.ID, order.Items); err != nil {
				return err
			}
			order.UpdatedAt = time.Now()
			if err := repos.Orders.Update(order); err != nil {
				return err
			}
		} else {
			if err := repos.Orders.Create(order); err != nil {
				return err
			}
		}
		report.Successes = append(report.Successes, dto.RowSuccess{
			Row: row.Number, ID: order.ID, Action: action,
		})
	}
	return nil
}

// buildOrderItems resuelve las listas paralelas y descuenta el stock. Los
// productos de una venta deben existir; falta de stock o producto inexistente
// son errores de fila.
func buildOrderItems(repos ports.TxRepos, tenantID, orderID string, row xlsx.Row, report *dto.ImportReport) ([]entity.OrderItem, bool, error) {
	names := splitList(row.Get(colProducts))
	quantities := splitList(row.Get(colQuantities))
	prices := splitList(row.Get(colPrices))

	// Primero resolver todos los productos: si alguno falta la fila falla
	// sin haber movido stock.
	products := make([]*entity.Product, len(names))
	for i, name := range names {
		product, err := repos.Products.GetByName(tenantID, name)
		if err != nil {
			return nil, false, err
		}
		if product == nil {
			report.Errors = append(report.Errors, dto.RowError{
				Row: row.Number, Column: colProducts,
				Message: fmt.Sprintf("producto %q no encontrado", name),
			})
			return nil, true, nil
		}
		products[i] = product
	}

	items := make([]entity.OrderItem, 0, len(names))
	for i, product := range products {
		qty, _ := parseIntCell(quantities[i])
		price, _ := parseDecimalCell(prices[i])

		if err := repos.Products.DecrementStock(tenantID, product.ID, qty); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				report.Errors = append(report.Errors, dto.RowError{
					Row: row.Number, Column: colQuantities,
					Message: fmt.Sprintf("stock insuficiente para %q", product.Name),
				})
				return nil, true, nil
			}
			return nil, false, err
		}
		if err := refreshProductStatus(repos.Products, tenantID, product.ID); err != nil {
			return nil, false, err
		}
		items = append(items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  qty,
			Price:     price,
		})
	}
	return items, false, nil
}

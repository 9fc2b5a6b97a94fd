package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// Service ventas transaccionales. Toda mutación (crear, editar, borrar) corre
// dentro de una transacción: el descuento de stock es atómico y condicional,
// y cualquier falla revierte la operación completa.
type Service struct {
	orders repository.OrderRepository
	tx     ports.TxRunner
	log    *logger.Logger
}

// NewService construye el servicio de ventas.
func NewService(orders repository.OrderRepository, tx ports.TxRunner, log *logger.Logger) *Service {
	return &Service{orders: orders, tx: tx, log: log}
}

// Create registra una venta. El cliente se resuelve por ID si viene; si no,
// por nombre y debe existir. Cada línea descuenta stock de forma condicional;
// si algún producto no alcanza, la venta entera se revierte.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		customer, err := resolveCustomer(repos.Customers, tenantID, in.CustomerID, in.CustomerName)
		if err != nil {
			return err
		}

		now := time.Now()
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		status := in.Status
		if status == "" {
			status = entity.OrderPending
		}
		order = &entity.Order{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			CustomerID: customer.ID,
			UserID:     userID,
			Status:     status,
			Date:       date,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		order.Items, err = applyOrderItems(repos, tenantID, order.ID, in.Items)
		if err != nil {
			return err
		}
		order.ComputeTotal()
		return repos.Orders.Create(order)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", order.ID).Str("tenant_id", tenantID).Msg("venta registrada")
	return toOrderResponse(order), nil
}

// Update reemplaza la venta completa: primero restaura el stock descontado por
// la versión anterior y recién entonces aplica los ítems nuevos. Todo o nada.
func (s *Service) Update(ctx context.Context, tenantID, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := s.tx.Run(ctx, func(repos ports.TxRepos) error {
		var err error
		order, err = repos.Orders.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		if err := restoreOrderStock(repos, tenantID, order.Items); err != nil {
			return err
		}

		if in.CustomerID != "" || strings.TrimSpace(in.CustomerName) != "" {
			customer, err := resolveCustomer(repos.Customers, tenantID, in.CustomerID, in.CustomerName)
			if err != nil {
				return err
			}
			order.CustomerID = customer.ID
		}
		if in.Status != "" {
			order.Status = in.Status
		}
		if in.Date != nil {
			order.Date = *in.Date
		}

		order.Items, err = applyOrderItems(repos, tenantID, order.ID, in.Items)
		if err != nil {
			return err
		}
		if err := repos.Orders.ReplaceItems(order.ID, order.Items); err != nil {
			return err
		}
		order.ComputeTotal()
		order.UpdatedAt = time.Now()
		return repos.Orders.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Delete elimina la venta (soft delete) devolviendo el stock de sus líneas.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.tx.Run(ctx, func(repos ports.TxRepos) error {
		order, err := repos.Orders.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := restoreOrderStock(repos, tenantID, order.Items); err != nil {
			return err
		}
		return repos.Orders.Delete(tenantID, id)
	})
}

// GetByID obtiene una venta del tenant.
func (s *Service) GetByID(tenantID, id string) (*dto.OrderResponse, error) {
	order, err := s.orders.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista ventas del tenant con paginación.
func (s *Service) List(tenantID string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	params := repository.ListParams{
		Page: page.Page, Limit: page.Limit, Search: page.Search,
		OrderBy: page.OrderBy, Order: page.Order,
	}
	list, total, err := s.orders.ListByTenant(tenantID, params)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: params.Page, Limit: params.PageSize(), Total: total},
	}, nil
}

// resolveCustomer aplica la precedencia ID sobre nombre. Para ventas el
// cliente debe existir: nunca se crea desde una orden.
func resolveCustomer(customers repository.CustomerRepository, tenantID, customerID, customerName string) (*entity.Customer, error) {
	if customerID != "" {
		c, err := customers.GetByID(tenantID, customerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		return c, nil
	}
	name := strings.TrimSpace(customerName)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := customers.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// applyOrderItems descuenta stock línea por línea y materializa los ítems.
// El precio se congela: el de la línea si vino, el del producto si no.
func applyOrderItems(repos ports.TxRepos, tenantID, orderID string, in []dto.OrderItemRequest) ([]entity.OrderItem, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.OrderItem, 0, len(in))
	for _, line := range in {
		product, err := resolveOrderProduct(repos.Products, tenantID, line)
		if err != nil {
			return nil, err
		}
		if err := repos.Products.DecrementStock(tenantID, product.ID, line.Quantity); err != nil {
			return nil, err
		}
		if err := refreshProductStatus(repos.Products, tenantID, product.ID); err != nil {
			return nil, err
		}
		price := product.Price
		if line.Price != nil {
			price = *line.Price
		}
		items = append(items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}
	return items, nil
}

// resolveOrderProduct aplica la precedencia ID sobre nombre a una línea de
// venta. Igual que el cliente, el producto debe existir: vender nunca crea
// productos.
func resolveOrderProduct(products repository.ProductRepository, tenantID string, line dto.OrderItemRequest) (*entity.Product, error) {
	if line.ProductID != "" {
		p, err := products.GetByID(tenantID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		return p, nil
	}
	name := strings.TrimSpace(line.ProductName)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := products.GetByName(tenantID, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// restoreOrderStock devuelve al inventario las cantidades de los ítems dados.
func restoreOrderStock(repos ports.TxRepos, tenantID string, items []entity.OrderItem) error {
	for _, it := range items {
		if err := repos.Products.IncrementStock(tenantID, it.ProductID, it.Quantity); err != nil {
			return err
		}
		if err := refreshProductStatus(repos.Products, tenantID, it.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// refreshProductStatus relee el producto y recalcula su estado derivado.
// El estado nunca se deriva implícitamente en SQL.
func refreshProductStatus(products repository.ProductRepository, tenantID, productID string) error {
	product, err := products.GetByID(tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	before := product.Status
	product.RefreshStatus()
	if product.Status == before {
		return nil
	}
	product.UpdatedAt = time.Now()
	return products.Update(product)
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return &dto.OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		UserID:     o.UserID,
		Status:     o.Status,
		Total:      o.Total,
		Date:       o.Date,
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

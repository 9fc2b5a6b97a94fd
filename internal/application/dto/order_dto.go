package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de venta. El producto se resuelve por ID si viene;
// si no, por nombre y debe existir (una venta nunca crea productos). Price
// opcional: si es nil se congela el precio de venta actual del producto.
type OrderItemRequest struct {
	ProductID   string           `json:"productId" validate:"omitempty,uuid4"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity" validate:"required,min=1"`
	Price       *decimal.Decimal `json:"price"`
}

// CreateOrderRequest entrada para crear una venta. El cliente se resuelve por
// ID si viene; si no, por nombre (debe existir). El total siempre se recalcula
// en el servidor.
type CreateOrderRequest struct {
	CustomerID   string             `json:"customerId" validate:"omitempty,uuid4"`
	CustomerName string             `json:"customerName"`
	Status       string             `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Date         *time.Time         `json:"date"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest reemplaza por completo los ítems de la venta: primero se
// restaura el stock de la versión anterior y luego se aplica la nueva.
type UpdateOrderRequest struct {
	CustomerID   string             `json:"customerId" validate:"omitempty,uuid4"`
	CustomerName string             `json:"customerName"`
	Status       string             `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Date         *time.Time         `json:"date"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse línea de venta en respuestas.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderResponse salida de una venta.
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customerId"`
	UserID     string              `json:"userId"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Date       time.Time           `json:"date"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// OrderListResponse lista paginada de ventas.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

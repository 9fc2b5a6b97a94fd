package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra. El producto se resuelve por ID si
// viene; si no, por nombre (se crea si no existe, con el stock comprado).
type PurchaseItemRequest struct {
	ProductID   string          `json:"productId" validate:"omitempty,uuid4"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

// CreatePurchaseRequest entrada para registrar una compra. El proveedor se
// resuelve por ID si viene; si no, por nombre (se crea si no existe).
type CreatePurchaseRequest struct {
	SupplierID   string                `json:"supplierId" validate:"omitempty,uuid4"`
	SupplierName string                `json:"supplierName"`
	Date         *time.Time            `json:"date"`
	Items        []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseRequest reemplaza los ítems de la compra: primero se resta el
// stock sumado por la versión anterior y luego se aplica la nueva.
type UpdatePurchaseRequest struct {
	SupplierID   string                `json:"supplierId" validate:"omitempty,uuid4"`
	SupplierName string                `json:"supplierName"`
	Date         *time.Time            `json:"date"`
	Items        []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplierId"`
	UserID     string                 `json:"userId"`
	Total      decimal.Decimal        `json:"total"`
	Date       time.Time              `json:"date"`
	Items      []PurchaseItemResponse `json:"items"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRef referencia a categoría por ID o por nombre. Si ambos vienen,
// gana el ID; si solo viene el nombre y no existe, se crea la categoría.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	SKU         string          `json:"sku" validate:"max=100"`
	ImageURL    string          `json:"imageUrl"`
	Status      string          `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
	Categories  []CategoryRef   `json:"categories"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Categories, si viene, reemplaza el conjunto completo.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	ImageURL    *string          `json:"imageUrl"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
	Categories  []CategoryRef    `json:"categories"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Stock       int                `json:"stock"`
	SKU         string             `json:"sku"`
	ImageURL    string             `json:"imageUrl"`
	Status      string             `json:"status"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

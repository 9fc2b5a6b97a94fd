package dto

import (
	"encoding/json"
	"time"
)

// CreateTenantRequest entrada para crear un tenant (solo superadmin).
type CreateTenantRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Domain       string `json:"domain" validate:"required,min=1,max=100"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	Phone        string `json:"phone"`
	Plan         string `json:"plan" validate:"omitempty,oneof=free monthly annual"`
}

// UpdateTenantRequest entrada para actualizar un tenant (campos opcionales).
type UpdateTenantRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Domain       *string `json:"domain" validate:"omitempty,min=1,max=100"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	Plan         *string `json:"plan" validate:"omitempty,oneof=free monthly annual"`
}

// UpdateCustomizationRequest blob de personalización del front (JSON libre).
type UpdateCustomizationRequest struct {
	Customization json.RawMessage `json:"customization" validate:"required"`
}

// RenewSubscriptionRequest extiende la suscripción del tenant.
type RenewSubscriptionRequest struct {
	Plan   string `json:"plan" validate:"required,oneof=free monthly annual"`
	Months int    `json:"months" validate:"required,min=1,max=36"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Domain            string          `json:"domain"`
	ContactEmail      string          `json:"contactEmail"`
	Phone             string          `json:"phone"`
	Customization     json.RawMessage `json:"customization"`
	Plan              string          `json:"plan"`
	SubscriptionStart time.Time       `json:"subscriptionStart"`
	SubscriptionEnd   *time.Time      `json:"subscriptionEnd"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// TenantListResponse lista paginada de tenants.
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

package entity

import (
	"encoding/json"
	"time"
)

// Planes de suscripción disponibles.
const (
	PlanFree    = "free"
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

// Tenant representa una cuenta aislada: todos los datos del sistema se particionan por TenantID.
// Nunca se elimina de forma definitiva; la baja es siempre soft delete.
type Tenant struct {
	ID                string
	Name              string
	Domain            string // subdominio o dominio personalizado
	ContactEmail      string
	Phone             string
	Customization     json.RawMessage // colores, logo y demás ajustes del front
	Plan              string
	SubscriptionStart time.Time
	SubscriptionEnd   *time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// SubscriptionExpired indica si la ventana de suscripción ya venció.
func (t *Tenant) SubscriptionExpired(now time.Time) bool {
	return t.SubscriptionEnd != nil && t.SubscriptionEnd.Before(now)
}

// DefaultCustomization blob inicial que el front espera al crear una cuenta.
func DefaultCustomization() json.RawMessage {
	return json.RawMessage(`{
		"backgroundColor": "#000000",
		"backgroundColor2": "#FFFFFF",
		"designType": "transparent",
		"gradientType": "double",
		"iconColor": "#0000FF",
		"logoUrl": "",
		"primaryColor": "#0000FF",
		"secondaryColor": "#FFFFFF"
	}`)
}

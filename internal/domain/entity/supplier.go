package entity

import "time"

// Supplier representa un proveedor del tenant.
type Supplier struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     string
	City      string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

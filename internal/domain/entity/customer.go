package entity

import "time"

// Customer representa un cliente del tenant.
type Customer struct {
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

package entity

import "time"

// Category agrupa productos de un tenant (relación muchos-a-muchos).
type Category struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

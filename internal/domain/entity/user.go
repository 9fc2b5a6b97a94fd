package entity

import "time"

// Roles de usuario. El orden importa para el RBAC: superadmin > admin > supervisor > cashier.
const (
	RoleSuperadmin = "superadmin" // gestiona todos los tenants
	RoleAdmin      = "admin"      // gestiona usuarios y operaciones de su tenant
	RoleSupervisor = "supervisor" // supervisa operaciones, sin gestión de usuarios
	RoleCashier    = "cashier"    // ventas y stock, sin administración
)

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleSupervisor, RoleCashier:
		return true
	}
	return false
}

// User representa un usuario del sistema. TenantID es nil para el superadmin
// (no pertenece a ningún tenant).
type User struct {
	ID           string
	TenantID     *string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// BelongsTo indica si el usuario pertenece al tenant dado.
func (u *User) BelongsTo(tenantID string) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}

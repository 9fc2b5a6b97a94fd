package dto

// SignupRequest registro de una cuenta nueva: crea el tenant (inactivo hasta
// aprobación) y su usuario admin en una sola transacción.
type SignupRequest struct {
	TenantName   string `json:"tenantName" validate:"required,min=1,max=200"`
	Domain       string `json:"domain" validate:"required,min=1,max=100"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	Phone        string `json:"phone"`
	AdminName    string `json:"adminName" validate:"required,min=1,max=200"`
	AdminEmail   string `json:"adminEmail" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AuthResponse token emitido más los datos básicos del usuario.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

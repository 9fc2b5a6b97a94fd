package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/application/usecase"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/jwt"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// JWTConfig parámetros de emisión de tokens.
type JWTConfig struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// UseCase autenticación y alta de cuentas.
type UseCase struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	tx      ports.TxRunner
	jwtCfg  JWTConfig
	log     *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(users repository.UserRepository, tenants repository.TenantRepository, tx ports.TxRunner, jwtCfg JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{users: users, tenants: tenants, tx: tx, jwtCfg: jwtCfg, log: log}
}

// Signup registra una cuenta nueva: el tenant nace inactivo (pendiente de
// aprobación del superadmin) y su usuario admin se crea en la misma
// transacción. Si cualquiera de los dos falla, no queda nada a medias.
func (uc *UseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.TenantResponse, error) {
	dom := strings.TrimSpace(in.Domain)
	existing, err := uc.tenants.GetByDomain(dom)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	adminEmail := strings.ToLower(strings.TrimSpace(in.AdminEmail))
	if u, err := uc.users.GetByEmail(adminEmail); err != nil {
		return nil, err
	} else if u != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &entity.Tenant{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(in.TenantName),
		Domain:            dom,
		ContactEmail:      in.ContactEmail,
		Phone:             in.Phone,
		Customization:     entity.DefaultCustomization(),
		Plan:              entity.PlanFree,
		SubscriptionStart: now,
		IsActive:          false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     &tenant.ID,
		Name:         strings.TrimSpace(in.AdminName),
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Tenants.Create(tenant); err != nil {
			return err
		}
		return repos.Users.Create(admin)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenant.ID).Str("domain", tenant.Domain).Msg("cuenta registrada, pendiente de aprobación")
	return &dto.TenantResponse{
		ID:                tenant.ID,
		Name:              tenant.Name,
		Domain:            tenant.Domain,
		ContactEmail:      tenant.ContactEmail,
		Phone:             tenant.Phone,
		Customization:     tenant.Customization,
		Plan:              tenant.Plan,
		SubscriptionStart: tenant.SubscriptionStart,
		IsActive:          tenant.IsActive,
		CreatedAt:         tenant.CreatedAt,
		UpdatedAt:         tenant.UpdatedAt,
	}, nil
}

// Login valida credenciales y emite el token. Un usuario de tenant inactivo
// (o con suscripción vencida) no puede entrar; el superadmin no tiene tenant.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	var tenantID string
	if user.TenantID != nil {
		tenantID = *user.TenantID
		tenant, err := uc.tenants.GetByID(tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil || !tenant.IsActive || tenant.SubscriptionExpired(time.Now()) {
			return nil, domain.ErrTenantInactive
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, tenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *usecase.ToUserResponse(user)}, nil
}

// ChangePassword cambia la contraseña del usuario autenticado verificando la actual.
func (uc *UseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.users.Update(user)
}

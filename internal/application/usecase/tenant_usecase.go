package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// TenantUseCase casos de uso de administración de tenants (solo superadmin,
// salvo customization que también puede tocar el admin del propio tenant).
type TenantUseCase struct {
	repo repository.TenantRepository
	log  *logger.Logger
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(repo repository.TenantRepository, log *logger.Logger) *TenantUseCase {
	return &TenantUseCase{repo: repo, log: log}
}

// Create crea un tenant activo (alta directa del superadmin, no signup).
func (uc *TenantUseCase) Create(in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	existing, err := uc.repo.GetByDomain(strings.TrimSpace(in.Domain))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanFree
	}
	now := time.Now()
	tenant := &entity.Tenant{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(in.Name),
		Domain:            strings.TrimSpace(in.Domain),
		ContactEmail:      in.ContactEmail,
		Phone:             in.Phone,
		Customization:     entity.DefaultCustomization(),
		Plan:              plan,
		SubscriptionStart: now,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// GetByID obtiene un tenant.
func (uc *TenantUseCase) GetByID(id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	return toTenantResponse(tenant), nil
}

// Update actualiza los datos generales del tenant.
func (uc *TenantUseCase) Update(id string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	if in.Name != nil {
		tenant.Name = strings.TrimSpace(*in.Name)
	}
	if in.Domain != nil {
		tenant.Domain = strings.TrimSpace(*in.Domain)
	}
	if in.ContactEmail != nil {
		tenant.ContactEmail = *in.ContactEmail
	}
	if in.Phone != nil {
		tenant.Phone = *in.Phone
	}
	if in.Plan != nil {
		tenant.Plan = *in.Plan
	}
	tenant.UpdatedAt = time.Now()
	if err := uc.repo.Update(tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// UpdateCustomization reemplaza el blob de personalización del front.
func (uc *TenantUseCase) UpdateCustomization(id string, in dto.UpdateCustomizationRequest) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	tenant.Customization = in.Customization
	tenant.UpdatedAt = time.Now()
	if err := uc.repo.Update(tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// ToggleActive invierte el estado activo del tenant (aprobación o suspensión).
func (uc *TenantUseCase) ToggleActive(id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	tenant.IsActive = !tenant.IsActive
	tenant.UpdatedAt = time.Now()
	if err := uc.repo.Update(tenant); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenant.ID).Bool("is_active", tenant.IsActive).Msg("tenant activo cambiado")
	return toTenantResponse(tenant), nil
}

// RenewSubscription extiende la suscripción desde hoy (o desde el vencimiento
// vigente si aún no pasó) y reactiva el tenant.
func (uc *TenantUseCase) RenewSubscription(id string, in dto.RenewSubscriptionRequest) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, nil
	}
	now := time.Now()
	base := now
	if tenant.SubscriptionEnd != nil && tenant.SubscriptionEnd.After(now) {
		base = *tenant.SubscriptionEnd
	}
	end := base.AddDate(0, in.Months, 0)
	tenant.Plan = in.Plan
	tenant.SubscriptionEnd = &end
	tenant.IsActive = true
	tenant.UpdatedAt = now
	if err := uc.repo.Update(tenant); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenant.ID).Str("plan", in.Plan).Time("subscription_end", end).Msg("suscripción renovada")
	return toTenantResponse(tenant), nil
}

// List lista tenants con paginación.
func (uc *TenantUseCase) List(page dto.PageRequest) (*dto.TenantListResponse, error) {
	params := toListParams(page)
	list, total, err := uc.repo.List(params)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTenantResponse(t))
	}
	return &dto.TenantListResponse{
		Items: items,
		Page:  dto.PageResponse{Page: params.Page, Limit: params.PageSize(), Total: total},
	}, nil
}

// Delete elimina (soft delete) un tenant.
func (uc *TenantUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// ExpireSubscriptions barre los tenants con suscripción vencida y los desactiva.
// Pensado para correr periódicamente en background.
func (uc *TenantUseCase) ExpireSubscriptions() (int, error) {
	n, err := uc.repo.DeactivateExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int("count", n).Msg("tenants con suscripción vencida desactivados")
	}
	return n, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	if t == nil {
		return nil
	}
	return &dto.TenantResponse{
		ID:                t.ID,
		Name:              t.Name,
		Domain:            t.Domain,
		ContactEmail:      t.ContactEmail,
		Phone:             t.Phone,
		Customization:     t.Customization,
		Plan:              t.Plan,
		SubscriptionStart: t.SubscriptionStart,
		SubscriptionEnd:   t.SubscriptionEnd,
		IsActive:          t.IsActive,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/metrics"
)

// MetricsHandler métricas del dashboard (solo lectura).
type MetricsHandler struct {
	svc *metrics.Service
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(svc *metrics.Service) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

// General godoc
// @Summary      Métricas generales del tenant
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GeneralMetricsResponse
// @Router       /api/metrics/general [get]
func (h *MetricsHandler) General(c *fiber.Ctx) error {
	out, err := h.svc.General(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Products(c *fiber.Ctx) error {
	out, err := h.svc.Products(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Customers(c *fiber.Ctx) error {
	out, err := h.svc.Customers(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Suppliers(c *fiber.Ctx) error {
	out, err := h.svc.Suppliers(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Orders(c *fiber.Ctx) error {
	out, err := h.svc.Orders(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Purchases(c *fiber.Ctx) error {
	out, err := h.svc.Purchases(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

func (h *MetricsHandler) Categories(c *fiber.Ctx) error {
	out, err := h.svc.Categories(c.Context(), GetTenantID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

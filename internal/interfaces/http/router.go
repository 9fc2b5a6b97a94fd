package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/auth"
	appexcel "github.com/jhoicas/comercio-api/internal/application/excel"
	"github.com/jhoicas/comercio-api/internal/application/metrics"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	"github.com/jhoicas/comercio-api/internal/application/purchases"
	"github.com/jhoicas/comercio-api/internal/application/usecase"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	TenantUC    *usecase.TenantUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	CustomerUC  *usecase.CustomerUseCase
	SupplierUC  *usecase.SupplierUseCase
	OrderSvc    *orders.Service
	PurchaseSvc *purchases.Service
	ExcelSvc    *appexcel.Service
	Exporter    *appexcel.Exporter
	MetricsSvc  *metrics.Service
	JWTSecret   string
}

// Router registra las rutas de la API. Gates por rol: tenants es terreno del
// superadmin, usuarios y excel del admin, el catálogo escribe admin y lee
// supervisor, y ventas llegan hasta cashier.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Tenants (superadmin; customization también admin del propio tenant)
	tenants := protected.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Patch("/:id/customization", RequireRole(entity.RoleAdmin), tenantHandler.UpdateCustomization)
	tenants.Use(RequireRole(entity.RoleSuperadmin))
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Patch("/:id", tenantHandler.Update)
	tenants.Post("/:id/toggle-active", tenantHandler.ToggleActive)
	tenants.Post("/:id/renew", tenantHandler.RenewSubscription)
	tenants.Delete("/:id", tenantHandler.Delete)

	// Users (admin+)
	users := protected.Group("/users", RequireTenant(), RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Catálogo: lectura supervisor+, escritura admin+
	registerCatalog := func(group fiber.Router, h interface {
		Create(*fiber.Ctx) error
		List(*fiber.Ctx) error
		GetByID(*fiber.Ctx) error
		Update(*fiber.Ctx) error
		Delete(*fiber.Ctx) error
	}) {
		group.Get("/", RequireRole(entity.RoleSupervisor), h.List)
		group.Get("/:id", RequireRole(entity.RoleSupervisor), h.GetByID)
		group.Post("/", RequireRole(entity.RoleAdmin), h.Create)
		group.Patch("/:id", RequireRole(entity.RoleAdmin), h.Update)
		group.Delete("/:id", RequireRole(entity.RoleAdmin), h.Delete)
	}
	registerCatalog(protected.Group("/products", RequireTenant()), NewProductHandler(deps.ProductUC))
	registerCatalog(protected.Group("/categories", RequireTenant()), NewCategoryHandler(deps.CategoryUC))
	registerCatalog(protected.Group("/customers", RequireTenant()), NewCustomerHandler(deps.CustomerUC))
	registerCatalog(protected.Group("/suppliers", RequireTenant()), NewSupplierHandler(deps.SupplierUC))

	// Ventas (cashier+) y compras (supervisor+)
	ordersGroup := protected.Group("/orders", RequireTenant(), RequireRole(entity.RoleCashier))
	orderHandler := NewOrderHandler(deps.OrderSvc)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Patch("/:id", orderHandler.Update)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	purchasesGroup := protected.Group("/purchases", RequireTenant(), RequireRole(entity.RoleSupervisor))
	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc)
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Patch("/:id", purchaseHandler.Update)
	purchasesGroup.Delete("/:id", purchaseHandler.Delete)

	// Excel (admin+): lotes, export y plantillas
	excelGroup := protected.Group("/excel", RequireTenant(), RequireRole(entity.RoleAdmin))
	excelHandler := NewExcelHandler(deps.ExcelSvc, deps.Exporter)
	excelGroup.Get("/export/:entity", excelHandler.Export)
	excelGroup.Get("/example/:entity", excelHandler.Example)
	excelGroup.Post("/:entity", excelHandler.Process)

	// Métricas del dashboard (supervisor+)
	metricsGroup := protected.Group("/metrics", RequireTenant(), RequireRole(entity.RoleSupervisor))
	metricsHandler := NewMetricsHandler(deps.MetricsSvc)
	metricsGroup.Get("/general", metricsHandler.General)
	metricsGroup.Get("/products", metricsHandler.Products)
	metricsGroup.Get("/customers", metricsHandler.Customers)
	metricsGroup.Get("/suppliers", metricsHandler.Suppliers)
	metricsGroup.Get("/orders", metricsHandler.Orders)
	metricsGroup.Get("/purchases", metricsHandler.Purchases)
	metricsGroup.Get("/categories", metricsHandler.Categories)
}

package metrics

import (
	"context"
	"time"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/domain/repository"
)

const (
	topN            = 5
	weeksBack       = 4
	newWindowDays   = 30
	lowStockAtUnits = 5
)

// Service métricas de solo lectura para el dashboard.
type Service struct {
	repo repository.MetricsRepository
}

// NewService construye el servicio de métricas.
func NewService(repo repository.MetricsRepository) *Service {
	return &Service{repo: repo}
}

func weeksAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -7*n)
}

func toWeeklyPoints(in []repository.WeeklyAmountResult) []dto.WeeklyPoint {
	out := make([]dto.WeeklyPoint, 0, len(in))
	for _, w := range in {
		out = append(out, dto.WeeklyPoint{WeekStart: w.WeekStart, Total: w.Total, Count: w.Count})
	}
	return out
}

func toTopProducts(in []repository.TopProductResult) []dto.TopProductMetric {
	out := make([]dto.TopProductMetric, 0, len(in))
	for _, t := range in {
		out = append(out, dto.TopProductMetric{ProductID: t.ProductID, Name: t.Name, UnitsSold: t.UnitsSold, Revenue: t.Revenue})
	}
	return out
}

func toTopParties(in []repository.TopPartyResult) []dto.TopPartyMetric {
	out := make([]dto.TopPartyMetric, 0, len(in))
	for _, t := range in {
		out = append(out, dto.TopPartyMetric{ID: t.ID, Name: t.Name, Count: t.Count, Total: t.Total})
	}
	return out
}

func toCategoryStock(in []repository.CategoryStockResult) []dto.CategoryStockMetric {
	out := make([]dto.CategoryStockMetric, 0, len(in))
	for _, c := range in {
		out = append(out, dto.CategoryStockMetric{CategoryID: c.CategoryID, Name: c.Name, Products: c.Products, TotalStock: c.TotalStock})
	}
	return out
}

// General resumen del negocio: conteos, ingresos/egresos históricos y las
// series semanales de las últimas cuatro semanas.
func (s *Service) General(ctx context.Context, tenantID string) (*dto.GeneralMetricsResponse, error) {
	counts, err := s.repo.CountEntities(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	epoch := time.Unix(0, 0)
	now := time.Now()
	revenue, err := s.repo.TotalRevenue(ctx, tenantID, epoch, now)
	if err != nil {
		return nil, err
	}
	spent, err := s.repo.TotalSpent(ctx, tenantID, epoch, now)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.WeeklySales(ctx, tenantID, weeksAgo(weeksBack))
	if err != nil {
		return nil, err
	}
	buys, err := s.repo.WeeklyPurchases(ctx, tenantID, weeksAgo(weeksBack))
	if err != nil {
		return nil, err
	}
	return &dto.GeneralMetricsResponse{
		Counts: map[string]int{
			"products":   counts.Products,
			"customers":  counts.Customers,
			"suppliers":  counts.Suppliers,
			"orders":     counts.Orders,
			"purchases":  counts.Purchases,
			"categories": counts.Categories,
			"users":      counts.Users,
		},
		TotalRevenue:    revenue,
		TotalSpent:      spent,
		WeeklySales:     toWeeklyPoints(sales),
		WeeklyPurchases: toWeeklyPoints(buys),
	}, nil
}

// Products métricas del catálogo.
func (s *Service) Products(ctx context.Context, tenantID string) (*dto.ProductMetricsResponse, error) {
	byStatus, err := s.repo.CountProductsByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	newCount, err := s.repo.CountNewProducts(ctx, tenantID, time.Now().AddDate(0, 0, -newWindowDays))
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, tenantID, topN)
	if err != nil {
		return nil, err
	}
	income, err := s.repo.IncomePerProduct(ctx, tenantID, topN)
	if err != nil {
		return nil, err
	}
	return &dto.ProductMetricsResponse{
		Total:            total,
		ByStatus:         byStatus,
		NewLast30Days:    newCount,
		TopSelling:       toTopProducts(top),
		IncomePerProduct: toTopProducts(income),
	}, nil
}

// Customers métricas de clientes.
func (s *Service) Customers(ctx context.Context, tenantID string) (*dto.CustomerMetricsResponse, error) {
	counts, err := s.repo.CountEntities(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	newCount, err := s.repo.CountNewCustomers(ctx, tenantID, time.Now().AddDate(0, 0, -newWindowDays))
	if err != nil {
		return nil, err
	}
	recurring, err := s.repo.CountRecurringCustomers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopCustomers(ctx, tenantID, topN)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerMetricsResponse{
		Total:         counts.Customers,
		NewLast30Days: newCount,
		Recurring:     recurring,
		TopSpenders:   toTopParties(top),
	}, nil
}

// Suppliers métricas de proveedores.
func (s *Service) Suppliers(ctx context.Context, tenantID string) (*dto.SupplierMetricsResponse, error) {
	counts, err := s.repo.CountEntities(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopSuppliers(ctx, tenantID, topN)
	if err != nil {
		return nil, err
	}
	return &dto.SupplierMetricsResponse{
		Total:        counts.Suppliers,
		TopSuppliers: toTopParties(top),
	}, nil
}

// Orders métricas de ventas.
func (s *Service) Orders(ctx context.Context, tenantID string) (*dto.OrderMetricsResponse, error) {
	counts, err := s.repo.CountEntities(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountOrdersByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.TotalRevenue(ctx, tenantID, time.Unix(0, 0), time.Now())
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.WeeklySales(ctx, tenantID, weeksAgo(weeksBack))
	if err != nil {
		return nil, err
	}
	return &dto.OrderMetricsResponse{
		Total:        counts.Orders,
		ByStatus:     byStatus,
		TotalRevenue: revenue,
		WeeklySales:  toWeeklyPoints(sales),
	}, nil
}

// Purchases métricas de compras.
func (s *Service) Purchases(ctx context.Context, tenantID string) (*dto.PurchaseMetricsResponse, error) {
	counts, err := s.repo.CountEntities(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	spent, err := s.repo.TotalSpent(ctx, tenantID, time.Unix(0, 0), time.Now())
	if err != nil {
		return nil, err
	}
	buys, err := s.repo.WeeklyPurchases(ctx, tenantID, weeksAgo(weeksBack))
	if err != nil {
		return nil, err
	}
	return &dto.PurchaseMetricsResponse{
		Total:           counts.Purchases,
		TotalSpent:      spent,
		WeeklyPurchases: toWeeklyPoints(buys),
	}, nil
}

// Categories métricas de categorías, con las de bajo stock aparte.
func (s *Service) Categories(ctx context.Context, tenantID string) (*dto.CategoryMetricsResponse, error) {
	all, err := s.repo.CategoryStock(ctx, tenantID, 0)
	if err != nil {
		return nil, err
	}
	low, err := s.repo.CategoryStock(ctx, tenantID, lowStockAtUnits)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryMetricsResponse{
		Total:      len(all),
		Stock:      toCategoryStock(all),
		LowStock:   toCategoryStock(low),
		LowStockAt: lowStockAtUnits,
	}, nil
}

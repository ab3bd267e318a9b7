package report

import (
	"context"
	"time"

	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/report"
	"go.uber.org/zap"
)

// WorkbookRenderer turns a workbook into a spreadsheet file
type WorkbookRenderer interface {
	Render(wb *report.Workbook) ([]byte, error)
}

// AnalyticsService computes the admin dashboard and its export
type AnalyticsService struct {
	orders   order.Repository
	products catalog.ProductRepository
	stock    inventory.Repository
	users    identity.UserRepository
	renderer WorkbookRenderer
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. Periods are resolved in loc.
func NewAnalyticsService(
	orders order.Repository,
	products catalog.ProductRepository,
	stock inventory.Repository,
	users identity.UserRepository,
	renderer WorkbookRenderer,
	loc *time.Location,
	logger *zap.Logger,
) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{
		orders:   orders,
		products: products,
		stock:    stock,
		users:    users,
		renderer: renderer,
		loc:      loc,
		logger:   logger.Named("analytics"),
		now:      time.Now,
	}
}

// Overview returns the dashboard figures for the requested range
func (s *AnalyticsService) Overview(ctx context.Context, q OverviewQuery) (*OverviewResponse, error) {
	ov, err := s.overview(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := toOverviewResponse(ov)
	return &resp, nil
}

// Export renders the four-sheet workbook. It returns the file body and its name.
func (s *AnalyticsService) Export(ctx context.Context, q OverviewQuery) ([]byte, string, error) {
	ov, err := s.overview(ctx, q)
	if err != nil {
		return nil, "", err
	}
	wb, err := s.workbook(ctx, ov)
	if err != nil {
		return nil, "", err
	}
	body, err := s.renderer.Render(wb)
	if err != nil {
		s.logger.Error("Failed to render report workbook", zap.Error(err))
		return nil, "", err
	}
	s.logger.Info("Report exported",
		zap.String("period", ov.Period.Label),
		zap.Int("orders", len(wb.Orders)),
		zap.Int("users", len(wb.Users)))
	return body, ov.Period.FileName(), nil
}

func (s *AnalyticsService) overview(ctx context.Context, q OverviewQuery) (*report.Overview, error) {
	period, err := report.ResolvePeriod(report.RangeKind(q.Range), q.Start, q.End, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	stats, err := s.orders.Stats(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	inStock, outOfStock, err := s.stock.CountInStock(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountByStatus(ctx, identity.UserStatusActive)
	if err != nil {
		return nil, err
	}

	ov := &report.Overview{
		Period:             period,
		TotalRevenue:       stats.Revenue,
		TotalOrders:        stats.TotalOrders,
		PendingOrders:      stats.PendingOrders,
		CompletedOrders:    stats.CompletedOrders,
		CancelledOrders:    stats.CancelledOrders,
		PaidOrders:         stats.PaidOrders,
		TotalProducts:      totalProducts,
		ProductsInStock:    inStock,
		ProductsOutOfStock: outOfStock,
		TotalUsers:         totalUsers,
		ActiveUsers:        activeUsers,
	}
	ov.Finalize()
	return ov, nil
}

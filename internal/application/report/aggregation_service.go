package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/report"
)

const (
	exportPageSize = 100
	// Sheets stop growing past this many rows
	maxExportRows  = 5000
	topProductRows = 10
	dateTimeLayout = "02/01/2006 15:04"
)

func (s *AnalyticsService) workbook(ctx context.Context, ov *report.Overview) (*report.Workbook, error) {
	orders, err := s.orderRows(ctx, ov.Period)
	if err != nil {
		return nil, err
	}
	products, err := s.topProductRows(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRows(ctx)
	if err != nil {
		return nil, err
	}
	return &report.Workbook{
		Overview:    *ov,
		Orders:      orders,
		TopProducts: products,
		Users:       users,
	}, nil
}

func (s *AnalyticsService) orderRows(ctx context.Context, p report.Period) ([]report.OrderRow, error) {
	from, to := p.From, p.To
	var rows []report.OrderRow
	for page := 1; len(rows) < maxExportRows; page++ {
		batch, total, err := s.orders.FindAll(ctx, order.Filter{From: &from, To: &to, Page: page, PageSize: exportPageSize})
		if err != nil {
			return nil, err
		}
		for _, o := range batch {
			rows = append(rows, report.OrderRow{
				ID:            o.ID.String(),
				Customer:      o.Shipping.FullName,
				Email:         o.Shipping.Email,
				CreatedAt:     o.CreatedAt.In(s.loc).Format(dateTimeLayout),
				Total:         o.GrandTotal,
				Status:        string(o.Status),
				PaymentStatus: string(o.PaymentStatus),
			})
		}
		if len(batch) < exportPageSize || int64(page*exportPageSize) >= total {
			break
		}
	}
	return rows, nil
}

func (s *AnalyticsService) topProductRows(ctx context.Context) ([]report.ProductRow, error) {
	products, _, err := s.products.FindAll(ctx, catalog.ProductFilter{
		ActiveOnly: true,
		SortBy:     catalog.SortRating,
		SortOrder:  "desc",
		Page:       1,
		PageSize:   topProductRows,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stock, err := s.stock.FindByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]report.ProductRow, len(products))
	for i, p := range products {
		inv, ok := stock[p.ID]
		rows[i] = report.ProductRow{
			Rank:        i + 1,
			Name:        p.Name,
			SKU:         p.SKU,
			Price:       p.Price,
			Rating:      p.RatingAverage,
			ReviewCount: p.ReviewCount,
			InStock:     ok && inv.InStock(),
		}
	}
	return rows, nil
}

func (s *AnalyticsService) userRows(ctx context.Context) ([]report.UserRow, error) {
	var rows []report.UserRow
	for page := 1; len(rows) < maxExportRows; page++ {
		batch, total, err := s.users.FindAll(ctx, identity.UserFilter{Page: page, PageSize: exportPageSize})
		if err != nil {
			return nil, err
		}
		for _, u := range batch {
			rows = append(rows, report.UserRow{
				Name:   u.Name,
				Email:  u.Email,
				Phone:  u.Phone,
				Role:   string(u.Role),
				Status: string(u.Status),
			})
		}
		if len(batch) < exportPageSize || int64(page*exportPageSize) >= total {
			break
		}
	}
	return rows, nil
}

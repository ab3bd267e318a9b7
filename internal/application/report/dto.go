package report

import (
	"time"

	"github.com/secureshop/backend/internal/domain/report"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OverviewQuery selects the reporting window
type OverviewQuery struct {
	Range string `form:"range" binding:"omitempty,oneof=today week month year custom"`
	Start string `form:"start" binding:"required_if=Range custom"`
	End   string `form:"end" binding:"required_if=Range custom"`
}

// OverviewResponse is the dashboard payload
type OverviewResponse struct {
	Range              string            `json:"range"`
	From               time.Time         `json:"from"`
	To                 time.Time         `json:"to"`
	TotalRevenue       valueobject.Money `json:"totalRevenue"`
	TotalOrders        int64             `json:"totalOrders"`
	PendingOrders      int64             `json:"pendingOrders"`
	CompletedOrders    int64             `json:"completedOrders"`
	CancelledOrders    int64             `json:"cancelledOrders"`
	AverageOrderValue  valueobject.Money `json:"averageOrderValue"`
	TotalProducts      int64             `json:"totalProducts"`
	ProductsInStock    int64             `json:"productsInStock"`
	ProductsOutOfStock int64             `json:"productsOutOfStock"`
	TotalUsers         int64             `json:"totalUsers"`
	ActiveUsers        int64             `json:"activeUsers"`
	ConversionRate     decimal.Decimal   `json:"conversionRate"`
}

func toOverviewResponse(o *report.Overview) OverviewResponse {
	return OverviewResponse{
		Range:              string(o.Period.Kind),
		From:               o.Period.From,
		To:                 o.Period.To,
		TotalRevenue:       o.TotalRevenue,
		TotalOrders:        o.TotalOrders,
		PendingOrders:      o.PendingOrders,
		CompletedOrders:    o.CompletedOrders,
		CancelledOrders:    o.CancelledOrders,
		AverageOrderValue:  o.AverageOrderValue,
		TotalProducts:      o.TotalProducts,
		ProductsInStock:    o.ProductsInStock,
		ProductsOutOfStock: o.ProductsOutOfStock,
		TotalUsers:         o.TotalUsers,
		ActiveUsers:        o.ActiveUsers,
		ConversionRate:     o.ConversionRate,
	}
}

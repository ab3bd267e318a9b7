package report

import (
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Overview is the dashboard summary for a period
type Overview struct {
	Period             Period
	TotalRevenue       valueobject.Money
	TotalOrders        int64
	PendingOrders      int64
	CompletedOrders    int64
	CancelledOrders    int64
	PaidOrders         int64
	AverageOrderValue  valueobject.Money
	TotalProducts      int64
	ProductsInStock    int64
	ProductsOutOfStock int64
	TotalUsers         int64
	ActiveUsers        int64
	ConversionRate     decimal.Decimal
}

// Finalize derives the average order value and the conversion rate
func (o *Overview) Finalize() {
	if o.TotalRevenue.Currency() == "" {
		o.TotalRevenue = valueobject.ZeroVND()
	}
	o.AverageOrderValue = valueobject.ZeroVND()
	if o.PaidOrders > 0 {
		avg := o.TotalRevenue.Amount().Div(decimal.NewFromInt(o.PaidOrders)).Round(2)
		o.AverageOrderValue = valueobject.VNDOf(avg)
	}
	o.ConversionRate = ConversionRate(o.TotalOrders, o.ActiveUsers)
}

// ConversionRate is orders per active user as a percent, 2 decimal places
func ConversionRate(orders, activeUsers int64) decimal.Decimal {
	if activeUsers <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(orders).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(activeUsers)).Round(2)
}

// OrderRow is one line of the Orders sheet
type OrderRow struct {
	ID            string
	Customer      string
	Email         string
	CreatedAt     string
	Total         valueobject.Money
	Status        string
	PaymentStatus string
}

// ProductRow is one line of the Top products sheet
type ProductRow struct {
	Rank        int
	Name        string
	SKU         string
	Price       valueobject.Money
	Rating      decimal.Decimal
	ReviewCount int
	InStock     bool
}

// UserRow is one line of the Users sheet
type UserRow struct {
	Name   string
	Email  string
	Phone  string
	Role   string
	Status string
}

// Workbook is everything the export renders
type Workbook struct {
	Overview    Overview
	Orders      []OrderRow
	TopProducts []ProductRow
	Users       []UserRow
}

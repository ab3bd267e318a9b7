package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps a requested sort key onto a whitelisted column.
// Unknown or empty keys fall back to defaultColumn.
func ValidateSortField(sortField string, allowed map[string]string, defaultColumn string) string {
	if col, ok := allowed[strings.ToLower(strings.TrimSpace(sortField))]; ok {
		return col
	}
	return defaultColumn
}

// orderBy builds a safe ORDER BY expression from user input
func orderBy(sortField, sortOrder string, allowed map[string]string, defaultColumn string) string {
	return ValidateSortField(sortField, allowed, defaultColumn) + " " + ValidateSortOrder(sortOrder)
}

// ProductSortFields maps public sort keys to product columns
var ProductSortFields = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"name":       "products.name",
	"rating":     "products.rating_average",
}

// UserSortFields maps admin sort keys to user columns
var UserSortFields = map[string]string{
	"created_at":    "created_at",
	"name":          "name",
	"email":         "email",
	"last_login_at": "last_login_at",
}

// OrderSortFields maps admin sort keys to order columns
var OrderSortFields = map[string]string{
	"created_at":  "orders.created_at",
	"grand_total": "orders.grand_total",
	"status":      "orders.status",
}

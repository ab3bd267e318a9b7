package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"ASC; DROP TABLE users;--", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty uses default", "", "products.created_at"},
		{"known key", "price", "products.price"},
		{"case insensitive", " Rating ", "products.rating_average"},
		{"raw column is not accepted", "products.price", "products.created_at"},
		{"injection", "price; DROP TABLE products", "products.created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "products.created_at"))
		})
	}
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "products.name ASC", orderBy("name", "asc", ProductSortFields, "products.created_at"))
	assert.Equal(t, "orders.created_at DESC", orderBy("bogus", "", OrderSortFields, "orders.created_at"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%iphone%", likePattern("  iPhone "))
	assert.Equal(t, "%50!% off!_x!!%", likePattern("50% off_x!"))
}

package catalog

import (
	"strings"

	"github.com/secureshop/backend/internal/domain/shared"
)

// Category groups products in the storefront menu
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	ImageURL    string
	Active      bool
}

// NewCategory creates an active category
func NewCategory(name, description, imageURL string) (*Category, error) {
	c := &Category{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Active: true}
	if err := c.Update(name, description, imageURL, true); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, description, imageURL string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1-100 characters")
	}
	if len([]rune(description)) > 1000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	c.Name = name
	c.Description = description
	c.ImageURL = imageURL
	c.Active = active
	c.MarkModified()
	return nil
}

// Brand is a product manufacturer
type Brand struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	LogoURL     string
	Active      bool
}

// NewBrand creates an active brand
func NewBrand(name, description, logoURL string) (*Brand, error) {
	b := &Brand{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Active: true}
	if err := b.Update(name, description, logoURL, true); err != nil {
		return nil, err
	}
	b.Version = 1
	return b, nil
}

// Update replaces the editable fields
func (b *Brand) Update(name, description, logoURL string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name must be 1-100 characters")
	}
	b.Name = name
	b.Description = description
	b.LogoURL = logoURL
	b.Active = active
	b.MarkModified()
	return nil
}

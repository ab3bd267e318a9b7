package content

import (
	"strings"
	"time"

	"github.com/secureshop/backend/internal/domain/shared"
)

// Position is the slot a banner is rendered in
type Position string

const (
	PositionHomeHero   Position = "home_hero"
	PositionHomeMiddle Position = "home_middle"
	PositionSidebar    Position = "sidebar"
)

// IsValid reports whether p is a known slot
func (p Position) IsValid() bool {
	switch p {
	case PositionHomeHero, PositionHomeMiddle, PositionSidebar:
		return true
	}
	return false
}

// Banner is a promotional image placed on the storefront
type Banner struct {
	shared.BaseAggregateRoot
	Title     string
	ImageURL  string
	LinkURL   string
	Position  Position
	SortOrder int
	Active    bool
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// BannerInput carries every editable field
type BannerInput struct {
	Title     string
	ImageURL  string
	LinkURL   string
	Position  Position
	SortOrder int
	Active    bool
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// NewBanner validates input and creates a banner
func NewBanner(in BannerInput) (*Banner, error) {
	b := &Banner{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := b.apply(in); err != nil {
		return nil, err
	}
	return b, nil
}

// Update replaces the editable fields
func (b *Banner) Update(in BannerInput) error {
	if err := b.apply(in); err != nil {
		return err
	}
	b.MarkModified()
	return nil
}

func (b *Banner) apply(in BannerInput) error {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	case strings.TrimSpace(in.ImageURL) == "":
		return shared.NewDomainError("INVALID_IMAGE", "Image URL is required")
	case !in.Position.IsValid():
		return shared.NewDomainError("INVALID_POSITION", "Position must be home_hero, home_middle or sidebar")
	case in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt):
		return shared.NewDomainError("INVALID_PERIOD", "End time must be after start time")
	}
	b.Title = in.Title
	b.ImageURL = in.ImageURL
	b.LinkURL = in.LinkURL
	b.Position = in.Position
	b.SortOrder = in.SortOrder
	b.Active = in.Active
	b.StartsAt = in.StartsAt
	b.EndsAt = in.EndsAt
	return nil
}

// IsLive reports whether the banner should render at now
func (b *Banner) IsLive(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && !now.Before(*b.EndsAt) {
		return false
	}
	return true
}

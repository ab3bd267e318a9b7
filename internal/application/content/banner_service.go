package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/content"
	"go.uber.org/zap"
)

// BannerService manages storefront banners
type BannerService struct {
	banners content.BannerRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewBannerService creates a new BannerService
func NewBannerService(banners content.BannerRepository, logger *zap.Logger) *BannerService {
	return &BannerService{banners: banners, logger: logger.Named("banners"), now: time.Now}
}

// Live returns banners showing right now, optionally for one position
func (s *BannerService) Live(ctx context.Context, position string) ([]BannerResponse, error) {
	banners, err := s.banners.FindLive(ctx, positionFilter(position), s.now())
	if err != nil {
		return nil, err
	}
	return toBannerResponses(banners), nil
}

// List returns every banner for the back office
func (s *BannerService) List(ctx context.Context, position string) ([]BannerResponse, error) {
	banners, err := s.banners.FindAll(ctx, positionFilter(position))
	if err != nil {
		return nil, err
	}
	return toBannerResponses(banners), nil
}

// GetByID returns one banner
func (s *BannerService) GetByID(ctx context.Context, id uuid.UUID) (*BannerResponse, error) {
	b, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBannerResponse(b)
	return &resp, nil
}

// Create adds a banner
func (s *BannerService) Create(ctx context.Context, req BannerRequest) (*BannerResponse, error) {
	b, err := content.NewBanner(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.banners.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Banner created", zap.String("banner_id", b.ID.String()), zap.String("position", string(b.Position)))
	resp := ToBannerResponse(b)
	return &resp, nil
}

// Update replaces a banner
func (s *BannerService) Update(ctx context.Context, id uuid.UUID, req BannerRequest) (*BannerResponse, error) {
	b, err := s.banners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.banners.Update(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBannerResponse(b)
	return &resp, nil
}

// Delete removes a banner
func (s *BannerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.banners.FindByID(ctx, id); err != nil {
		return err
	}
	return s.banners.Delete(ctx, id)
}

func positionFilter(raw string) *content.Position {
	if raw == "" {
		return nil
	}
	p := content.Position(raw)
	return &p
}

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger.Named("catalog")}
}

// List returns categories. Storefront callers only see active ones.
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = ToCategoryResponse(c)
	}
	return out, nil
}

// GetByID returns one category
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	if err := s.checkName(ctx, req.Name, nil); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(req.Name, req.Description, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		category.Active = false
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.ErrAlreadyExists.WithMessage("Category with this name already exists")
		}
		return nil, err
	}
	s.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update replaces the editable fields
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, req.Name, &id); err != nil {
		return nil, err
	}
	active := category.Active
	if req.Active != nil {
		active = *req.Active
	}
	if err := category.Update(req.Name, req.Description, req.ImageURL, active); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.categoryRepo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category still has products")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *CategoryService) checkName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	taken, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrAlreadyExists.WithMessage("Category with this name already exists")
	}
	return nil
}

// BrandService handles brand-related business operations
type BrandService struct {
	brandRepo catalog.BrandRepository
	logger    *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, logger *zap.Logger) *BrandService {
	return &BrandService{brandRepo: brandRepo, logger: logger.Named("catalog")}
}

// List returns brands. Storefront callers only see active ones.
func (s *BrandService) List(ctx context.Context, includeInactive bool) ([]BrandResponse, error) {
	brands, err := s.brandRepo.FindAll(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]BrandResponse, len(brands))
	for i, b := range brands {
		out[i] = ToBrandResponse(b)
	}
	return out, nil
}

// GetByID returns one brand
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBrandResponse(b)
	return &resp, nil
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	taken, err := s.brandRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists.WithMessage("Brand with this name already exists")
	}
	brand, err := catalog.NewBrand(req.Name, req.Description, req.LogoURL)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		brand.Active = false
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("Brand created", zap.String("brand_id", brand.ID.String()), zap.String("name", brand.Name))
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Update replaces the editable fields
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req BrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.brandRepo.ExistsByName(ctx, req.Name, &id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrAlreadyExists.WithMessage("Brand with this name already exists")
	}
	active := brand.Active
	if req.Active != nil {
		active = *req.Active
	}
	if err := brand.Update(req.Name, req.Description, req.LogoURL, active); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Delete removes a brand that no product references
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.brandRepo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("BRAND_IN_USE", "Brand still has products")
	}
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Brand deleted", zap.String("brand_id", id.String()))
	return nil
}

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	brands     catalog.BrandRepository
	stock      inventory.Repository
	reviews    catalog.ReviewRepository
	tx         shared.Transactor
	events     shared.OutboxEventSaver
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	brands catalog.BrandRepository,
	stock inventory.Repository,
	reviews catalog.ReviewRepository,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		brands:     brands,
		stock:      stock,
		reviews:    reviews,
		tx:         tx,
		events:     events,
		logger:     logger.Named("catalog"),
	}
}

// List returns a page of product summaries. Storefront callers only see
// active products.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter, includeInactive bool) (shared.Paginated[ProductSummary], error) {
	f := filter.toDomain(!includeInactive)
	products, total, err := s.products.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ProductSummary]{}, err
	}
	l, err := s.lookups(ctx, products)
	if err != nil {
		return shared.Paginated[ProductSummary]{}, err
	}
	items := make([]ProductSummary, len(products))
	for i, p := range products {
		items[i] = l.summary(p)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns the product page with approved reviews. Inactive products
// are hidden from storefront callers.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*ProductDetail, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !p.IsPurchasable() {
		return nil, shared.ErrNotFound.WithMessage("Product not found")
	}
	return s.detail(ctx, p)
}

// Create adds a product together with its inventory row
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductDetail, error) {
	if err := s.checkSKU(ctx, req.SKU, nil); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.toInput())
	if err != nil {
		return nil, err
	}
	stock, err := inventory.NewInventory(product.ID, req.InitialStock)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, product); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.ErrAlreadyExists.WithMessage("Product with this SKU already exists")
			}
			return err
		}
		if err := s.stock.Create(ctx, stock); err != nil {
			return err
		}
		return s.events.SaveEvents(ctx, product.GetDomainEvents()...)
	})
	if err != nil {
		return nil, err
	}
	product.ClearDomainEvents()

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("initial_stock", req.InitialStock))
	return s.detail(ctx, product)
}

// Update replaces the editable product fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSKU(ctx, req.SKU, &id); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}
	in := req.toInput()
	if req.Active == nil {
		in.Active = product.Active
	}
	if err := product.Update(in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product updated", zap.String("product_id", id.String()))
	return s.detail(ctx, product)
}

// Activate puts a product on sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a product from the storefront
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	return s.setActive(ctx, id, false)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, active bool) (*ProductDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product status changed",
		zap.String("product_id", id.String()),
		zap.Bool("active", active))
	return s.detail(ctx, product)
}

// Delete soft-deletes a product. Order history keeps its snapshot.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.SoftDelete()
	if err := s.save(ctx, product); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()), zap.String("sku", product.SKU))
	return nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.Update(ctx, product); err != nil {
			return err
		}
		return s.events.SaveEvents(ctx, product.GetDomainEvents()...)
	})
	if err == nil {
		product.ClearDomainEvents()
	}
	return err
}

func (s *ProductService) checkSKU(ctx context.Context, sku string, excludeID *uuid.UUID) error {
	taken, err := s.products.ExistsBySKU(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrAlreadyExists.WithMessage("Product with this SKU already exists")
	}
	return nil
}

// checkRefs validates that referenced category and brand exist
func (s *ProductService) checkRefs(ctx context.Context, categoryID, brandID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categories.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return err
		}
	}
	if brandID != nil {
		if _, err := s.brands.FindByID(ctx, *brandID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_BRAND", "Brand not found")
			}
			return err
		}
	}
	return nil
}

func (s *ProductService) detail(ctx context.Context, p *catalog.Product) (*ProductDetail, error) {
	l, err := s.lookups(ctx, []*catalog.Product{p})
	if err != nil {
		return nil, err
	}
	approved := catalog.ReviewStatusApproved
	reviews, _, err := s.reviews.FindAll(ctx, catalog.ReviewFilter{
		ProductID: &p.ID,
		Status:    &approved,
		Page:      1,
		PageSize:  50,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = ToReviewResponse(r)
	}
	return &ProductDetail{
		ProductSummary:   l.summary(p),
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Media:            p.Media,
		Features:         p.Features,
		Specifications:   p.Specifications,
		Reviews:          out,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

// lookups loads names and stock for a page of products in three queries
func (s *ProductService) lookups(ctx context.Context, products []*catalog.Product) (lookups, error) {
	l := lookups{
		categories: map[uuid.UUID]string{},
		brands:     map[uuid.UUID]string{},
		stock:      map[uuid.UUID]*inventory.Inventory{},
	}
	if len(products) == 0 {
		return l, nil
	}
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stock, err := s.stock.FindByProducts(ctx, ids)
	if err != nil {
		return l, err
	}
	l.stock = stock

	categories, err := s.categories.FindAll(ctx, false)
	if err != nil {
		return l, err
	}
	for _, c := range categories {
		l.categories[c.ID] = c.Name
	}
	brands, err := s.brands.FindAll(ctx, false)
	if err != nil {
		return l, err
	}
	for _, b := range brands {
		l.brands[b.ID] = b.Name
	}
	return l, nil
}

package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/cart"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CartService manages the server-side cart of signed-in users
type CartService struct {
	carts    cart.Repository
	products catalog.ProductRepository
	stock    inventory.Repository
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	carts cart.Repository,
	products catalog.ProductRepository,
	stock inventory.Repository,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		stock:    stock,
		logger:   logger.Named("cart"),
	}
}

// Get returns the caller's cart
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Count returns the number of units in the cart
func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Add puts a product in the cart, incrementing an existing line
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	available, err := s.availableFor(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(req.ProductID, req.Quantity, available); err != nil {
		s.logger.Warn("Cart add rejected",
			zap.String("user_id", userID.String()),
			zap.String("product_id", req.ProductID.String()),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Update sets a line quantity. Zero or less removes the line.
func (s *CartService) Update(ctx context.Context, userID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	available := 0
	if req.Quantity > 0 {
		if available, err = s.availableFor(ctx, req.ProductID); err != nil {
			return nil, err
		}
	}
	if err := c.SetQuantity(req.ProductID, req.Quantity, available); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Remove deletes one line
func (s *CartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.Remove(productID) {
		if err := s.carts.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, c)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	c.Clear()
	return s.carts.Save(ctx, c)
}

// Merge folds the guest cart into the server cart after login. Unknown or
// inactive products are skipped and quantities are capped at stock.
func (s *CartService) Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (*MergeResponse, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	guest := make([]cart.Item, 0, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		guest = append(guest, cart.Item{ProductID: it.ProductID, Quantity: it.Quantity})
		ids = append(ids, it.ProductID)
	}
	avail, _, err := s.availability(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := c.Merge(guest, avail)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	if len(result.Skipped) > 0 || len(result.Capped) > 0 {
		s.logger.Info("Guest cart merged with adjustments",
			zap.String("user_id", userID.String()),
			zap.Int("skipped", len(result.Skipped)),
			zap.Int("capped", len(result.Capped)))
	}

	view, err := s.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return &MergeResponse{Cart: *view, Skipped: result.Skipped, Capped: result.Capped}, nil
}

// availableFor returns the sellable stock of one product, failing with
// NOT_FOUND for unknown or inactive products
func (s *CartService) availableFor(ctx context.Context, productID uuid.UUID) (int, error) {
	avail, _, err := s.availability(ctx, []uuid.UUID{productID})
	if err != nil {
		return 0, err
	}
	available, ok := avail[productID]
	if !ok {
		return 0, shared.ErrNotFound.WithMessage("Product not found")
	}
	return available, nil
}

// availability maps purchasable products to their available stock
func (s *CartService) availability(ctx context.Context, ids []uuid.UUID) (cart.Availability, map[uuid.UUID]*catalog.Product, error) {
	avail := cart.Availability{}
	byID := map[uuid.UUID]*catalog.Product{}
	if len(ids) == 0 {
		return avail, byID, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	stock, err := s.stock.FindByProducts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range products {
		byID[p.ID] = p
		if !p.IsPurchasable() {
			continue
		}
		if inv, ok := stock[p.ID]; ok {
			avail[p.ID] = inv.Available()
		} else {
			avail[p.ID] = 0
		}
	}
	return avail, byID, nil
}

func (s *CartService) view(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	avail, products, err := s.availability(ctx, c.ProductIDs())
	if err != nil {
		return nil, err
	}
	resp := &CartResponse{Items: make([]CartItemResponse, 0, len(c.Items)), Subtotal: valueobject.ZeroVND()}
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok {
			// hard-deleted product rows are dropped from the view
			continue
		}
		_, purchasable := avail[p.ID]
		line := CartItemResponse{
			ProductID:      p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			ThumbnailURL:   p.ThumbnailURL,
			ListedPrice:    p.ListedPrice,
			UnitPrice:      p.Price,
			Quantity:       it.Quantity,
			LineTotal:      p.Price.MultiplyByInt(it.Quantity),
			AvailableStock: avail[p.ID],
			Purchasable:    purchasable,
		}
		resp.Items = append(resp.Items, line)
		resp.Count += it.Quantity
		if purchasable {
			if resp.Subtotal, err = resp.Subtotal.Add(line.LineTotal); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}

package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/inventory"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles stock queries, manual adjustments and the
// reservation lifecycle driven by orders.
type InventoryService struct {
	stock     inventory.Repository
	movements inventory.MovementRepository
	products  catalog.ProductRepository
	tx        shared.Transactor
	events    shared.OutboxEventSaver
	logger    *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	stock inventory.Repository,
	movements inventory.MovementRepository,
	products catalog.ProductRepository,
	tx shared.Transactor,
	events shared.OutboxEventSaver,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		stock:     stock,
		movements: movements,
		products:  products,
		tx:        tx,
		events:    events,
		logger:    logger.Named("inventory"),
	}
}

// GetByProduct returns the stock of one product
func (s *InventoryService) GetByProduct(ctx context.Context, productID uuid.UUID) (*InventoryResponse, error) {
	inv, err := s.stock.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp := ToInventoryResponse(inv, product)
	return &resp, nil
}

// List returns a page of stock rows, optionally only those running low
func (s *InventoryService) List(ctx context.Context, filter InventoryListFilter) (shared.Paginated[InventoryResponse], error) {
	f := inventory.Filter{
		LowStock: filter.LowStock,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	rows, total, err := s.stock.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[InventoryResponse]{}, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i, inv := range rows {
		ids[i] = inv.ProductID
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(rows))
	if len(ids) > 0 {
		products, err := s.products.FindByIDs(ctx, ids)
		if err != nil {
			return shared.Paginated[InventoryResponse]{}, err
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	items := make([]InventoryResponse, len(rows))
	for i, inv := range rows {
		items[i] = ToInventoryResponse(inv, byID[inv.ProductID])
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Adjust changes on-hand stock. Reserved units cannot be adjusted away.
func (s *InventoryService) Adjust(ctx context.Context, productID uuid.UUID, req AdjustStockRequest) (*InventoryResponse, error) {
	var adjusted *inventory.Inventory
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.lockOne(ctx, productID)
		if err != nil {
			return err
		}
		movement, err := inv.Adjust(req.Delta, req.Reason)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, []*inventory.Inventory{inv}, []*inventory.Movement{movement}); err != nil {
			return err
		}
		adjusted = inv
		return nil
	})
	if err != nil {
		s.logger.Warn("Stock adjustment rejected",
			zap.String("product_id", productID.String()),
			zap.Int("delta", req.Delta),
			zap.Error(err))
		return nil, err
	}
	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int("delta", req.Delta),
		zap.Int("on_hand", adjusted.OnHand))
	return s.GetByProduct(ctx, productID)
}

// SetThreshold changes the low stock alert level of a product
func (s *InventoryService) SetThreshold(ctx context.Context, productID uuid.UUID, req SetThresholdRequest) (*InventoryResponse, error) {
	inv, err := s.stock.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := inv.SetLowStockThreshold(req.Threshold); err != nil {
		return nil, err
	}
	if err := s.stock.Save(ctx, inv); err != nil {
		return nil, err
	}
	return s.GetByProduct(ctx, productID)
}

// Movements returns the movement log of a product, newest first
func (s *InventoryService) Movements(ctx context.Context, productID uuid.UUID, page, pageSize int) (shared.Paginated[MovementResponse], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	movements, total, err := s.movements.FindByProduct(ctx, productID, page, pageSize)
	if err != nil {
		return shared.Paginated[MovementResponse]{}, err
	}
	items := make([]MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = ToMovementResponse(m)
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Reserve holds stock for a new order. It must run inside the caller's
// transaction; rows are locked in ascending product id order.
func (s *InventoryService) Reserve(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error {
	return s.apply(ctx, quantities, func(inv *inventory.Inventory, q int) (*inventory.Movement, error) {
		return inv.Reserve(q, orderID)
	})
}

// Release returns an order's reserved stock
func (s *InventoryService) Release(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error {
	return s.apply(ctx, quantities, func(inv *inventory.Inventory, q int) (*inventory.Movement, error) {
		return inv.Release(q, orderID)
	})
}

// Consume ships an order's reserved stock
func (s *InventoryService) Consume(ctx context.Context, orderID uuid.UUID, quantities map[uuid.UUID]int) error {
	return s.apply(ctx, quantities, func(inv *inventory.Inventory, q int) (*inventory.Movement, error) {
		return inv.Consume(q, orderID)
	})
}

func (s *InventoryService) apply(
	ctx context.Context,
	quantities map[uuid.UUID]int,
	op func(inv *inventory.Inventory, q int) (*inventory.Movement, error),
) error {
	if len(quantities) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	locked, err := s.stock.LockByProducts(ctx, ids)
	if err != nil {
		return err
	}
	rows := make([]*inventory.Inventory, 0, len(ids))
	movements := make([]*inventory.Movement, 0, len(ids))
	for _, id := range ids {
		inv, ok := locked[id]
		if !ok {
			return shared.ErrInsufficientStock.WithDetails(map[string]any{
				"product_id": id.String(),
				"requested":  quantities[id],
				"available":  0,
			})
		}
		movement, err := op(inv, quantities[id])
		if err != nil {
			return err
		}
		rows = append(rows, inv)
		movements = append(movements, movement)
	}
	return s.persist(ctx, rows, movements)
}

func (s *InventoryService) lockOne(ctx context.Context, productID uuid.UUID) (*inventory.Inventory, error) {
	locked, err := s.stock.LockByProducts(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, err
	}
	inv, ok := locked[productID]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Inventory not found")
	}
	return inv, nil
}

// persist saves rows, their movements and pending events. Callers hold a
// transaction.
func (s *InventoryService) persist(ctx context.Context, rows []*inventory.Inventory, movements []*inventory.Movement) error {
	var events []shared.DomainEvent
	for _, inv := range rows {
		if err := s.stock.Save(ctx, inv); err != nil {
			return err
		}
		events = append(events, inv.GetDomainEvents()...)
		inv.ClearDomainEvents()
	}
	if err := s.movements.Append(ctx, movements...); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	return s.events.SaveEvents(ctx, events...)
}

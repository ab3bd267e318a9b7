package support

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/support"
	"go.uber.org/zap"
)

var (
	ErrWarrantyNotEligible = shared.NewDomainError("WARRANTY_NOT_ELIGIBLE", "Warranty is only available for items of your delivered orders")
	ErrWarrantyOpen        = shared.NewDomainError("WARRANTY_EXISTS", "A warranty request for this item is already open")
)

// WarrantyService handles warranty requests for delivered items
type WarrantyService struct {
	requests support.WarrantyRepository
	orders   order.Repository
	logger   *zap.Logger
}

// NewWarrantyService creates a new WarrantyService
func NewWarrantyService(requests support.WarrantyRepository, orders order.Repository, logger *zap.Logger) *WarrantyService {
	return &WarrantyService{requests: requests, orders: orders, logger: logger.Named("warranty")}
}

// Submit files a request. The caller must own a delivered order that
// contains the product.
func (s *WarrantyService) Submit(ctx context.Context, userID uuid.UUID, req WarrantyRequestBody) (*WarrantyResponse, error) {
	o, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrWarrantyNotEligible
		}
		return nil, err
	}
	if !o.OwnedBy(userID) || o.Status != order.StatusDelivered || !o.Contains(req.ProductID) {
		return nil, ErrWarrantyNotEligible
	}
	open, err := s.requests.ExistsOpen(ctx, req.OrderID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrWarrantyOpen
	}

	w, err := support.NewWarrantyRequest(userID, req.OrderID, req.ProductID, support.IssueType(req.IssueType), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("Warranty request submitted",
		zap.String("request_id", w.ID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.String("product_id", req.ProductID.String()))
	resp := ToWarrantyResponse(w)
	return &resp, nil
}

// Mine lists the caller's requests
func (s *WarrantyService) Mine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[WarrantyResponse], error) {
	page, pageSize = pageDefaults(page, pageSize)
	return s.list(ctx, support.WarrantyFilter{UserID: &userID, Page: page, PageSize: pageSize})
}

// List is the admin view of every request
func (s *WarrantyService) List(ctx context.Context, filter WarrantyListFilter) (shared.Paginated[WarrantyResponse], error) {
	f := support.WarrantyFilter{}
	f.Page, f.PageSize = pageDefaults(filter.Page, filter.PageSize)
	if filter.Status != "" {
		st := support.WarrantyStatus(filter.Status)
		f.Status = &st
	}
	return s.list(ctx, f)
}

func (s *WarrantyService) list(ctx context.Context, f support.WarrantyFilter) (shared.Paginated[WarrantyResponse], error) {
	requests, total, err := s.requests.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[WarrantyResponse]{}, err
	}
	items := make([]WarrantyResponse, len(requests))
	for i, w := range requests {
		items[i] = ToWarrantyResponse(w)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Approve accepts a submitted request
func (s *WarrantyService) Approve(ctx context.Context, id uuid.UUID, req WarrantyDecisionRequest) (*WarrantyResponse, error) {
	return s.decide(ctx, id, func(w *support.WarrantyRequest) error { return w.Approve(req.Note) })
}

// Reject declines a submitted request
func (s *WarrantyService) Reject(ctx context.Context, id uuid.UUID, req WarrantyDecisionRequest) (*WarrantyResponse, error) {
	return s.decide(ctx, id, func(w *support.WarrantyRequest) error { return w.Reject(req.Note) })
}

// Resolve closes an approved request
func (s *WarrantyService) Resolve(ctx context.Context, id uuid.UUID, req WarrantyDecisionRequest) (*WarrantyResponse, error) {
	return s.decide(ctx, id, func(w *support.WarrantyRequest) error { return w.Resolve(req.Note) })
}

func (s *WarrantyService) decide(ctx context.Context, id uuid.UUID, fn func(*support.WarrantyRequest) error) (*WarrantyResponse, error) {
	w, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("Warranty request updated", zap.String("request_id", id.String()), zap.String("status", string(w.Status)))
	resp := ToWarrantyResponse(w)
	return &resp, nil
}

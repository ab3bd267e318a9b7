package support

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/support"
	"go.uber.org/zap"
)

// TicketService handles customer support tickets
type TicketService struct {
	tickets support.TicketRepository
	logger  *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets support.TicketRepository, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger.Named("tickets")}
}

// Create opens a ticket for userID
func (s *TicketService) Create(ctx context.Context, userID uuid.UUID, req CreateTicketRequest) (*TicketResponse, error) {
	t, err := support.NewTicket(userID, req.Title, req.Subject, req.Content)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Support ticket opened", zap.String("ticket_id", t.ID.String()), zap.String("user_id", userID.String()))
	resp := ToTicketResponse(t)
	return &resp, nil
}

// Mine lists the caller's tickets
func (s *TicketService) Mine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[TicketResponse], error) {
	page, pageSize = pageDefaults(page, pageSize)
	return s.list(ctx, support.TicketFilter{UserID: &userID, Page: page, PageSize: pageSize})
}

// List is the admin ticket search
func (s *TicketService) List(ctx context.Context, filter TicketListFilter) (shared.Paginated[TicketResponse], error) {
	f := support.TicketFilter{Search: filter.Search}
	f.Page, f.PageSize = pageDefaults(filter.Page, filter.PageSize)
	if filter.Status != "" {
		st := support.TicketStatus(filter.Status)
		f.Status = &st
	}
	return s.list(ctx, f)
}

func (s *TicketService) list(ctx context.Context, f support.TicketFilter) (shared.Paginated[TicketResponse], error) {
	tickets, total, err := s.tickets.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[TicketResponse]{}, err
	}
	items := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		items[i] = ToTicketResponse(t)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns a ticket to its author or an admin
func (s *TicketService) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (*TicketResponse, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && t.UserID != userID {
		return nil, shared.ErrNotFound.WithMessage("Ticket not found")
	}
	resp := ToTicketResponse(t)
	return &resp, nil
}

// Reply answers a ticket and moves it to IN_PROGRESS
func (s *TicketService) Reply(ctx context.Context, adminID, id uuid.UUID, req ReplyTicketRequest) (*TicketResponse, error) {
	return s.change(ctx, id, func(t *support.Ticket) error {
		return t.Reply(adminID, req.Reply)
	})
}

// SetStatus moves a ticket. Closed tickets stay closed.
func (s *TicketService) SetStatus(ctx context.Context, id uuid.UUID, req TicketStatusRequest) (*TicketResponse, error) {
	return s.change(ctx, id, func(t *support.Ticket) error {
		return t.SetStatus(support.TicketStatus(req.Status))
	})
}

func (s *TicketService) change(ctx context.Context, id uuid.UUID, fn func(*support.Ticket) error) (*TicketResponse, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := s.tickets.Update(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Support ticket updated", zap.String("ticket_id", id.String()), zap.String("status", string(t.Status)))
	resp := ToTicketResponse(t)
	return &resp, nil
}

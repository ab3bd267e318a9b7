package order

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/secureshop/backend/internal/domain/order"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrConfirmationInvalid is returned for unknown, used or expired links
var ErrConfirmationInvalid = shared.NewDomainError("TOKEN_INVALID", "Confirmation link is invalid or has expired")

// ConfirmationMail is the order confirmation email content
type ConfirmationMail struct {
	To         string
	Name       string
	OrderRef   string
	ItemCount  int
	GrandTotal string
	Link       string
}

// ConfirmationMailer delivers order confirmation emails
type ConfirmationMailer interface {
	SendOrderConfirmation(ctx context.Context, mail ConfirmationMail) error
}

// ConfirmationConfig controls confirmation links
type ConfirmationConfig struct {
	// BaseURL is the storefront page that posts the token back
	BaseURL string
	TTL     time.Duration
}

// ConfirmationResult reports the order state after a confirmation link
// was used
type ConfirmationResult struct {
	Order            OrderResponse `json:"order"`
	// AlreadyProcessed is true when the order had left PENDING before
	AlreadyProcessed bool          `json:"alreadyProcessed"`
}

// ConfirmationService mails a confirmation link for every placed order and
// confirms the order when the customer follows it
type ConfirmationService struct {
	orders  order.Repository
	service *OrderService
	tokens  auth.VerificationTokens
	mailer  ConfirmationMailer
	config  ConfirmationConfig
	logger  *zap.Logger
}

// NewConfirmationService creates a ConfirmationService
func NewConfirmationService(
	orders order.Repository,
	service *OrderService,
	tokens auth.VerificationTokens,
	mailer ConfirmationMailer,
	config ConfirmationConfig,
	logger *zap.Logger,
) *ConfirmationService {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	return &ConfirmationService{
		orders:  orders,
		service: service,
		tokens:  tokens,
		mailer:  mailer,
		config:  config,
		logger:  logger.Named("order-confirmation"),
	}
}

// EventTypes implements shared.EventHandler
func (s *ConfirmationService) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced}
}

// Handle mails the confirmation link for a placed order. Mail failures are
// logged and do not fail the delivery.
func (s *ConfirmationService) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.EventType() != order.EventTypeOrderPlaced {
		return fmt.Errorf("unexpected event type: expected %s, got %s", order.EventTypeOrderPlaced, event.EventType())
	}

	o, err := s.orders.FindByID(ctx, event.AggregateID())
	if err != nil {
		return err
	}
	if o.Status != order.StatusPending {
		return nil
	}
	if o.Shipping.Email == "" {
		s.logger.Warn("Order has no email, skipping confirmation", zap.String("order_id", o.ID.String()))
		return nil
	}

	token, err := s.tokens.Issue(ctx, o.ID, s.config.TTL)
	if err != nil {
		return fmt.Errorf("issue confirmation token: %w", err)
	}
	mail := ConfirmationMail{
		To:         o.Shipping.Email,
		Name:       o.Shipping.FullName,
		OrderRef:   o.ID.String()[:8],
		ItemCount:  len(o.Items),
		GrandTotal: o.GrandTotal.String(),
		Link:       s.config.BaseURL + "?token=" + url.QueryEscape(token),
	}
	if err := s.mailer.SendOrderConfirmation(ctx, mail); err != nil {
		s.logger.Error("Failed to send order confirmation", zap.String("order_id", o.ID.String()), zap.Error(err))
		return nil
	}
	s.logger.Info("Order confirmation sent", zap.String("order_id", o.ID.String()))
	return nil
}

// Confirm burns the token and moves the order from PENDING to
// WAITING_FOR_DELIVERY. Orders that already left PENDING are reported as
// processed instead of failing.
func (s *ConfirmationService) Confirm(ctx context.Context, token string) (*ConfirmationResult, error) {
	orderID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrVerificationTokenInvalid) {
			return nil, ErrConfirmationInvalid
		}
		return nil, err
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrConfirmationInvalid
		}
		return nil, err
	}
	if o.Status != order.StatusPending {
		return &ConfirmationResult{Order: ToOrderResponse(o), AlreadyProcessed: true}, nil
	}

	resp, err := s.service.Confirm(ctx, orderID)
	if err != nil {
		// an admin or a second click may have won the race
		current, findErr := s.orders.FindByID(ctx, orderID)
		if findErr == nil && current.Status != order.StatusPending {
			return &ConfirmationResult{Order: ToOrderResponse(current), AlreadyProcessed: true}, nil
		}
		return nil, err
	}
	s.logger.Info("Order confirmed by customer", zap.String("order_id", orderID.String()))
	return &ConfirmationResult{Order: *resp}, nil
}

var _ shared.EventHandler = (*ConfirmationService)(nil)

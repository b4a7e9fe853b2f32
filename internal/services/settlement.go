package services

import (
	"errors"
	"fmt"
	"time"

	"tickethub/internal/models"
	"tickethub/internal/repositories"

	"github.com/google/uuid"
)

// TicketReader reads ticket tiers
type TicketReader interface {
	GetByID(id int) (*models.Ticket, error)
}

// EventReader reads events
type EventReader interface {
	GetByID(id int) (*models.Event, error)
}

// PromotionReader finds the promotion active for an event at a point in time
type PromotionReader interface {
	GetActiveByEvent(eventID int, now time.Time) (*models.Promotion, error)
}

// CouponFinder resolves a coupon code to a valid coupon for a user
type CouponFinder interface {
	FindValid(code string, userID int, now time.Time) (*models.DiscountCoupon, error)
}

// SettlementStore performs the atomic commit of a purchase and serves
// transaction lookups afterwards
type SettlementStore interface {
	Settle(params *repositories.SettlementParams) (*repositories.SettlementResult, error)
	GetByID(id int) (*models.Transaction, error)
	ListByUser(userID int) ([]*models.Transaction, error)
}

// SettlementService orchestrates ticket purchases: it validates the request,
// prices it, and hands the computed amounts to the store for the atomic
// commit. All failures are translated to the models error taxonomy before
// they reach a handler.
type SettlementService struct {
	ticketRepo      TicketReader
	eventRepo       EventReader
	promotionRepo   PromotionReader
	couponRepo      CouponFinder
	settlementStore SettlementStore
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	ticketRepo TicketReader,
	eventRepo EventReader,
	promotionRepo PromotionReader,
	couponRepo CouponFinder,
	settlementStore SettlementStore,
) *SettlementService {
	return &SettlementService{
		ticketRepo:      ticketRepo,
		eventRepo:       eventRepo,
		promotionRepo:   promotionRepo,
		couponRepo:      couponRepo,
		settlementStore: settlementStore,
	}
}

// PurchaseResult is returned to the caller of a successful purchase
type PurchaseResult struct {
	Transaction           *models.Transaction `json:"transaction"`
	UpdatedTicketQuantity int                 `json:"updatedTicketQuantity"`
}

// Purchase runs a full settlement for one purchase request.
//
// Validation fails fast with no mutation. The inventory check here is only a
// courtesy pre-check; the store re-validates it under a row lock inside the
// atomic commit. A coupon code that resolves to no valid coupon is ignored
// rather than rejected, matching the quoting behavior: the purchase goes
// through at the undiscounted price.
func (s *SettlementService) Purchase(userID int, req *models.PurchaseRequest) (*PurchaseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	ticket, err := s.ticketRepo.GetByID(req.TicketID)
	if err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !ticket.HasAvailable(req.Quantity) {
		return nil, fmt.Errorf("%w (requested: %d, available: %d)",
			models.ErrInsufficientInventory, req.Quantity, ticket.Quantity)
	}

	event, err := s.eventRepo.GetByID(ticket.EventID)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	now := time.Now()

	var promotion *models.Promotion
	var coupon *models.DiscountCoupon
	if !event.IsFreeEvent {
		promotion, err = s.promotionRepo.GetActiveByEvent(event.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to load promotion: %w", err)
		}

		if req.CouponCode != "" {
			coupon, err = s.couponRepo.FindValid(req.CouponCode, userID, now)
			if err != nil && !errors.Is(err, models.ErrCouponNotFound) {
				return nil, fmt.Errorf("failed to load coupon: %w", err)
			}
		}
	}

	quote := PriceTicket(ticket, event, req.Quantity, promotion, coupon, now)

	params := &repositories.SettlementParams{
		Reference:       uuid.New().String(),
		UserID:          userID,
		EventID:         ticket.EventID,
		TicketID:        ticket.ID,
		Quantity:        req.Quantity,
		Amount:          quote.Amount,
		DiscountApplied: quote.DiscountApplied,
		FinalAmount:     quote.FinalAmount,
	}
	if coupon != nil {
		params.CouponID = &coupon.ID
	}
	if req.CouponCode != "" {
		code := req.CouponCode
		params.UsedReferralCode = &code
	}

	result, err := s.settlementStore.Settle(params)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTicketNotFound),
			errors.Is(err, models.ErrInsufficientInventory),
			errors.Is(err, models.ErrCouponNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("settlement failed: %w", err)
		}
	}

	return &PurchaseResult{
		Transaction:           result.Transaction,
		UpdatedTicketQuantity: result.RemainingQuantity,
	}, nil
}

// GetTransaction retrieves a single transaction by ID
func (s *SettlementService) GetTransaction(id int) (*models.Transaction, error) {
	return s.settlementStore.GetByID(id)
}

// ListUserTransactions retrieves a user's transactions, newest first
func (s *SettlementService) ListUserTransactions(userID int) ([]*models.Transaction, error) {
	return s.settlementStore.ListByUser(userID)
}

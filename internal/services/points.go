package services

import (
	"errors"
	"fmt"
	"time"

	"tickethub/internal/models"
)

const (
	// ReferralPointsAmount is awarded to the referrer for each completed referral
	ReferralPointsAmount = 10000

	// PointValidityMonths is how long a grant counts toward the balance
	PointValidityMonths = 3
)

// PointStore is the ledger storage used by the points service
type PointStore interface {
	Grant(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error)
	Redeem(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error)
	ListByUser(userID int) ([]*models.PointTransaction, error)
}

// PointUserReader reads users for balance checks
type PointUserReader interface {
	GetByID(id int) (*models.User, error)
}

// PointsService manages referral point grants and redemption against the
// points ledger. The ledger is the source of truth; the cached users.points
// counter is updated by the store in the same transaction as each ledger row.
type PointsService struct {
	pointRepo PointStore
	userRepo  PointUserReader
}

// NewPointsService creates a new points service
func NewPointsService(pointRepo PointStore, userRepo PointUserReader) *PointsService {
	return &PointsService{
		pointRepo: pointRepo,
		userRepo:  userRepo,
	}
}

// RedemptionResult is returned from a successful points redemption
type RedemptionResult struct {
	OriginalPrice  int `json:"originalPrice"`
	PointsRedeemed int `json:"pointsRedeemed"`
	FinalPrice     int `json:"finalPrice"`
}

// GrantReferralPoints awards the fixed referral bonus to a referrer. The
// caller is responsible for invoking this exactly once per completed
// referral; the ledger does not deduplicate grants.
func (s *PointsService) GrantReferralPoints(referrerID int) error {
	expiresAt := time.Now().AddDate(0, PointValidityMonths, 0)

	if _, err := s.pointRepo.Grant(referrerID, ReferralPointsAmount, expiresAt); err != nil {
		return fmt.Errorf("failed to grant referral points: %w", err)
	}

	return nil
}

// RedeemPoints redeems as many of the user's valid points as the ticket price
// allows. The redemption is capped at the sum of non-expired grants, so the
// final price never goes negative.
func (s *PointsService) RedeemPoints(userID int, ticketPrice int) (*RedemptionResult, error) {
	if ticketPrice <= 0 {
		return nil, fmt.Errorf("%w: ticket price must be a positive number", models.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	entries, err := s.pointRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load points ledger: %w", err)
	}

	now := time.Now()
	validPoints := models.ValidPointBalance(entries, now)

	pointsToRedeem := validPoints
	if pointsToRedeem > ticketPrice {
		pointsToRedeem = ticketPrice
	}

	if pointsToRedeem > 0 {
		// The negative entry gets its own forward expiry; see the ledger model
		expiresAt := now.AddDate(0, PointValidityMonths, 0)
		if _, err := s.pointRepo.Redeem(userID, pointsToRedeem, expiresAt); err != nil {
			return nil, fmt.Errorf("failed to redeem points: %w", err)
		}
	}

	return &RedemptionResult{
		OriginalPrice:  ticketPrice,
		PointsRedeemed: pointsToRedeem,
		FinalPrice:     ticketPrice - pointsToRedeem,
	}, nil
}

// GetBalance returns the user's cached counter alongside the full ledger
func (s *PointsService) GetBalance(userID int) (int, []*models.PointTransaction, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("failed to load user: %w", err)
	}

	entries, err := s.pointRepo.ListByUser(userID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load points ledger: %w", err)
	}

	return user.Points, entries, nil
}

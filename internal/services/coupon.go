package services

import (
	"fmt"
	"time"

	"tickethub/internal/models"
)

const (
	// CouponDiscountAmount is the flat discount carried by referral coupons
	CouponDiscountAmount = 10

	// CouponValidityMonths is how long an issued coupon stays redeemable
	CouponValidityMonths = 3
)

// CouponStore is the coupon storage used by the coupon service
type CouponStore interface {
	Create(userID int, discount int, expiresAt time.Time) (*models.DiscountCoupon, error)
	ListByUser(userID int) ([]*models.DiscountCoupon, error)
}

// CouponService issues and lists single-use discount coupons
type CouponService struct {
	couponRepo CouponStore
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo CouponStore) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Issue creates a time-limited single-use coupon for a user. A correct caller
// triggers this once per completed referral.
func (s *CouponService) Issue(userID int) (*models.DiscountCoupon, error) {
	expiresAt := time.Now().AddDate(0, CouponValidityMonths, 0)

	coupon, err := s.couponRepo.Create(userID, CouponDiscountAmount, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to issue coupon: %w", err)
	}

	return coupon, nil
}

// ListForUser returns all of a user's coupons
func (s *CouponService) ListForUser(userID int) ([]*models.DiscountCoupon, error) {
	coupons, err := s.couponRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

package services

import (
	"log"

	"tickethub/internal/models"
)

// ReferralPointsGranter awards the referrer's bonus
type ReferralPointsGranter interface {
	GrantReferralPoints(referrerID int) error
}

// ReferralCouponIssuer issues the referee's welcome coupon
type ReferralCouponIssuer interface {
	Issue(userID int) (*models.DiscountCoupon, error)
}

// ReferralService runs the side effects of a completed referral: the point
// grant to the referrer and the coupon issue to the new user. Both are
// best-effort; a failure is logged and never rolls back or fails the
// registration or verification that triggered it.
type ReferralService struct {
	points  ReferralPointsGranter
	coupons ReferralCouponIssuer
}

// NewReferralService creates a new referral service
func NewReferralService(points ReferralPointsGranter, coupons ReferralCouponIssuer) *ReferralService {
	return &ReferralService{
		points:  points,
		coupons: coupons,
	}
}

// Complete runs the referral side effects for a newly eligible user. The
// caller guarantees single invocation per referral; Complete itself does not
// deduplicate.
func (s *ReferralService) Complete(user *models.User) {
	if user.ReferredByID == nil {
		return
	}

	if err := s.points.GrantReferralPoints(*user.ReferredByID); err != nil {
		log.Printf("referral: failed to grant points to referrer %d for user %d: %v",
			*user.ReferredByID, user.ID, err)
	}

	if _, err := s.coupons.Issue(user.ID); err != nil {
		log.Printf("referral: failed to issue coupon to user %d: %v", user.ID, err)
	}
}

// CompleteAsync queues Complete after the triggering operation has committed
func (s *ReferralService) CompleteAsync(user *models.User) {
	go s.Complete(user)
}

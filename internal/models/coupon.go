package models

import "time"

// DiscountCoupon represents a single-use flat discount tied to one user.
// IsUsed transitions false to true exactly once, inside the settlement that
// consumes the coupon, and never reverts.
type DiscountCoupon struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Code      string    `json:"code" db:"code"`
	Discount  int       `json:"discount" db:"discount"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	IsUsed    bool      `json:"is_used" db:"is_used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsValidAt returns true if the coupon is unused and unexpired at the given time
func (c *DiscountCoupon) IsValidAt(t time.Time) bool {
	return !c.IsUsed && c.ExpiresAt.After(t)
}

// GenerateCouponCode generates a random coupon code
func GenerateCouponCode() string {
	return GenerateReferralCode()
}

package services

import (
	"time"

	"tickethub/internal/models"
)

// Quote is the result of pricing a ticket purchase
type Quote struct {
	Amount          int `json:"amount"`
	DiscountApplied int `json:"discount_applied"`
	FinalAmount     int `json:"final_amount"`
}

// PriceTicket computes the gross amount, total discount and final amount for
// a purchase. It has no side effects and can be called repeatedly for quoting;
// consuming the coupon is the settlement's job, not pricing's.
//
// Free events short-circuit to all-zero amounts regardless of promotion or
// coupon input. A promotion only applies while now falls within its window,
// and a coupon only while it is unused and unexpired. The final amount is
// floored at zero.
func PriceTicket(ticket *models.Ticket, event *models.Event, quantity int, promotion *models.Promotion, coupon *models.DiscountCoupon, now time.Time) Quote {
	if event.IsFreeEvent {
		return Quote{}
	}

	amount := ticket.Price * quantity
	discountApplied := 0

	if promotion != nil && promotion.IsActiveAt(now) {
		discountApplied += amount * promotion.DiscountPercent / 100
	}

	if coupon != nil && coupon.IsValidAt(now) {
		discountApplied += coupon.Discount
	}

	finalAmount := amount - discountApplied
	if finalAmount < 0 {
		finalAmount = 0
	}

	return Quote{
		Amount:          amount,
		DiscountApplied: discountApplied,
		FinalAmount:     finalAmount,
	}
}

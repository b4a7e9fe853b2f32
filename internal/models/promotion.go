package models

import (
	"errors"
	"time"
)

// Promotion represents a percentage discount on an event's tickets, active
// while the current time falls within [StartDate, EndDate).
type Promotion struct {
	ID              int       `json:"id" db:"id"`
	EventID         int       `json:"event_id" db:"event_id"`
	DiscountPercent int       `json:"discount_percent" db:"discount_percent"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PromotionCreateRequest represents the data needed to create a promotion
type PromotionCreateRequest struct {
	DiscountPercent int       `json:"discount_percent"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// Validate validates promotion creation data
func (req *PromotionCreateRequest) Validate() error {
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return errors.New("discount percent must be between 0 and 100")
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return errors.New("promotion start and end dates are required")
	}

	if !req.EndDate.After(req.StartDate) {
		return errors.New("promotion end date must be after start date")
	}

	return nil
}

// IsActiveAt returns true if the promotion is active at the given time
func (p *Promotion) IsActiveAt(t time.Time) bool {
	return !t.Before(p.StartDate) && t.Before(p.EndDate)
}

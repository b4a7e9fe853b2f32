package models

import (
	"errors"
	"time"
)

// TransactionStatus represents the status of a financial transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// Transaction represents the financial record of one ticket purchase. A single
// row covers the whole purchased quantity. Amount, DiscountApplied and
// FinalAmount are all zero for free events.
type Transaction struct {
	ID               int               `json:"id" db:"id"`
	Reference        string            `json:"reference" db:"reference"`
	EventID          int               `json:"event_id" db:"event_id"`
	UserID           int               `json:"user_id" db:"user_id"`
	Amount           int               `json:"amount" db:"amount"`
	DiscountApplied  int               `json:"discount_applied" db:"discount_applied"`
	FinalAmount      int               `json:"final_amount" db:"final_amount"`
	Status           TransactionStatus `json:"status" db:"status"`
	UsedReferralCode *string           `json:"used_referral_code,omitempty" db:"used_referral_code"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
}

// PurchaseRequest is the typed body of a purchase call
type PurchaseRequest struct {
	EventID    int    `json:"eventId"`
	TicketID   int    `json:"ticketId"`
	Quantity   int    `json:"quantity"`
	CouponCode string `json:"couponCode,omitempty"`
}

// Validate validates a purchase request
func (req *PurchaseRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("eventId is required")
	}

	if req.TicketID <= 0 {
		return errors.New("ticketId is required")
	}

	if req.Quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}

	return nil
}

// EventAttendee links a user to an event they bought into. At most one row
// exists per (event, user) pair no matter how many purchases the user makes.
type EventAttendee struct {
	ID         int       `json:"id" db:"id"`
	EventID    int       `json:"event_id" db:"event_id"`
	AttendeeID int       `json:"attendee_id" db:"attendee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsCompleted returns true if the transaction settled successfully
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionCompleted
}

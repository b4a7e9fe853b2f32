package models

import (
	"errors"
	"strings"
	"time"
)

// Ticket represents a ticket tier for an event. Quantity is the remaining
// inventory; it is decremented only inside a successful settlement and must
// never go negative.
type Ticket struct {
	ID          int       `json:"id" db:"id"`
	EventID     int       `json:"event_id" db:"event_id"`
	Type        string    `json:"type" db:"type"`
	Price       int       `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TicketCreateRequest represents the data needed to create a ticket tier
type TicketCreateRequest struct {
	Type        string `json:"type"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// Validate validates ticket tier creation data
func (req *TicketCreateRequest) Validate() error {
	if strings.TrimSpace(req.Type) == "" {
		return errors.New("ticket type is required")
	}

	if req.Price < 0 {
		return errors.New("ticket price cannot be negative")
	}

	if req.Quantity < 0 {
		return errors.New("ticket quantity cannot be negative")
	}

	return nil
}

// HasAvailable returns true if at least quantity tickets remain
func (t *Ticket) HasAvailable(quantity int) bool {
	return t.Quantity >= quantity
}

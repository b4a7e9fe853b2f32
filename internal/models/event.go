package models

import (
	"errors"
	"strings"
	"time"
)

// Event represents an event in the system
type Event struct {
	ID          int       `json:"id" db:"id"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
	Category    string    `json:"category" db:"category"`
	Capacity    int       `json:"capacity" db:"capacity"`
	IsFreeEvent bool      `json:"is_free_event" db:"is_free_event"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Related data
	Organizer  *User        `json:"organizer,omitempty"`
	Tickets    []*Ticket    `json:"tickets,omitempty"`
	Promotions []*Promotion `json:"promotions,omitempty"`
}

// EventCreateRequest represents the data needed to create a new event,
// optionally together with its ticket tiers and one promotion.
type EventCreateRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Date        time.Time                 `json:"date"`
	Location    string                    `json:"location"`
	Category    string                    `json:"category"`
	Capacity    int                       `json:"capacity"`
	IsFreeEvent bool                      `json:"is_free_event"`
	Tickets     []*TicketCreateRequest    `json:"tickets"`
	Promotion   *PromotionCreateRequest   `json:"promotion"`
}

// EventSummary is the listing projection of an event: organizer name, cheapest
// ticket price and the first promotion, the way the public event list shows it.
type EventSummary struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Date          time.Time  `json:"date"`
	Location      string     `json:"location"`
	Category      string     `json:"category"`
	OrganizerName string     `json:"organizer"`
	IsFreeEvent   bool       `json:"is_free_event"`
	MinPrice      *int       `json:"min_price,omitempty"`
	Promotion     *Promotion `json:"promotion,omitempty"`
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("event name is required")
	}

	if len(req.Name) > 255 {
		return errors.New("event name must be less than 255 characters")
	}

	if req.Date.IsZero() {
		return errors.New("event date is required")
	}

	if req.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}

	for _, ticket := range req.Tickets {
		if err := ticket.Validate(); err != nil {
			return err
		}
	}

	if req.Promotion != nil {
		if err := req.Promotion.Validate(); err != nil {
			return err
		}
	}

	return nil
}

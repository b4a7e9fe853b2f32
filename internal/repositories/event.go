package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates an event together with its ticket tiers and optional
// promotion in a single transaction.
func (r *EventRepository) Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	event := &models.Event{}

	err = tx.QueryRow(`
		INSERT INTO events (organizer_id, name, description, date, location, category, capacity, is_free_event, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, organizer_id, name, description, date, location, category, capacity, is_free_event, created_at, updated_at`,
		organizerID,
		req.Name,
		req.Description,
		req.Date,
		req.Location,
		req.Category,
		req.Capacity,
		req.IsFreeEvent,
		now,
	).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Category,
		&event.Capacity,
		&event.IsFreeEvent,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	for _, ticketReq := range req.Tickets {
		ticket := &models.Ticket{}
		err = tx.QueryRow(`
			INSERT INTO tickets (event_id, type, price, quantity, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, event_id, type, price, quantity, description, created_at`,
			event.ID,
			ticketReq.Type,
			ticketReq.Price,
			ticketReq.Quantity,
			ticketReq.Description,
			now,
		).Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.Type,
			&ticket.Price,
			&ticket.Quantity,
			&ticket.Description,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticket tier: %w", err)
		}
		event.Tickets = append(event.Tickets, ticket)
	}

	if req.Promotion != nil {
		promotion := &models.Promotion{}
		err = tx.QueryRow(`
			INSERT INTO promotions (event_id, discount_percent, start_date, end_date, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, event_id, discount_percent, start_date, end_date, created_at`,
			event.ID,
			req.Promotion.DiscountPercent,
			req.Promotion.StartDate,
			req.Promotion.EndDate,
			now,
		).Scan(
			&promotion.ID,
			&promotion.EventID,
			&promotion.DiscountPercent,
			&promotion.StartDate,
			&promotion.EndDate,
			&promotion.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create promotion: %w", err)
		}
		event.Promotions = append(event.Promotions, promotion)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event creation: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event with its ticket tiers and promotions
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	event := &models.Event{}
	err := r.db.QueryRow(`
		SELECT id, organizer_id, name, description, date, location, category, capacity, is_free_event, created_at, updated_at
		FROM events
		WHERE id = $1`, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Category,
		&event.Capacity,
		&event.IsFreeEvent,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT id, event_id, type, price, quantity, description, created_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY price`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event tickets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ticket := &models.Ticket{}
		if err := rows.Scan(&ticket.ID, &ticket.EventID, &ticket.Type, &ticket.Price, &ticket.Quantity, &ticket.Description, &ticket.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		event.Tickets = append(event.Tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tickets: %w", err)
	}

	promoRows, err := r.db.Query(`
		SELECT id, event_id, discount_percent, start_date, end_date, created_at
		FROM promotions
		WHERE event_id = $1
		ORDER BY start_date`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event promotions: %w", err)
	}
	defer promoRows.Close()

	for promoRows.Next() {
		promotion := &models.Promotion{}
		if err := promoRows.Scan(&promotion.ID, &promotion.EventID, &promotion.DiscountPercent, &promotion.StartDate, &promotion.EndDate, &promotion.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		event.Promotions = append(event.Promotions, promotion)
	}
	if err := promoRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read promotions: %w", err)
	}

	return event, nil
}

// List returns the public listing projection of all events: organizer name,
// cheapest ticket price and the first promotion active at the given time.
func (r *EventRepository) List(now time.Time) ([]*models.EventSummary, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.name, e.date, e.location, e.category, e.is_free_event, u.name,
		       MIN(t.price),
		       p.id, p.event_id, p.discount_percent, p.start_date, p.end_date
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		LEFT JOIN tickets t ON t.event_id = e.id
		LEFT JOIN LATERAL (
			SELECT id, event_id, discount_percent, start_date, end_date
			FROM promotions
			WHERE event_id = e.id AND start_date <= $1 AND end_date > $1
			ORDER BY start_date
			LIMIT 1
		) p ON TRUE
		GROUP BY e.id, u.name, p.id, p.event_id, p.discount_percent, p.start_date, p.end_date
		ORDER BY e.date`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var summaries []*models.EventSummary
	for rows.Next() {
		summary := &models.EventSummary{}
		var minPrice sql.NullInt64
		var promoID, promoEventID, promoPercent sql.NullInt64
		var promoStart, promoEnd sql.NullTime

		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Date,
			&summary.Location,
			&summary.Category,
			&summary.IsFreeEvent,
			&summary.OrganizerName,
			&minPrice,
			&promoID,
			&promoEventID,
			&promoPercent,
			&promoStart,
			&promoEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event summary: %w", err)
		}

		if minPrice.Valid && !summary.IsFreeEvent {
			price := int(minPrice.Int64)
			summary.MinPrice = &price
		}

		if promoID.Valid {
			summary.Promotion = &models.Promotion{
				ID:              int(promoID.Int64),
				EventID:         int(promoEventID.Int64),
				DiscountPercent: int(promoPercent.Int64),
				StartDate:       promoStart.Time,
				EndDate:         promoEnd.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

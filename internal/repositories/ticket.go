package repositories

import (
	"database/sql"
	"fmt"

	"tickethub/internal/models"
)

// TicketRepository handles ticket tier data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// GetByID retrieves a ticket tier by ID
func (r *TicketRepository) GetByID(id int) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, type, price, quantity, description, created_at
		FROM tickets
		WHERE id = $1`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Type,
		&ticket.Price,
		&ticket.Quantity,
		&ticket.Description,
		&ticket.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByEvent retrieves all ticket tiers for an event
func (r *TicketRepository) GetByEvent(eventID int) ([]*models.Ticket, error) {
	query := `
		SELECT id, event_id, type, price, quantity, description, created_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY price`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for event: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.Type,
			&ticket.Price,
			&ticket.Quantity,
			&ticket.Description,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// PromotionRepository handles promotion data operations
type PromotionRepository struct {
	db *sql.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *sql.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// GetActiveByEvent returns the first promotion active at the given time for
// an event, or nil when none is active. Only one promotion is ever applied to
// a purchase even if several overlap.
func (r *PromotionRepository) GetActiveByEvent(eventID int, now time.Time) (*models.Promotion, error) {
	query := `
		SELECT id, event_id, discount_percent, start_date, end_date, created_at
		FROM promotions
		WHERE event_id = $1 AND start_date <= $2 AND end_date > $2
		ORDER BY start_date
		LIMIT 1`

	promotion := &models.Promotion{}
	err := r.db.QueryRow(query, eventID, now).Scan(
		&promotion.ID,
		&promotion.EventID,
		&promotion.DiscountPercent,
		&promotion.StartDate,
		&promotion.EndDate,
		&promotion.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active promotion: %w", err)
	}

	return promotion, nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// PointRepository handles the points ledger and the cached per-user balance.
// The cached users.points counter is only ever mutated in the same database
// transaction as the ledger row that changes it.
type PointRepository struct {
	db *sql.DB
}

// NewPointRepository creates a new point repository
func NewPointRepository(db *sql.DB) *PointRepository {
	return &PointRepository{db: db}
}

// Grant inserts a positive ledger entry and increments the user's cached
// balance atomically.
func (r *PointRepository) Grant(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry := &models.PointTransaction{}
	err = tx.QueryRow(`
		INSERT INTO point_transactions (user_id, points, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, points, expires_at, created_at`,
		userID, points, expiresAt, time.Now(),
	).Scan(&entry.ID, &entry.UserID, &entry.Points, &entry.ExpiresAt, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert point grant: %w", err)
	}

	result, err := tx.Exec(`UPDATE users SET points = points + $2, updated_at = $3 WHERE id = $1`,
		userID, points, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to increment cached points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, models.ErrUserNotFound
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point grant: %w", err)
	}

	return entry, nil
}

// Redeem records a redemption: it decrements the user's cached balance and
// inserts a negative ledger entry, atomically. The negative entry is given a
// forward expiry for compatibility with the stored schema; nothing reads it.
func (r *PointRepository) Redeem(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE users SET points = points - $2, updated_at = $3 WHERE id = $1`,
		userID, points, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to decrement cached points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, models.ErrUserNotFound
	}

	entry := &models.PointTransaction{}
	err = tx.QueryRow(`
		INSERT INTO point_transactions (user_id, points, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, points, expires_at, created_at`,
		userID, -points, expiresAt, time.Now(),
	).Scan(&entry.ID, &entry.UserID, &entry.Points, &entry.ExpiresAt, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert point redemption: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit point redemption: %w", err)
	}

	return entry, nil
}

// ListByUser returns every ledger entry for a user, oldest first. Expired
// grants are included; callers filter by expiry when summing balances.
func (r *PointRepository) ListByUser(userID int) ([]*models.PointTransaction, error) {
	query := `
		SELECT id, user_id, points, expires_at, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list point transactions: %w", err)
	}
	defer rows.Close()

	var entries []*models.PointTransaction
	for rows.Next() {
		entry := &models.PointTransaction{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Points, &entry.ExpiresAt, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point transaction: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ReconcileCachedBalance recomputes a user's cached points counter from the
// ledger inside one transaction. Used at consistency checkpoints; the ledger
// is the source of truth.
func (r *PointRepository) ReconcileCachedBalance(userID int, now time.Time) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var balance sql.NullInt64
	err = tx.QueryRow(`
		SELECT SUM(points)
		FROM point_transactions
		WHERE user_id = $1 AND expires_at > $2`, userID, now).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}

	result, err := tx.Exec(`UPDATE users SET points = $2, updated_at = $3 WHERE id = $1`,
		userID, balance.Int64, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to update cached points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, models.ErrUserNotFound
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	return int(balance.Int64), nil
}

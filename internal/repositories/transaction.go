package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// TransactionRepository handles financial transaction records and the atomic
// settlement commit.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// SettlementParams carries everything the commit phase of a purchase writes.
// Amounts come pre-computed from the pricing engine.
type SettlementParams struct {
	Reference        string
	UserID           int
	EventID          int
	TicketID         int
	Quantity         int
	Amount           int
	DiscountApplied  int
	FinalAmount      int
	CouponID         *int    // coupon to consume, if one was applied
	UsedReferralCode *string // coupon code recorded on the transaction row
}

// SettlementResult is what a successful commit returns
type SettlementResult struct {
	Transaction       *models.Transaction
	RemainingQuantity int
}

// Settle performs the all-or-nothing commit of a purchase: it re-validates
// inventory under a row lock, consumes the coupon, inserts the transaction
// row, decrements the ticket quantity and upserts the attendee record. Any
// failure rolls the whole commit back.
//
// The inventory check runs again here, not just at the earlier validation
// step, so two concurrent purchases against the last remaining units cannot
// both succeed.
func (r *TransactionRepository) Settle(params *SettlementParams) (*SettlementResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRow(`SELECT quantity FROM tickets WHERE id = $1 FOR UPDATE`, params.TicketID).Scan(&available)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to lock ticket row: %w", err)
	}

	if available < params.Quantity {
		return nil, fmt.Errorf("%w (requested: %d, available: %d)",
			models.ErrInsufficientInventory, params.Quantity, available)
	}

	if params.CouponID != nil {
		result, err := tx.Exec(`
			UPDATE discount_coupons
			SET is_used = TRUE
			WHERE id = $1 AND is_used = FALSE`, *params.CouponID)
		if err != nil {
			return nil, fmt.Errorf("failed to consume coupon: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			// Consumed by a concurrent settlement since pricing
			return nil, models.ErrCouponNotFound
		}
	}

	transaction := &models.Transaction{}
	err = tx.QueryRow(`
		INSERT INTO transactions (reference, event_id, user_id, amount, discount_applied, final_amount, status, used_referral_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, reference, event_id, user_id, amount, discount_applied, final_amount, status, used_referral_code, created_at`,
		params.Reference,
		params.EventID,
		params.UserID,
		params.Amount,
		params.DiscountApplied,
		params.FinalAmount,
		models.TransactionCompleted,
		params.UsedReferralCode,
		time.Now(),
	).Scan(
		&transaction.ID,
		&transaction.Reference,
		&transaction.EventID,
		&transaction.UserID,
		&transaction.Amount,
		&transaction.DiscountApplied,
		&transaction.FinalAmount,
		&transaction.Status,
		&transaction.UsedReferralCode,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	var remaining int
	err = tx.QueryRow(`
		UPDATE tickets
		SET quantity = quantity - $2
		WHERE id = $1
		RETURNING quantity`, params.TicketID, params.Quantity).Scan(&remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement ticket quantity: %w", err)
	}

	// Idempotent per (event, user): a repeat purchase never duplicates the row
	_, err = tx.Exec(`
		INSERT INTO event_attendees (event_id, attendee_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, attendee_id) DO NOTHING`,
		params.EventID, params.UserID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendee: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return &SettlementResult{
		Transaction:       transaction,
		RemainingQuantity: remaining,
	}, nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(id int) (*models.Transaction, error) {
	query := `
		SELECT id, reference, event_id, user_id, amount, discount_applied, final_amount, status, used_referral_code, created_at
		FROM transactions
		WHERE id = $1`

	transaction := &models.Transaction{}
	err := r.db.QueryRow(query, id).Scan(
		&transaction.ID,
		&transaction.Reference,
		&transaction.EventID,
		&transaction.UserID,
		&transaction.Amount,
		&transaction.DiscountApplied,
		&transaction.FinalAmount,
		&transaction.Status,
		&transaction.UsedReferralCode,
		&transaction.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return transaction, nil
}

// ListByUser returns a user's transactions, newest first
func (r *TransactionRepository) ListByUser(userID int) ([]*models.Transaction, error) {
	query := `
		SELECT id, reference, event_id, user_id, amount, discount_applied, final_amount, status, used_referral_code, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		err := rows.Scan(
			&transaction.ID,
			&transaction.Reference,
			&transaction.EventID,
			&transaction.UserID,
			&transaction.Amount,
			&transaction.DiscountApplied,
			&transaction.FinalAmount,
			&transaction.Status,
			&transaction.UsedReferralCode,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

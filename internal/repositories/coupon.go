package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// CouponRepository handles discount coupon data operations
type CouponRepository struct {
	db *sql.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create creates a new coupon for a user. On a code collision the insert is
// retried with a fresh code.
func (r *CouponRepository) Create(userID int, discount int, expiresAt time.Time) (*models.DiscountCoupon, error) {
	query := `
		INSERT INTO discount_coupons (user_id, code, discount, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id, user_id, code, discount, expires_at, is_used, created_at`

	now := time.Now()
	code := models.GenerateCouponCode()

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		coupon := &models.DiscountCoupon{}
		err = r.db.QueryRow(query, userID, code, discount, expiresAt, now).Scan(
			&coupon.ID,
			&coupon.UserID,
			&coupon.Code,
			&coupon.Discount,
			&coupon.ExpiresAt,
			&coupon.IsUsed,
			&coupon.CreatedAt,
		)
		if err == nil {
			return coupon, nil
		}
		if !isUniqueViolation(err, "discount_coupons_code_key") {
			break
		}
		code = models.GenerateCouponCode()
	}

	return nil, fmt.Errorf("failed to create coupon: %w", err)
}

// FindValid retrieves a coupon by code that belongs to the user and is still
// unused and unexpired at the given time. Returns ErrCouponNotFound when no
// such coupon exists.
func (r *CouponRepository) FindValid(code string, userID int, now time.Time) (*models.DiscountCoupon, error) {
	query := `
		SELECT id, user_id, code, discount, expires_at, is_used, created_at
		FROM discount_coupons
		WHERE code = $1 AND user_id = $2 AND is_used = FALSE AND expires_at > $3`

	coupon := &models.DiscountCoupon{}
	err := r.db.QueryRow(query, code, userID, now).Scan(
		&coupon.ID,
		&coupon.UserID,
		&coupon.Code,
		&coupon.Discount,
		&coupon.ExpiresAt,
		&coupon.IsUsed,
		&coupon.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}

	return coupon, nil
}

// ListByUser returns all coupons belonging to a user, newest first
func (r *CouponRepository) ListByUser(userID int) ([]*models.DiscountCoupon, error) {
	query := `
		SELECT id, user_id, code, discount, expires_at, is_used, created_at
		FROM discount_coupons
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*models.DiscountCoupon
	for rows.Next() {
		coupon := &models.DiscountCoupon{}
		err := rows.Scan(
			&coupon.ID,
			&coupon.UserID,
			&coupon.Code,
			&coupon.Discount,
			&coupon.ExpiresAt,
			&coupon.IsUsed,
			&coupon.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}

	return coupons, rows.Err()
}

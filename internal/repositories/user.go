package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, points, referral_code, referred_by_id,
	email_verified, verification_token, verified_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.Points,
		&user.ReferralCode,
		&user.ReferredByID,
		&user.EmailVerified,
		&user.VerificationToken,
		&user.VerifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user. The referral code must already be generated and
// unique; on collision the insert is retried with a fresh code.
func (r *UserRepository) Create(req *models.UserCreateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (email, password_hash, name, role, referral_code, referred_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	now := time.Now()
	referralCode := models.GenerateReferralCode()

	var user *models.User
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		user, err = scanUser(r.db.QueryRow(
			query,
			req.Email,
			req.Password, // already hashed by the service layer
			req.Name,
			req.Role,
			referralCode,
			req.ReferredByID,
			now,
			now,
		))
		if err == nil {
			return user, nil
		}
		if !isUniqueViolation(err, "users_referral_code_key") {
			break
		}
		referralCode = models.GenerateReferralCode()
	}

	if isUniqueViolation(err, "users_email_key") {
		return nil, fmt.Errorf("user with email %s already exists: %w", req.Email, models.ErrDuplicateEntry)
	}

	return nil, fmt.Errorf("failed to create user: %w", err)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByReferralCode retrieves the user owning a referral code
func (r *UserRepository) GetByReferralCode(code string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`

	user, err := scanUser(r.db.QueryRow(query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}

	return user, nil
}

// Update updates a user's profile fields
func (r *UserRepository) Update(id int, req *models.UserUpdateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email),
		    updated_at = $4
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(query, id, req.Name, req.Email, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		if isUniqueViolation(err, "users_email_key") {
			return nil, fmt.Errorf("email already in use: %w", models.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(id int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// Session operations

// CreateSession stores a new session for a user
func (r *UserRepository) CreateSession(userID int, sessionID string, expiresAt time.Time) error {
	query := `INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, sessionID, userID, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetUserBySession retrieves the user owning a non-expired session
func (r *UserRepository) GetUserBySession(sessionID string) (*models.User, error) {
	query := `
		SELECT ` + prefixColumns("u", userColumns) + `
		FROM users u
		JOIN sessions s ON s.user_id = u.id
		WHERE s.id = $1 AND s.expires_at > $2`

	user, err := scanUser(r.db.QueryRow(query, sessionID, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by session: %w", err)
	}

	return user, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *UserRepository) DeleteExpiredSessions() error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// Email verification operations

// SetVerificationToken stores an email verification token for a user
func (r *UserRepository) SetVerificationToken(userID int, token string) error {
	query := `UPDATE users SET verification_token = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// GetByVerificationToken retrieves a user by verification token
func (r *UserRepository) GetByVerificationToken(token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`

	user, err := scanUser(r.db.QueryRow(query, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	return user, nil
}

// VerifyEmail marks a user's email as verified and clears the token
func (r *UserRepository) VerifyEmail(userID int) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, verification_token = NULL, verified_at = $2, updated_at = $2
		WHERE id = $1`

	result, err := r.db.Exec(query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

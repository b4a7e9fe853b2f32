package models

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleCustomer  UserRole = "CUSTOMER"
	RoleOrganizer UserRole = "ORGANIZER"
)

// User represents a user account. Points is a cached running total of the
// user's non-expired point transactions; the point_transactions ledger is the
// source of truth and the counter is only ever mutated in the same database
// transaction as the ledger row that changes it.
type User struct {
	ID                int        `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	Name              string     `json:"name" db:"name"`
	Role              UserRole   `json:"role" db:"role"`
	Points            int        `json:"points" db:"points"`
	ReferralCode      string     `json:"referral_code" db:"referral_code"`
	ReferredByID      *int       `json:"referred_by_id,omitempty" db:"referred_by_id"`
	EmailVerified     bool       `json:"email_verified" db:"email_verified"`
	VerificationToken *string    `json:"-" db:"verification_token"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	ReferralCode string   `json:"referral_code"`
	ReferredByID *int     `json:"-"`
}

// UserUpdateRequest represents the data that can be updated for a user
type UserUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if err := validateUserEmail(req.Email); err != nil {
		return err
	}

	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}

	if len(req.Name) > 255 {
		return errors.New("name must be less than 255 characters")
	}

	return validateUserRole(req.Role)
}

// Validate validates user update data
func (req *UserUpdateRequest) Validate() error {
	if req.Name == "" && req.Email == "" {
		return errors.New("at least one field must be provided for update")
	}

	if req.Email != "" {
		if err := validateUserEmail(req.Email); err != nil {
			return err
		}
	}

	if len(req.Name) > 255 {
		return errors.New("name must be less than 255 characters")
	}

	return nil
}

func validateUserEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}

	if len(email) > 255 {
		return errors.New("email must be less than 255 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}

	return nil
}

func validateUserRole(role UserRole) error {
	switch role {
	case RoleCustomer, RoleOrganizer:
		return nil
	default:
		return errors.New("invalid user role")
	}
}

// IsOrganizer returns true if the user can create and manage events
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

const referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferralCode generates a random 6-character referral code
func GenerateReferralCode() string {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(referralCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback to a time-seeded pick if crypto/rand fails
			n = big.NewInt(time.Now().UnixNano() % int64(len(referralCodeAlphabet)))
		}
		code[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(code)
}

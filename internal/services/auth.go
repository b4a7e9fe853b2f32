package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"tickethub/internal/models"
	"tickethub/internal/utils"
)

// AuthUserRepository is the user storage used by the auth service
type AuthUserRepository interface {
	Create(req *models.UserCreateRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	CreateSession(userID int, sessionID string, expiresAt time.Time) error
	GetUserBySession(sessionID string) (*models.User, error)
	DeleteSession(sessionID string) error
	SetVerificationToken(userID int, token string) error
	GetByVerificationToken(token string) (*models.User, error)
	VerifyEmail(userID int) error
}

// AuthService handles registration, login and session validation. It also
// dispatches referral completion: immediately after registration by default,
// or after email verification when grantOnVerify is set.
type AuthService struct {
	userRepo      AuthUserRepository
	emailService  EmailService
	referrals     *ReferralService
	grantOnVerify bool
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo AuthUserRepository, emailService EmailService, referrals *ReferralService, grantOnVerify bool) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		emailService:  emailService,
		referrals:     referrals,
		grantOnVerify: grantOnVerify,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Name         string          `json:"name"`
	Role         models.UserRole `json:"role"`
	ReferralCode string          `json:"referralCode,omitempty"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User      *models.User `json:"user"`
	SessionID string       `json:"sessionId"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

const sessionDuration = 24 * time.Hour

// Register creates a new user account. A referral code that resolves to an
// existing user links the new account to its referrer; an unknown code is
// ignored. The referred_by link is set exactly once, at creation.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	createReq := &models.UserCreateRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}
	if createReq.Role == "" {
		createReq.Role = models.RoleCustomer
	}

	if err := createReq.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	existingUser, err := s.userRepo.GetByEmail(req.Email)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("user with email %s already exists: %w", req.Email, models.ErrDuplicateEntry)
	}

	if req.ReferralCode != "" {
		referrer, err := s.userRepo.GetByReferralCode(req.ReferralCode)
		if err == nil && referrer != nil {
			createReq.ReferredByID = &referrer.ID
		} else {
			log.Printf("auth: no referrer found for referral code %s", req.ReferralCode)
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	createReq.Password = hashedPassword

	user, err := s.userRepo.Create(createReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationToken, err := s.generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	if err := s.userRepo.SetVerificationToken(user.ID, verificationToken); err != nil {
		return nil, fmt.Errorf("failed to set verification token: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendVerificationEmail(user.Email, user.Name, verificationToken); err != nil {
			// Log the error but don't fail registration
			log.Printf("auth: failed to send verification email to %s: %v", user.Email, err)
		}
	}

	// In the verification variant the referral completes only once the new
	// user verifies their email
	if !s.grantOnVerify && user.ReferredByID != nil {
		s.referrals.CompleteAsync(user)
	}

	sessionID, expiresAt, err := s.createSession(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:      user,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	sessionID, expiresAt, err := s.createSession(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:      user,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateSession resolves a session ID to its user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.userRepo.GetUserBySession(sessionID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	return user, nil
}

// Logout deletes a session
func (s *AuthService) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.userRepo.DeleteSession(sessionID)
}

// VerifyEmail marks the account matching the token as verified. The token is
// cleared in the same update, so a referral completion triggered here can
// only ever fire once.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: verification token is required", models.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid or expired verification token: %w", models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	if err := s.userRepo.VerifyEmail(user.ID); err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	user.EmailVerified = true

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("auth: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	if s.grantOnVerify && user.ReferredByID != nil {
		s.referrals.CompleteAsync(user)
	}

	return user, nil
}

// RequireRole returns ErrUnauthorized unless the user holds the role
func (s *AuthService) RequireRole(user *models.User, role models.UserRole) error {
	if user == nil || user.Role != role {
		return models.ErrUnauthorized
	}
	return nil
}

func (s *AuthService) createSession(userID int) (string, time.Time, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session ID: %w", err)
	}
	sessionID := hex.EncodeToString(bytes)

	expiresAt := time.Now().Add(sessionDuration)
	if err := s.userRepo.CreateSession(userID, sessionID, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	return sessionID, expiresAt, nil
}

func (s *AuthService) generateToken() (string, error) {
	return utils.GenerateSecureToken(32)
}

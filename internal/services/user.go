package services

import (
	"errors"
	"fmt"

	"tickethub/internal/models"
	"tickethub/internal/utils"
)

// ProfileUserRepository is the user storage used by the user service
type ProfileUserRepository interface {
	GetByID(id int) (*models.User, error)
	Update(id int, req *models.UserUpdateRequest) (*models.User, error)
	UpdatePassword(id int, passwordHash string) error
}

// UserService handles profile business logic
type UserService struct {
	userRepo ProfileUserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo ProfileUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ProfileUpdateRequest represents a profile update. A password change
// requires the current password.
type ProfileUpdateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// GetProfile returns a user's profile
func (s *UserService) GetProfile(userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile updates name/email and optionally changes the password after
// checking the current one.
func (s *UserService) UpdateProfile(userID int, req *ProfileUpdateRequest) (*models.User, error) {
	if req.Name == "" && req.Email == "" && req.NewPassword == "" {
		return nil, fmt.Errorf("%w: at least one field must be provided for update", models.ErrInvalidInput)
	}

	if req.NewPassword != "" {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to load user: %w", err)
		}

		valid, err := utils.VerifyPassword(req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("failed to verify password: %w", err)
		}
		if !valid {
			return nil, fmt.Errorf("current password is incorrect: %w", models.ErrUnauthorized)
		}

		if len(req.NewPassword) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", models.ErrInvalidInput)
		}

		hashedPassword, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		if err := s.userRepo.UpdatePassword(userID, hashedPassword); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	}

	if req.Name == "" && req.Email == "" {
		return s.userRepo.GetByID(userID)
	}

	user, err := s.userRepo.Update(userID, &models.UserUpdateRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrDuplicateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

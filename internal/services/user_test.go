package services

import (
	"testing"

	"tickethub/internal/models"
	"tickethub/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileUserRepository is a mock implementation of ProfileUserRepository
type MockProfileUserRepository struct {
	mock.Mock
}

func (m *MockProfileUserRepository) GetByID(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileUserRepository) Update(id int, req *models.UserUpdateRequest) (*models.User, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileUserRepository) UpdatePassword(id int, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func TestUserService_UpdateProfile(t *testing.T) {
	hashedPassword, err := utils.HashPassword("password123")
	require.NoError(t, err)

	t.Run("updates name and email", func(t *testing.T) {
		userRepo := &MockProfileUserRepository{}
		service := NewUserService(userRepo)

		userRepo.On("Update", 1, &models.UserUpdateRequest{Name: "New Name", Email: "new@example.com"}).
			Return(&models.User{ID: 1, Name: "New Name", Email: "new@example.com"}, nil)

		user, err := service.UpdateProfile(1, &ProfileUpdateRequest{Name: "New Name", Email: "new@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		userRepo.AssertExpectations(t)
	})

	t.Run("changes password after checking the current one", func(t *testing.T) {
		userRepo := &MockProfileUserRepository{}
		service := NewUserService(userRepo)

		userRepo.On("GetByID", 1).Return(&models.User{ID: 1, PasswordHash: hashedPassword}, nil)
		userRepo.On("UpdatePassword", 1, mock.AnythingOfType("string")).Return(nil)

		user, err := service.UpdateProfile(1, &ProfileUpdateRequest{
			CurrentPassword: "password123",
			NewPassword:     "newpassword456",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		userRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		userRepo := &MockProfileUserRepository{}
		service := NewUserService(userRepo)

		userRepo.On("GetByID", 1).Return(&models.User{ID: 1, PasswordHash: hashedPassword}, nil)

		user, err := service.UpdateProfile(1, &ProfileUpdateRequest{
			CurrentPassword: "wrong",
			NewPassword:     "newpassword456",
		})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("new password too short", func(t *testing.T) {
		userRepo := &MockProfileUserRepository{}
		service := NewUserService(userRepo)

		userRepo.On("GetByID", 1).Return(&models.User{ID: 1, PasswordHash: hashedPassword}, nil)

		user, err := service.UpdateProfile(1, &ProfileUpdateRequest{
			CurrentPassword: "password123",
			NewPassword:     "short",
		})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		userRepo := &MockProfileUserRepository{}
		service := NewUserService(userRepo)

		user, err := service.UpdateProfile(1, &ProfileUpdateRequest{})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	userRepo := &MockProfileUserRepository{}
	service := NewUserService(userRepo)

	userRepo.On("GetByID", 1).Return(&models.User{ID: 1, Points: 10000}, nil)
	userRepo.On("GetByID", 99).Return(nil, models.ErrUserNotFound)

	user, err := service.GetProfile(1)
	require.NoError(t, err)
	assert.Equal(t, 10000, user.Points)

	_, err = service.GetProfile(99)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

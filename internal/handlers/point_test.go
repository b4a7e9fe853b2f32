package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tickethub/internal/models"
	"tickethub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPointStore is a mock implementation of services.PointStore
type MockPointStore struct {
	mock.Mock
}

func (m *MockPointStore) Grant(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error) {
	args := m.Called(userID, points, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PointTransaction), args.Error(1)
}

func (m *MockPointStore) Redeem(userID int, points int, expiresAt time.Time) (*models.PointTransaction, error) {
	args := m.Called(userID, points, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PointTransaction), args.Error(1)
}

func (m *MockPointStore) ListByUser(userID int) ([]*models.PointTransaction, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PointTransaction), args.Error(1)
}

// MockPointUserReader is a mock implementation of services.PointUserReader
type MockPointUserReader struct {
	mock.Mock
}

func (m *MockPointUserReader) GetByID(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestPointHandler_Redeem(t *testing.T) {
	customer := &models.User{ID: 1, Role: models.RoleCustomer}

	t.Run("redeems against a valid balance", func(t *testing.T) {
		pointRepo := &MockPointStore{}
		userRepo := &MockPointUserReader{}
		handler := NewPointHandler(services.NewPointsService(pointRepo, userRepo))

		userRepo.On("GetByID", 1).Return(&models.User{ID: 1}, nil)
		pointRepo.On("ListByUser", 1).Return([]*models.PointTransaction{
			{Points: 5000, ExpiresAt: time.Now().AddDate(0, 1, 0)},
		}, nil)
		pointRepo.On("Redeem", 1, 5000, mock.AnythingOfType("time.Time")).
			Return(&models.PointTransaction{Points: -5000}, nil)

		body, _ := json.Marshal(RedeemRequest{TicketPrice: 8000})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/point/redeem", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Redeem(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			OriginalPrice  int    `json:"originalPrice"`
			PointsRedeemed int    `json:"pointsRedeemed"`
			FinalPrice     int    `json:"finalPrice"`
			Message        string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 8000, resp.OriginalPrice)
		assert.Equal(t, 5000, resp.PointsRedeemed)
		assert.Equal(t, 3000, resp.FinalPrice)
	})

	t.Run("anonymous request returns 401", func(t *testing.T) {
		handler := NewPointHandler(services.NewPointsService(&MockPointStore{}, &MockPointUserReader{}))

		body, _ := json.Marshal(RedeemRequest{TicketPrice: 8000})
		rec := httptest.NewRecorder()
		handler.Redeem(rec, httptest.NewRequest(http.MethodPost, "/api/point/redeem", bytes.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-positive price returns 400", func(t *testing.T) {
		handler := NewPointHandler(services.NewPointsService(&MockPointStore{}, &MockPointUserReader{}))

		body, _ := json.Marshal(RedeemRequest{TicketPrice: 0})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/point/redeem", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Redeem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPointHandler_Balance(t *testing.T) {
	pointRepo := &MockPointStore{}
	userRepo := &MockPointUserReader{}
	handler := NewPointHandler(services.NewPointsService(pointRepo, userRepo))

	userRepo.On("GetByID", 1).Return(&models.User{ID: 1, Points: 10000}, nil)
	pointRepo.On("ListByUser", 1).Return([]*models.PointTransaction{
		{ID: 1, Points: 10000, ExpiresAt: time.Now().AddDate(0, 1, 0)},
	}, nil)

	req := requestWithUser(httptest.NewRequest(http.MethodGet, "/api/point/balance", nil), &models.User{ID: 1})
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Balance int                       `json:"balance"`
		Entries []*models.PointTransaction `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 10000, resp.Balance)
	assert.Len(t, resp.Entries, 1)
}

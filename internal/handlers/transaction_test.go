package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tickethub/internal/middleware"
	"tickethub/internal/models"
	"tickethub/internal/repositories"
	"tickethub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTicketReader is a mock implementation of services.TicketReader
type MockTicketReader struct {
	mock.Mock
}

func (m *MockTicketReader) GetByID(id int) (*models.Ticket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

// MockEventReader is a mock implementation of services.EventReader
type MockEventReader struct {
	mock.Mock
}

func (m *MockEventReader) GetByID(id int) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

// MockPromotionReader is a mock implementation of services.PromotionReader
type MockPromotionReader struct {
	mock.Mock
}

func (m *MockPromotionReader) GetActiveByEvent(eventID int, now time.Time) (*models.Promotion, error) {
	args := m.Called(eventID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Promotion), args.Error(1)
}

// MockCouponFinder is a mock implementation of services.CouponFinder
type MockCouponFinder struct {
	mock.Mock
}

func (m *MockCouponFinder) FindValid(code string, userID int, now time.Time) (*models.DiscountCoupon, error) {
	args := m.Called(code, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountCoupon), args.Error(1)
}

// MockSettlementStore is a mock implementation of services.SettlementStore
type MockSettlementStore struct {
	mock.Mock
}

func (m *MockSettlementStore) Settle(params *repositories.SettlementParams) (*repositories.SettlementResult, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SettlementResult), args.Error(1)
}

func (m *MockSettlementStore) GetByID(id int) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockSettlementStore) ListByUser(userID int) ([]*models.Transaction, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func requestWithUser(req *http.Request, user *models.User) *http.Request {
	if user == nil {
		return req
	}
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)
	return req.WithContext(ctx)
}

func TestTransactionHandler_Create(t *testing.T) {
	customer := &models.User{ID: 1, Role: models.RoleCustomer}

	newHandler := func() (*MockTicketReader, *MockEventReader, *MockPromotionReader, *MockSettlementStore, *TransactionHandler) {
		ticketRepo := &MockTicketReader{}
		eventRepo := &MockEventReader{}
		promotionRepo := &MockPromotionReader{}
		store := &MockSettlementStore{}
		service := services.NewSettlementService(ticketRepo, eventRepo, promotionRepo, &MockCouponFinder{}, store)
		return ticketRepo, eventRepo, promotionRepo, store, NewTransactionHandler(service)
	}

	t.Run("successful purchase returns 201", func(t *testing.T) {
		ticketRepo, eventRepo, promotionRepo, store, handler := newHandler()

		ticketRepo.On("GetByID", 10).Return(&models.Ticket{ID: 10, EventID: 5, Price: 50000, Quantity: 20}, nil)
		eventRepo.On("GetByID", 5).Return(&models.Event{ID: 5}, nil)
		promotionRepo.On("GetActiveByEvent", 5, mock.AnythingOfType("time.Time")).Return(nil, nil)
		store.On("Settle", mock.Anything).Return(&repositories.SettlementResult{
			Transaction:       &models.Transaction{ID: 1, FinalAmount: 100000, Status: models.TransactionCompleted},
			RemainingQuantity: 18,
		}, nil)

		body, _ := json.Marshal(models.PurchaseRequest{EventID: 5, TicketID: 10, Quantity: 2})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Transaction           *models.Transaction `json:"transaction"`
			UpdatedTicketQuantity int                 `json:"updatedTicketQuantity"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 18, resp.UpdatedTicketQuantity)
		assert.Equal(t, 100000, resp.Transaction.FinalAmount)
	})

	t.Run("anonymous request returns 401", func(t *testing.T) {
		_, _, _, _, handler := newHandler()

		body, _ := json.Marshal(models.PurchaseRequest{EventID: 5, TicketID: 10, Quantity: 2})
		req := httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		_, _, _, _, handler := newHandler()

		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader([]byte("{not json"))), customer)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid quantity returns 400", func(t *testing.T) {
		_, _, _, _, handler := newHandler()

		body, _ := json.Marshal(models.PurchaseRequest{EventID: 5, TicketID: 10, Quantity: 0})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown ticket returns 404", func(t *testing.T) {
		ticketRepo, _, _, _, handler := newHandler()

		ticketRepo.On("GetByID", 99).Return(nil, models.ErrTicketNotFound)

		body, _ := json.Marshal(models.PurchaseRequest{EventID: 5, TicketID: 99, Quantity: 1})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("insufficient inventory returns 409", func(t *testing.T) {
		ticketRepo, _, _, _, handler := newHandler()

		ticketRepo.On("GetByID", 10).Return(&models.Ticket{ID: 10, EventID: 5, Price: 50000, Quantity: 1}, nil)

		body, _ := json.Marshal(models.PurchaseRequest{EventID: 5, TicketID: 10, Quantity: 5})
		req := requestWithUser(httptest.NewRequest(http.MethodPost, "/api/transaction/create", bytes.NewReader(body)), customer)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTransactionHandler_ListMine(t *testing.T) {
	store := &MockSettlementStore{}
	service := services.NewSettlementService(&MockTicketReader{}, &MockEventReader{}, &MockPromotionReader{}, &MockCouponFinder{}, store)
	handler := NewTransactionHandler(service)

	store.On("ListByUser", 1).Return([]*models.Transaction{
		{ID: 1, UserID: 1, FinalAmount: 50000},
		{ID: 2, UserID: 1, FinalAmount: 0},
	}, nil)

	req := requestWithUser(httptest.NewRequest(http.MethodGet, "/api/transaction/mine", nil), &models.User{ID: 1})
	rec := httptest.NewRecorder()

	handler.ListMine(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "transactions")
}

package services

import (
	"testing"
	"time"

	"tickethub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventStore is a mock implementation of EventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error) {
	args := m.Called(organizerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) GetByID(id int) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) List(now time.Time) ([]*models.EventSummary, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventSummary), args.Error(1)
}

func validEventRequest() *models.EventCreateRequest {
	return &models.EventCreateRequest{
		Name:     "Summer Festival",
		Date:     time.Now().AddDate(0, 1, 0),
		Location: "City Park",
		Capacity: 500,
		Tickets: []*models.TicketCreateRequest{
			{Type: "Regular", Price: 50000, Quantity: 400},
			{Type: "VIP", Price: 150000, Quantity: 100},
		},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	organizer := &models.User{ID: 1, Role: models.RoleOrganizer}
	customer := &models.User{ID: 2, Role: models.RoleCustomer}

	t.Run("organizer creates an event with tiers", func(t *testing.T) {
		eventRepo := &MockEventStore{}
		service := NewEventService(eventRepo)

		req := validEventRequest()
		eventRepo.On("Create", 1, req).Return(&models.Event{ID: 10, OrganizerID: 1, Name: "Summer Festival"}, nil)

		event, err := service.CreateEvent(organizer, req)

		require.NoError(t, err)
		assert.Equal(t, 10, event.ID)
		eventRepo.AssertExpectations(t)
	})

	t.Run("customer is rejected", func(t *testing.T) {
		eventRepo := &MockEventStore{}
		service := NewEventService(eventRepo)

		event, err := service.CreateEvent(customer, validEventRequest())

		assert.Nil(t, event)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
		eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("paid event without tiers is rejected", func(t *testing.T) {
		eventRepo := &MockEventStore{}
		service := NewEventService(eventRepo)

		req := validEventRequest()
		req.Tickets = nil

		event, err := service.CreateEvent(organizer, req)

		assert.Nil(t, event)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("free event needs no tiers", func(t *testing.T) {
		eventRepo := &MockEventStore{}
		service := NewEventService(eventRepo)

		req := validEventRequest()
		req.IsFreeEvent = true
		req.Tickets = nil
		eventRepo.On("Create", 1, req).Return(&models.Event{ID: 11, IsFreeEvent: true}, nil)

		event, err := service.CreateEvent(organizer, req)

		require.NoError(t, err)
		assert.True(t, event.IsFreeEvent)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		eventRepo := &MockEventStore{}
		service := NewEventService(eventRepo)

		req := validEventRequest()
		req.Name = "  "

		event, err := service.CreateEvent(organizer, req)

		assert.Nil(t, event)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestEventService_GetEvent(t *testing.T) {
	eventRepo := &MockEventStore{}
	service := NewEventService(eventRepo)

	eventRepo.On("GetByID", 10).Return(&models.Event{ID: 10}, nil)
	eventRepo.On("GetByID", 99).Return(nil, models.ErrEventNotFound)

	event, err := service.GetEvent(10)
	require.NoError(t, err)
	assert.Equal(t, 10, event.ID)

	_, err = service.GetEvent(99)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestEventService_ListEvents(t *testing.T) {
	eventRepo := &MockEventStore{}
	service := NewEventService(eventRepo)

	minPrice := 50000
	eventRepo.On("List", mock.AnythingOfType("time.Time")).Return([]*models.EventSummary{
		{ID: 10, Name: "Summer Festival", OrganizerName: "Acme Events", MinPrice: &minPrice},
	}, nil)

	events, err := service.ListEvents()

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Acme Events", events[0].OrganizerName)
}

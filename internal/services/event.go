package services

import (
	"errors"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// EventStore is the event storage used by the event service
type EventStore interface {
	Create(organizerID int, req *models.EventCreateRequest) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	List(now time.Time) ([]*models.EventSummary, error)
}

// EventService handles event business logic
type EventService struct {
	eventRepo EventStore
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventStore) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEvent creates an event with its ticket tiers and optional promotion.
// Only organizers may create events.
func (s *EventService) CreateEvent(organizer *models.User, req *models.EventCreateRequest) (*models.Event, error) {
	if organizer == nil || !organizer.IsOrganizer() {
		return nil, fmt.Errorf("only organizers can create events: %w", models.ErrUnauthorized)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidInput, err.Error())
	}

	// Free events need no ticket tiers; paid events do
	if !req.IsFreeEvent && len(req.Tickets) == 0 {
		return nil, fmt.Errorf("%w: paid events require at least one ticket tier", models.ErrInvalidInput)
	}

	event, err := s.eventRepo.Create(organizer.ID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// ListEvents returns the public event listing
func (s *EventService) ListEvents() ([]*models.EventSummary, error) {
	summaries, err := s.eventRepo.List(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return summaries, nil
}

// GetEvent returns an event with its tickets and promotions
func (s *EventService) GetEvent(id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgo/ems/api/internal/model"
)

// EventRepository is the event platform as the view host sees it. Every
// method blocks until the platform answers; failures are *model.RemoteError
// values classified by the model taxonomy.
type EventRepository interface {
	SessionRepository
	AuthRepository

	ListPublishedEvents(ctx context.Context) ([]*model.Event, error)
	ListOrganizerEvents(ctx context.Context) ([]*model.Event, error)
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error)
	RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error)
}

// Dashboard is an event listing with its counts
type Dashboard struct {
	Events []*model.Event   `json:"events"`
	Stats  model.EventStats `json:"stats"`
}

// EventService handles event-level operations
type EventService struct {
	repo   EventRepository
	logger *slog.Logger
}

// NewEventService creates a new event service
func NewEventService(repo EventRepository, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{repo: repo, logger: logger}
}

// ListForUser returns the events a user should see: organizers and admins
// get the events they manage, everyone else the published ones.
func (s *EventService) ListForUser(ctx context.Context, user *model.User) ([]*model.Event, error) {
	var (
		events []*model.Event
		err    error
	)
	if user.IsOrganizer() || user.IsAdmin() {
		events, err = s.repo.ListOrganizerEvents(ctx)
	} else {
		events, err = s.repo.ListPublishedEvents(ctx)
	}
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*model.Event{}
	}
	return events, nil
}

// Dashboard returns ListForUser together with its counts
func (s *EventService) Dashboard(ctx context.Context, user *model.User) (*Dashboard, error) {
	events, err := s.ListForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Events: events, Stats: model.SummarizeEvents(events)}, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// DeleteEvent deletes an event when the user may delete it
func (s *EventService) DeleteEvent(ctx context.Context, user *model.User, eventID string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !ResolveCapabilities(user, event).CanDelete {
		return notPermitted(model.ActionDelete)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		s.logger.Error("event deletion failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("event deleted",
		slog.String("event_id", eventID),
		slog.String("by", user.Email),
	)
	return nil
}

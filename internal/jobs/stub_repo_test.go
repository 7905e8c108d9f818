package jobs

import (
	"context"

	"github.com/forgo/ems/api/internal/model"
)

// stubRepo serves one event with no sessions
type stubRepo struct {
	event *model.Event
}

func (s *stubRepo) ListPublishedEvents(ctx context.Context) ([]*model.Event, error) {
	return []*model.Event{s.event}, nil
}

func (s *stubRepo) ListOrganizerEvents(ctx context.Context) ([]*model.Event, error) {
	return []*model.Event{s.event}, nil
}

func (s *stubRepo) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.event, nil
}

func (s *stubRepo) DeleteEvent(ctx context.Context, eventID string) error { return nil }

func (s *stubRepo) ListSessions(ctx context.Context, eventID string) ([]model.Session, error) {
	return []model.Session{}, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error) {
	return model.Session{}, nil
}

func (s *stubRepo) UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error) {
	return model.Session{}, nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, eventID, sessionID string) error { return nil }

func (s *stubRepo) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	return nil, nil
}

func (s *stubRepo) RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error) {
	return nil, nil
}

func (s *stubRepo) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	return nil, nil
}

func (s *stubRepo) Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error) {
	return nil, nil
}

package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/forgo/ems/api/internal/model"
)

// mockEventRepo implements EventRepository with overridable functions.
// Unset functions return errUnset.
type mockEventRepo struct {
	listPublishedFn   func(ctx context.Context) ([]*model.Event, error)
	listOrganizerFn   func(ctx context.Context) ([]*model.Event, error)
	getEventFn        func(ctx context.Context, eventID string) (*model.Event, error)
	deleteEventFn     func(ctx context.Context, eventID string) error
	listSessionsFn    func(ctx context.Context, eventID string) ([]model.Session, error)
	createSessionFn   func(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error)
	updateSessionFn   func(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error)
	deleteSessionFn   func(ctx context.Context, eventID, sessionID string) error
	listAttendeesFn   func(ctx context.Context, eventID string) ([]model.Attendee, error)
	registerForFn     func(ctx context.Context, eventID string) (*model.Registration, error)
	loginFn           func(ctx context.Context, creds model.Credentials) (*model.LoginResult, error)
	registerAccountFn func(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error)
}

var errUnset = errors.New("mock function not set")

func networkFailure(op string) error {
	return model.NewRemoteError(op, http.StatusInternalServerError, "upstream unavailable", nil)
}

func notFound(op string) error {
	return model.NewRemoteError(op, http.StatusNotFound, "", nil)
}

func (m *mockEventRepo) ListPublishedEvents(ctx context.Context) ([]*model.Event, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx)
	}
	return nil, errUnset
}

func (m *mockEventRepo) ListOrganizerEvents(ctx context.Context) ([]*model.Event, error) {
	if m.listOrganizerFn != nil {
		return m.listOrganizerFn(ctx)
	}
	return nil, errUnset
}

func (m *mockEventRepo) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if m.getEventFn != nil {
		return m.getEventFn(ctx, eventID)
	}
	return nil, errUnset
}

func (m *mockEventRepo) DeleteEvent(ctx context.Context, eventID string) error {
	if m.deleteEventFn != nil {
		return m.deleteEventFn(ctx, eventID)
	}
	return errUnset
}

func (m *mockEventRepo) ListSessions(ctx context.Context, eventID string) ([]model.Session, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, eventID)
	}
	return nil, errUnset
}

func (m *mockEventRepo) CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, eventID, draft)
	}
	return model.Session{}, errUnset
}

func (m *mockEventRepo) UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error) {
	if m.updateSessionFn != nil {
		return m.updateSessionFn(ctx, eventID, sessionID, draft)
	}
	return model.Session{}, errUnset
}

func (m *mockEventRepo) DeleteSession(ctx context.Context, eventID, sessionID string) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(ctx, eventID, sessionID)
	}
	return errUnset
}

func (m *mockEventRepo) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if m.listAttendeesFn != nil {
		return m.listAttendeesFn(ctx, eventID)
	}
	return nil, errUnset
}

func (m *mockEventRepo) RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error) {
	if m.registerForFn != nil {
		return m.registerForFn(ctx, eventID)
	}
	return nil, errUnset
}

func (m *mockEventRepo) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return nil, errUnset
}

func (m *mockEventRepo) Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error) {
	if m.registerAccountFn != nil {
		return m.registerAccountFn(ctx, profile, role)
	}
	return nil, errUnset
}

func strPtr(s string) *string { return &s }

func newSession(id, title string) model.Session {
	return model.Session{ID: id, EventID: "e1", Title: title}
}

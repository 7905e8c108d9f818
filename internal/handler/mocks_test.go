package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

// ============================================================================
// Mock AuthService
// ============================================================================

type mockAuthService struct {
	loginFunc    func(ctx context.Context, creds model.Credentials) (*service.LoginSession, error)
	registerFunc func(ctx context.Context, profile model.Profile, rawRole string) (*model.AccountConfirmation, error)
}

func (m *mockAuthService) Login(ctx context.Context, creds model.Credentials) (*service.LoginSession, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, creds)
	}
	return nil, nil
}

func (m *mockAuthService) Register(ctx context.Context, profile model.Profile, rawRole string) (*model.AccountConfirmation, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, profile, rawRole)
	}
	return nil, nil
}

// ============================================================================
// Mock EventService
// ============================================================================

type mockEventService struct {
	dashboardFunc   func(ctx context.Context, user *model.User) (*service.Dashboard, error)
	deleteEventFunc func(ctx context.Context, user *model.User, eventID string) error
}

func (m *mockEventService) Dashboard(ctx context.Context, user *model.User) (*service.Dashboard, error) {
	if m.dashboardFunc != nil {
		return m.dashboardFunc(ctx, user)
	}
	return &service.Dashboard{Events: []*model.Event{}}, nil
}

func (m *mockEventService) DeleteEvent(ctx context.Context, user *model.User, eventID string) error {
	if m.deleteEventFunc != nil {
		return m.deleteEventFunc(ctx, user, eventID)
	}
	return nil
}

// ============================================================================
// Mock EventRepository
// ============================================================================

// mockEventRepo backs a real ViewRegistry. Unset functions answer with
// empty successes.
type mockEventRepo struct {
	getEventFunc         func(ctx context.Context, eventID string) (*model.Event, error)
	listSessionsFunc     func(ctx context.Context, eventID string) ([]model.Session, error)
	createSessionFunc    func(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error)
	updateSessionFunc    func(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error)
	deleteSessionFunc    func(ctx context.Context, eventID, sessionID string) error
	listAttendeesFunc    func(ctx context.Context, eventID string) ([]model.Attendee, error)
	registerForEventFunc func(ctx context.Context, eventID string) (*model.Registration, error)
}

func (m *mockEventRepo) ListPublishedEvents(ctx context.Context) ([]*model.Event, error) {
	return []*model.Event{}, nil
}

func (m *mockEventRepo) ListOrganizerEvents(ctx context.Context) ([]*model.Event, error) {
	return []*model.Event{}, nil
}

func (m *mockEventRepo) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if m.getEventFunc != nil {
		return m.getEventFunc(ctx, eventID)
	}
	return nil, model.NewRemoteError("get event", http.StatusNotFound, "", nil)
}

func (m *mockEventRepo) DeleteEvent(ctx context.Context, eventID string) error {
	return nil
}

func (m *mockEventRepo) ListSessions(ctx context.Context, eventID string) ([]model.Session, error) {
	if m.listSessionsFunc != nil {
		return m.listSessionsFunc(ctx, eventID)
	}
	return []model.Session{}, nil
}

func (m *mockEventRepo) CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error) {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, eventID, draft)
	}
	return model.Session{ID: "new", EventID: eventID, Title: draft.Title}, nil
}

func (m *mockEventRepo) UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error) {
	if m.updateSessionFunc != nil {
		return m.updateSessionFunc(ctx, eventID, sessionID, draft)
	}
	return model.Session{ID: sessionID, EventID: eventID, Title: draft.Title}, nil
}

func (m *mockEventRepo) DeleteSession(ctx context.Context, eventID, sessionID string) error {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, eventID, sessionID)
	}
	return nil
}

func (m *mockEventRepo) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if m.listAttendeesFunc != nil {
		return m.listAttendeesFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockEventRepo) RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error) {
	if m.registerForEventFunc != nil {
		return m.registerForEventFunc(ctx, eventID)
	}
	return &model.Registration{ID: "r1", EventID: eventID, Status: "REGISTERED"}, nil
}

func (m *mockEventRepo) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	return nil, nil
}

func (m *mockEventRepo) Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error) {
	return nil, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestRegistry(t *testing.T, repo *mockEventRepo) *service.ViewRegistry {
	t.Helper()
	validator, err := service.NewDraftValidator()
	require.NoError(t, err)
	return service.NewViewRegistry(service.ViewRegistryConfig{
		Repo:      repo,
		Validator: validator,
	})
}

// newTestMux wires the view routes with the principal already in context
func newTestMux(h *ViewHandler) *http.ServeMux {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, func(next http.Handler) http.Handler { return next })
	return mux
}

func decodeBody(rr *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/ems/api/internal/model"
)

// DefaultViewTTL is how long an untouched view lives
const DefaultViewTTL = 30 * time.Minute

// View is one opened event page: the event record, the actions offered to
// its user and the session list kept in step with the store.
type View struct {
	ID           string
	User         *model.User
	Event        *model.Event
	Capabilities model.CapabilitySet
	Sync         *SessionSync
	OpenedAt     time.Time

	repo     EventRepository
	mu       sync.Mutex
	lastSeen time.Time
}

// Snapshot is the serializable state of a view
type Snapshot struct {
	ID           string              `json:"id"`
	Event        *model.Event        `json:"event"`
	TimeRange    string              `json:"timeRange,omitempty"`
	Capabilities model.CapabilitySet `json:"capabilities"`
	Sessions     []SessionView       `json:"sessions"`
	Source       LoadSource          `json:"source,omitempty"`
}

// SessionView is a session with its display range
type SessionView struct {
	model.Session
	TimeRange string `json:"timeRange,omitempty"`
}

// Snapshot captures the view's current state
func (v *View) Snapshot() *Snapshot {
	snap := &Snapshot{
		ID:           v.ID,
		Event:        v.Event,
		Capabilities: v.Capabilities,
	}
	if text, ok := v.Event.TimeRange(); ok {
		snap.TimeRange = text
	}
	sessions := v.Sync.Sessions()
	snap.Sessions = make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		sv := SessionView{Session: s}
		if text, ok := s.TimeRange(); ok {
			sv.TimeRange = text
		}
		snap.Sessions = append(snap.Sessions, sv)
	}
	return snap
}

// CreateSession adds a session when the user may create sessions
func (v *View) CreateSession(ctx context.Context, draft model.SessionDraft) (model.Session, error) {
	if !v.Capabilities.CanCreateSession {
		return model.Session{}, notPermitted(model.ActionCreateSession)
	}
	return v.Sync.Create(ctx, draft)
}

// UpdateSession edits a session when the user may edit sessions
func (v *View) UpdateSession(ctx context.Context, sessionID string, draft model.SessionDraft) (model.Session, error) {
	if !v.Capabilities.CanEditSession {
		return model.Session{}, notPermitted(model.ActionEditSession)
	}
	return v.Sync.Update(ctx, sessionID, draft)
}

// DeleteSession removes a session when the user may delete sessions
func (v *View) DeleteSession(ctx context.Context, sessionID string) error {
	if !v.Capabilities.CanDeleteSession {
		return notPermitted(model.ActionDeleteSession)
	}
	return v.Sync.Delete(ctx, sessionID)
}

// EditDraft returns the prefilled edit form for a held session
func (v *View) EditDraft(sessionID string) (model.SessionDraft, error) {
	if !v.Capabilities.CanEditSession {
		return model.SessionDraft{}, notPermitted(model.ActionEditSession)
	}
	session, ok := v.Sync.Find(sessionID)
	if !ok {
		return model.SessionDraft{}, ErrSessionNotFound
	}
	return model.EditDraft(session), nil
}

// Attendees lists the event's attendees when the user may see them
func (v *View) Attendees(ctx context.Context) ([]model.Attendee, error) {
	if !v.Capabilities.CanViewAttendees {
		return nil, notPermitted(model.ActionViewAttendees)
	}
	attendees, err := v.repo.ListAttendees(ctx, v.Event.ID)
	if err != nil {
		return nil, err
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	return attendees, nil
}

// Register signs the user up for the event when registration is offered
func (v *View) Register(ctx context.Context) (*model.Registration, error) {
	if !v.Capabilities.CanRegister {
		return nil, notPermitted(model.ActionRegister)
	}
	return v.repo.RegisterForEvent(ctx, v.Event.ID)
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// ViewRegistry holds the open views. Views are in memory only and expire
// after TTL without access.
type ViewRegistry struct {
	repo      EventRepository
	validator *DraftValidator
	logger    *slog.Logger
	ttl       time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	views map[string]*View
}

// ViewRegistryConfig holds configuration for the registry
type ViewRegistryConfig struct {
	Repo      EventRepository
	Validator *DraftValidator
	Logger    *slog.Logger
	TTL       time.Duration
	Now       func() time.Time
}

// NewViewRegistry creates an empty registry
func NewViewRegistry(cfg ViewRegistryConfig) *ViewRegistry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultViewTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ViewRegistry{
		repo:      cfg.Repo,
		validator: cfg.Validator,
		logger:    cfg.Logger,
		ttl:       cfg.TTL,
		now:       cfg.Now,
		views:     make(map[string]*View),
	}
}

// Open fetches the event, resolves the user's capabilities and loads the
// session list. A failed session listing degrades the view; it does not
// fail Open.
func (r *ViewRegistry) Open(ctx context.Context, user *model.User, eventID string) (*View, LoadResult, error) {
	if user == nil {
		return nil, LoadResult{}, ErrUnauthenticated
	}

	event, err := r.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, LoadResult{}, err
	}
	if event == nil {
		return nil, LoadResult{}, ErrEventNotFound
	}

	now := r.now()
	view := &View{
		ID:           uuid.New().String(),
		User:         user,
		Event:        event,
		Capabilities: ResolveCapabilities(user, event),
		Sync:         NewSessionSync(r.repo, event.ID, r.validator, r.logger),
		OpenedAt:     now,
		repo:         r.repo,
		lastSeen:     now,
	}

	r.mu.Lock()
	r.views[view.ID] = view
	r.mu.Unlock()

	result, err := view.Sync.Load(ctx, event)
	if err != nil {
		// Closed while loading
		return nil, LoadResult{}, err
	}

	r.logger.Info("view opened",
		slog.String("view_id", view.ID),
		slog.String("event_id", event.ID),
		slog.String("user", user.Email),
		slog.String("source", string(result.Source)),
	)
	return view, result, nil
}

// Get returns an open view owned by user and marks it as used
func (r *ViewRegistry) Get(user *model.User, viewID string) (*View, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	r.mu.RLock()
	view, ok := r.views[viewID]
	r.mu.RUnlock()

	if !ok || view.User.Email != user.Email {
		return nil, ErrViewNotFound
	}
	if view.Sync.Detached() {
		return nil, ErrViewClosed
	}

	view.touch(r.now())
	return view, nil
}

// Reload refreshes a view's session list
func (r *ViewRegistry) Reload(ctx context.Context, user *model.User, viewID string) (*View, LoadResult, error) {
	view, err := r.Get(user, viewID)
	if err != nil {
		return nil, LoadResult{}, err
	}
	result, err := view.Sync.Load(ctx, view.Event)
	if err != nil {
		return nil, LoadResult{}, err
	}
	return view, result, nil
}

// Close detaches and forgets a view owned by user
func (r *ViewRegistry) Close(user *model.User, viewID string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	r.mu.Lock()
	view, ok := r.views[viewID]
	if !ok || view.User.Email != user.Email {
		r.mu.Unlock()
		return ErrViewNotFound
	}
	delete(r.views, viewID)
	r.mu.Unlock()

	view.Sync.Detach()
	return nil
}

// Sweep closes every view idle for longer than the TTL and returns how
// many were closed.
func (r *ViewRegistry) Sweep(now time.Time) int {
	var expired []*View

	r.mu.Lock()
	for id, view := range r.views {
		if now.Sub(view.idleSince()) > r.ttl {
			expired = append(expired, view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, view := range expired {
		view.Sync.Detach()
	}
	return len(expired)
}

// CloseAll detaches every view
func (r *ViewRegistry) CloseAll() int {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, view := range views {
		view.Sync.Detach()
	}
	return len(views)
}

// Len returns the number of open views
func (r *ViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

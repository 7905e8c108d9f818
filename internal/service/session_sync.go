package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/telemetry"
)

// SessionRepository is the part of the event platform a session list talks to
type SessionRepository interface {
	ListSessions(ctx context.Context, eventID string) ([]model.Session, error)
	CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error)
	UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error)
	DeleteSession(ctx context.Context, eventID, sessionID string) error
}

// LoadSource tells where a loaded session list came from
type LoadSource string

const (
	SourcePrimary  LoadSource = "primary"  // dedicated session listing
	SourceEmbedded LoadSource = "embedded" // sessions embedded in the event record
	SourceEmpty    LoadSource = "empty"    // neither source had data
)

// LoadResult reports the outcome of a load. PrimaryErr is set whenever the
// dedicated listing failed, even if the embedded sessions were used.
type LoadResult struct {
	Sessions   []model.Session `json:"sessions"`
	Source     LoadSource      `json:"source"`
	PrimaryErr error           `json:"-"`
}

// Degraded reports whether the primary source failed
func (r LoadResult) Degraded() bool {
	return r.PrimaryErr != nil
}

// SessionSync holds one event's session list and keeps it consistent with
// the store across create, update and delete.
//
// Operations are not serialized. The mutex covers only the merge of a
// confirmed result, so when two calls overlap the response that arrives
// last determines the list. The list never holds an unconfirmed entry.
type SessionSync struct {
	repo      SessionRepository
	eventID   string
	validator *DraftValidator
	logger    *slog.Logger
	tracer    trace.Tracer

	mu       sync.Mutex
	sessions []model.Session

	detached atomic.Bool
}

// NewSessionSync creates a session list for eventID. validator and logger
// may be nil.
func NewSessionSync(repo SessionRepository, eventID string, validator *DraftValidator, logger *slog.Logger) *SessionSync {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionSync{
		repo:      repo,
		eventID:   eventID,
		validator: validator,
		logger:    logger.With(slog.String("event_id", eventID)),
		tracer:    telemetry.Tracer(),
		sessions:  []model.Session{},
	}
}

// EventID returns the event this list belongs to
func (s *SessionSync) EventID() string {
	return s.eventID
}

// Sessions returns a copy of the held list
func (s *SessionSync) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Detach marks the owning view as gone. Calls still in flight finish but
// their results are discarded.
func (s *SessionSync) Detach() {
	s.detached.Store(true)
}

// Detached reports whether Detach was called
func (s *SessionSync) Detached() bool {
	return s.detached.Load()
}

// Load replaces the list from the dedicated session listing. When that
// fails it falls back to the sessions embedded in event and logs a warning;
// when neither yields data the list becomes empty. Load only fails with
// ErrViewClosed.
func (s *SessionSync) Load(ctx context.Context, event *model.Event) (LoadResult, error) {
	ctx, span := s.startSpan(ctx, "SessionSync.Load")
	defer span.End()

	sessions, err := s.repo.ListSessions(ctx, s.eventID)
	if s.Detached() {
		span.SetStatus(codes.Error, ErrViewClosed.Error())
		return LoadResult{}, ErrViewClosed
	}

	result := LoadResult{Source: SourcePrimary, Sessions: sessions}
	if err != nil {
		result.PrimaryErr = err
		span.RecordError(err)

		var embedded []model.Session
		if event != nil {
			embedded = event.Sessions
		}
		if len(embedded) > 0 {
			result.Source = SourceEmbedded
			result.Sessions = embedded
		} else {
			result.Source = SourceEmpty
			result.Sessions = nil
		}

		s.logger.Warn("session listing failed, using fallback",
			slog.String("source", string(result.Source)),
			slog.Int("sessions", len(result.Sessions)),
			slog.String("error", err.Error()),
		)
	}

	list := make([]model.Session, len(result.Sessions))
	copy(list, result.Sessions)
	result.Sessions = list

	s.mu.Lock()
	s.sessions = append([]model.Session(nil), list...)
	if s.sessions == nil {
		s.sessions = []model.Session{}
	}
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("ems.load.source", string(result.Source)),
		attribute.Int("ems.sessions", len(list)),
	)
	return result, nil
}

// Create sends the draft to the store and appends the confirmed session
func (s *SessionSync) Create(ctx context.Context, draft model.SessionDraft) (model.Session, error) {
	ctx, span := s.startSpan(ctx, "SessionSync.Create")
	defer span.End()

	if err := s.validator.Validate("create session", draft); err != nil {
		return model.Session{}, s.fail(span, err)
	}

	created, err := s.repo.CreateSession(ctx, s.eventID, draft.Outbound())
	if err != nil {
		return model.Session{}, s.fail(span, err)
	}
	if s.Detached() {
		return model.Session{}, s.fail(span, ErrViewClosed)
	}
	if created.ID == "" {
		return model.Session{}, s.fail(span, model.NewRemoteError("create session", 0, "response without session id", nil))
	}
	if created.EventID == "" {
		created.EventID = s.eventID
	}

	s.mu.Lock()
	s.sessions = append(s.sessions, created)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("ems.session.id", created.ID))
	return created, nil
}

// Update sends the draft to the store and replaces the entry whose id
// matches the confirmed session. An id no longer held is not re-added.
func (s *SessionSync) Update(ctx context.Context, sessionID string, draft model.SessionDraft) (model.Session, error) {
	ctx, span := s.startSpan(ctx, "SessionSync.Update", attribute.String("ems.session.id", sessionID))
	defer span.End()

	if err := s.validator.Validate("update session", draft); err != nil {
		return model.Session{}, s.fail(span, err)
	}

	updated, err := s.repo.UpdateSession(ctx, s.eventID, sessionID, draft.Outbound())
	if err != nil {
		return model.Session{}, s.fail(span, err)
	}
	if s.Detached() {
		return model.Session{}, s.fail(span, ErrViewClosed)
	}
	if updated.ID == "" {
		updated.ID = sessionID
	}
	if updated.EventID == "" {
		updated.EventID = s.eventID
	}

	s.mu.Lock()
	for i := range s.sessions {
		if s.sessions[i].ID == updated.ID {
			s.sessions[i] = updated
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// Delete removes the session from the store, then from the list
func (s *SessionSync) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.startSpan(ctx, "SessionSync.Delete", attribute.String("ems.session.id", sessionID))
	defer span.End()

	if err := s.repo.DeleteSession(ctx, s.eventID, sessionID); err != nil {
		return s.fail(span, err)
	}
	if s.Detached() {
		return s.fail(span, ErrViewClosed)
	}

	s.mu.Lock()
	kept := s.sessions[:0]
	for _, session := range s.sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}
	s.sessions = kept
	s.mu.Unlock()

	return nil
}

// Find returns the held session with the given id
func (s *SessionSync) Find(sessionID string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ID == sessionID {
			return session, true
		}
	}
	return model.Session{}, false
}

func (s *SessionSync) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("ems.event.id", s.eventID))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *SessionSync) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Package fixtures provides test data factories.
//
// In-memory builders return canonical models with sensible defaults;
// option functions customize them. The Factory seeds the same records into
// a SurrealDB store for repository integration tests.
//
// Usage:
//
//	organizer := fixtures.Organizer()
//	event := fixtures.Event(fixtures.OwnedBy(organizer.Email), fixtures.Published())
//	sessions := fixtures.Sessions(event.ID, 3)
//
//	f := fixtures.New(tdb.DB)
//	id := f.CreateEvent(t, event)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/forgo/ems/api/internal/database"
	"github.com/forgo/ems/api/internal/model"
)

// Day is the date every fixture schedule is placed on
const Day = "2030-05-14"

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func stamp(hour, minute int) *model.Timestamp {
	ts := model.Timestamp(fmt.Sprintf("%sT%02d:%02d:00", Day, hour, minute))
	return &ts
}

func strPtr(s string) *string {
	return &s
}

// ============================================================================
// User Fixtures
// ============================================================================

// Attendee returns a user holding only the attendee role
func Attendee() *model.User {
	return model.NewUser(fmt.Sprintf("attendee_%s@test.local", randomID()), string(model.RoleAttendee))
}

// Organizer returns a user holding the organizer role
func Organizer() *model.User {
	return model.NewUser(fmt.Sprintf("organizer_%s@test.local", randomID()), string(model.RoleOrganizer))
}

// Admin returns a user holding the admin role
func Admin() *model.User {
	return model.NewUser(fmt.Sprintf("admin_%s@test.local", randomID()), string(model.RoleAdmin))
}

// ============================================================================
// Event Fixtures
// ============================================================================

// EventOpt customizes an event fixture
type EventOpt func(*model.Event)

// OwnedBy sets the organizer email
func OwnedBy(email string) EventOpt {
	return func(e *model.Event) { e.OrganizerEmail = &email }
}

// Published marks the event published
func Published() EventOpt {
	return func(e *model.Event) { e.Published = true }
}

// WithEventID sets the event ID
func WithEventID(id string) EventOpt {
	return func(e *model.Event) { e.ID = id }
}

// WithEmbeddedSessions attaches sessions to the event record
func WithEmbeddedSessions(sessions ...model.Session) EventOpt {
	return func(e *model.Event) { e.Sessions = sessions }
}

// Event returns an unpublished, unowned event running 09:00 to 17:00
func Event(opts ...EventOpt) *model.Event {
	id := randomID()
	e := &model.Event{
		ID:       id,
		Title:    "Event " + id,
		Location: strPtr("Main Hall"),
		Start:    stamp(9, 0),
		End:      stamp(17, 0),
	}
	for _, fn := range opts {
		fn(e)
	}
	return e
}

// ============================================================================
// Session Fixtures
// ============================================================================

// Session returns a one-hour session of eventID starting at hour
func Session(eventID string, hour int) model.Session {
	id := randomID()
	return model.Session{
		ID:       id,
		EventID:  eventID,
		Title:    "Session " + id,
		Speaker:  strPtr("Speaker " + id[:4]),
		Location: strPtr("Room " + id[:2]),
		Start:    stamp(hour, 0),
		End:      stamp(hour+1, 0),
	}
}

// Sessions returns n consecutive sessions starting at 09:00
func Sessions(eventID string, n int) []model.Session {
	out := make([]model.Session, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Session(eventID, 9+i))
	}
	return out
}

// Draft returns a valid session draft with minute-precision bounds
func Draft(title string) model.SessionDraft {
	return model.SessionDraft{
		Title:     title,
		Speaker:   strPtr("Ada"),
		Location:  strPtr("Room 1"),
		StartTime: strPtr(Day + "T10:00"),
		EndTime:   strPtr(Day + "T11:00"),
	}
}

// ============================================================================
// Store Fixtures
// ============================================================================

// Factory seeds fixtures into a SurrealDB store
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// ctx returns a context with timeout
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// CreateEvent stores e under its ID
func (f *Factory) CreateEvent(t *testing.T, e *model.Event) {
	t.Helper()

	query := `
		CREATE type::record($id) SET
			title = $title,
			description = $description,
			location = $location,
			capacity = $capacity,
			published = $published,
			organizer_email = $organizer_email,
			start_time = $start_time,
			end_time = $end_time
	`
	vars := map[string]interface{}{
		"id":              "event:" + e.ID,
		"title":           e.Title,
		"description":     e.Description,
		"location":        e.Location,
		"capacity":        e.Capacity,
		"published":       e.Published,
		"organizer_email": e.OrganizerEmail,
		"start_time":      timestampValue(e.Start),
		"end_time":        timestampValue(e.End),
	}
	if err := f.db.Execute(ctx(t), query, vars); err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}
}

// CreateSession stores s under its ID, attached to its event
func (f *Factory) CreateSession(t *testing.T, s model.Session) {
	t.Helper()

	query := `
		CREATE type::record($id) SET
			event = type::record($event_id),
			title = $title,
			speaker = $speaker,
			location = $location,
			description = $description,
			start_time = $start_time,
			end_time = $end_time
	`
	vars := map[string]interface{}{
		"id":          "session:" + s.ID,
		"event_id":    "event:" + s.EventID,
		"title":       s.Title,
		"speaker":     s.Speaker,
		"location":    s.Location,
		"description": s.Description,
		"start_time":  timestampValue(s.Start),
		"end_time":    timestampValue(s.End),
	}
	if err := f.db.Execute(ctx(t), query, vars); err != nil {
		t.Fatalf("fixtures: failed to create session: %v", err)
	}
}

// CreateRegistration registers email for the event
func (f *Factory) CreateRegistration(t *testing.T, eventID, email string) {
	t.Helper()

	query := `CREATE registration SET event = type::record($event_id), email = $email, full_name = $full_name`
	vars := map[string]interface{}{
		"event_id":  "event:" + eventID,
		"email":     email,
		"full_name": strings.SplitN(email, "@", 2)[0],
	}
	if err := f.db.Execute(ctx(t), query, vars); err != nil {
		t.Fatalf("fixtures: failed to create registration: %v", err)
	}
}

func timestampValue(ts *model.Timestamp) interface{} {
	if ts == nil {
		return nil
	}
	return string(*ts)
}

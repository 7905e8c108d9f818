package repository

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/ems/api/internal/database"
	"github.com/forgo/ems/api/internal/model"
)

// Schema defines the tables the direct store reads and writes
//
//go:embed schema/store.surql
var Schema string

// ErrAccountsUnavailable is returned for login and registration when the
// store has no account service to delegate to
var ErrAccountsUnavailable = errors.New("account operations need an upstream identity service")

// AccountClient performs login and registration. The store holds event data
// only; identities stay with the platform.
type AccountClient interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error)
	Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error)
}

// StoreConfig configures the direct store
type StoreConfig struct {
	DB       database.Database
	Accounts AccountClient
	Logger   *slog.Logger
}

// StoreRepository reads and writes events straight from SurrealDB
type StoreRepository struct {
	db       database.Database
	accounts AccountClient
	logger   *slog.Logger
}

// NewStoreRepository creates a new direct store repository
func NewStoreRepository(cfg StoreConfig) *StoreRepository {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreRepository{
		db:       cfg.DB,
		accounts: cfg.Accounts,
		logger:   logger,
	}
}

// EnsureSchema applies the table definitions. It is safe to run repeatedly.
func (r *StoreRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.Execute(ctx, Schema, nil); err != nil {
		return storeError("ensure schema", err)
	}
	return nil
}

// ListPublishedEvents retrieves the public event listing
func (r *StoreRepository) ListPublishedEvents(ctx context.Context) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE published = true ORDER BY start_time`
	return r.queryEvents(ctx, "list published events", query, nil)
}

// ListOrganizerEvents retrieves every event for admins and the caller's own
// events for organizers
func (r *StoreRepository) ListOrganizerEvents(ctx context.Context) ([]*model.Event, error) {
	const op = "list organizer events"
	user := model.UserFromContext(ctx)
	if user == nil {
		return nil, model.NewRemoteError(op, http.StatusUnauthorized, "no authenticated user", nil)
	}
	if user.IsAdmin() {
		return r.queryEvents(ctx, op, `SELECT * FROM event ORDER BY start_time`, nil)
	}
	query := `SELECT * FROM event WHERE organizer_email = $email ORDER BY start_time`
	return r.queryEvents(ctx, op, query, map[string]interface{}{"email": user.Email})
}

// GetEvent retrieves an event with its sessions embedded
func (r *StoreRepository) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	query := `
		SELECT *, (SELECT * FROM session WHERE event = $parent.id ORDER BY start_time) AS sessions
		FROM type::record($event_id)
	`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"event_id": recordRef("event", eventID),
	})
	if err != nil {
		return nil, storeError("get event", err)
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, storeError("get event", database.ErrNotFound)
	}
	return parseEvent(data), nil
}

// DeleteEvent removes an event with its sessions and registrations
func (r *StoreRepository) DeleteEvent(ctx context.Context, eventID string) error {
	const op = "delete event"
	vars := map[string]interface{}{"event_id": recordRef("event", eventID)}

	if _, err := r.db.QueryOne(ctx, `SELECT id FROM type::record($event_id)`, vars); err != nil {
		return storeError(op, err)
	}

	err := database.NewAtomicBatch().
		Add(`DELETE session WHERE event = type::record($event_id)`, vars).
		Add(`DELETE registration WHERE event = type::record($event_id)`, vars).
		Add(`DELETE type::record($event_id)`, vars).
		Execute(ctx, r.db)
	if err != nil {
		return storeError(op, err)
	}

	r.logger.Info("event deleted from store", slog.String("event_id", eventID))
	return nil
}

// ListSessions retrieves the sessions of an event
func (r *StoreRepository) ListSessions(ctx context.Context, eventID string) ([]model.Session, error) {
	query := `SELECT * FROM session WHERE event = type::record($event_id) ORDER BY start_time`
	results, err := r.db.Query(ctx, query, map[string]interface{}{
		"event_id": recordRef("event", eventID),
	})
	if err != nil {
		return nil, storeError("list sessions", err)
	}

	sessions := make([]model.Session, 0)
	for _, data := range firstRecords(results) {
		sessions = append(sessions, parseSession(data, eventID))
	}
	return sessions, nil
}

// CreateSession stores a new session and returns it with its assigned id
func (r *StoreRepository) CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error) {
	const op = "create session"
	vars := sessionVars(draft)
	vars["event_id"] = recordRef("event", eventID)

	if _, err := r.db.QueryOne(ctx, `SELECT id FROM type::record($event_id)`, vars); err != nil {
		return model.Session{}, storeError(op, err)
	}

	query := `
		CREATE session SET
			event = type::record($event_id),
			title = $title,
			speaker = $speaker,
			location = $location,
			description = $description,
			start_time = $start_time,
			end_time = $end_time
	`
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return model.Session{}, storeError(op, err)
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return model.Session{}, model.NewRemoteError(op, 0, "unexpected result format", nil)
	}
	return parseSession(data, eventID), nil
}

// UpdateSession replaces a session's fields
func (r *StoreRepository) UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error) {
	const op = "update session"
	vars := sessionVars(draft)
	vars["event_id"] = recordRef("event", eventID)
	vars["session_id"] = recordRef("session", sessionID)

	query := `
		UPDATE type::record($session_id) SET
			title = $title,
			speaker = $speaker,
			location = $location,
			description = $description,
			start_time = $start_time,
			end_time = $end_time,
			updated_on = time::now()
		WHERE event = type::record($event_id)
		RETURN AFTER
	`
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return model.Session{}, storeError(op, err)
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return model.Session{}, storeError(op, database.ErrNotFound)
	}
	return parseSession(data, eventID), nil
}

// DeleteSession removes a session
func (r *StoreRepository) DeleteSession(ctx context.Context, eventID, sessionID string) error {
	query := `DELETE type::record($session_id) WHERE event = type::record($event_id) RETURN BEFORE`
	_, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"event_id":   recordRef("event", eventID),
		"session_id": recordRef("session", sessionID),
	})
	if err != nil {
		return storeError("delete session", err)
	}
	return nil
}

// ListAttendees retrieves the registrations of an event
func (r *StoreRepository) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	query := `SELECT * FROM registration WHERE event = type::record($event_id) ORDER BY created_on`
	results, err := r.db.Query(ctx, query, map[string]interface{}{
		"event_id": recordRef("event", eventID),
	})
	if err != nil {
		return nil, storeError("list attendees", err)
	}

	attendees := make([]model.Attendee, 0)
	for _, data := range firstRecords(results) {
		attendees = append(attendees, model.Attendee{
			ID:       recordKey(data["id"]),
			Email:    getString(data, "email"),
			FullName: getString(data, "full_name"),
		})
	}
	return attendees, nil
}

// RegisterForEvent registers the calling user for an event
func (r *StoreRepository) RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error) {
	const op = "register for event"
	user := model.UserFromContext(ctx)
	if user == nil {
		return nil, model.NewRemoteError(op, http.StatusUnauthorized, "no authenticated user", nil)
	}

	vars := map[string]interface{}{
		"event_id": recordRef("event", eventID),
		"email":    user.Email,
	}
	if _, err := r.db.QueryOne(ctx, `SELECT id FROM type::record($event_id)`, vars); err != nil {
		return nil, storeError(op, err)
	}

	query := `CREATE registration SET event = type::record($event_id), email = $email`
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, model.NewRemoteError(op, http.StatusConflict, "already registered", err)
		}
		return nil, storeError(op, err)
	}

	reg := &model.Registration{EventID: eventID, Status: "REGISTERED"}
	if data, ok := result.(map[string]interface{}); ok {
		reg.ID = recordKey(data["id"])
		if status := getString(data, "status"); status != "" {
			reg.Status = status
		}
	}
	return reg, nil
}

// Login delegates to the account service
func (r *StoreRepository) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	if r.accounts == nil {
		return nil, model.NewRemoteError("login", 0, "", ErrAccountsUnavailable)
	}
	return r.accounts.Login(ctx, creds)
}

// Register delegates to the account service
func (r *StoreRepository) Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error) {
	if r.accounts == nil {
		return nil, model.NewRemoteError("register", 0, "", ErrAccountsUnavailable)
	}
	return r.accounts.Register(ctx, profile, role)
}

func (r *StoreRepository) queryEvents(ctx context.Context, op, query string, vars map[string]interface{}) ([]*model.Event, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, storeError(op, err)
	}

	events := make([]*model.Event, 0)
	for _, data := range firstRecords(results) {
		events = append(events, parseEvent(data))
	}
	return events, nil
}

// firstRecords returns the records of the first statement result
func firstRecords(results []interface{}) []map[string]interface{} {
	if len(results) == 0 {
		return nil
	}
	return database.Records(results[0])
}

func sessionVars(draft model.SessionDraft) map[string]interface{} {
	return map[string]interface{}{
		"title":       draft.Title,
		"speaker":     optional(draft.Speaker),
		"location":    optional(draft.Location),
		"description": optional(draft.Description),
		"start_time":  optional(draft.StartTime),
		"end_time":    optional(draft.EndTime),
	}
}

func parseEvent(data map[string]interface{}) *model.Event {
	event := &model.Event{
		ID:             recordKey(data["id"]),
		Title:          getString(data, "title"),
		Description:    getStringPtr(data, "description"),
		Location:       getStringPtr(data, "location"),
		Capacity:       getIntPtr(data, "capacity"),
		Published:      getBool(data, "published"),
		OrganizerEmail: getStringPtr(data, "organizer_email"),
		Start:          getTimestamp(data, "start_time"),
		End:            getTimestamp(data, "end_time"),
	}
	if raw, ok := data["sessions"].([]interface{}); ok {
		event.Sessions = make([]model.Session, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok {
				event.Sessions = append(event.Sessions, parseSession(m, event.ID))
			}
		}
	}
	return event
}

func parseSession(data map[string]interface{}, eventID string) model.Session {
	return model.Session{
		ID:          recordKey(data["id"]),
		EventID:     eventID,
		Title:       getString(data, "title"),
		Speaker:     getStringPtr(data, "speaker"),
		Location:    getStringPtr(data, "location"),
		Description: getStringPtr(data, "description"),
		Start:       getTimestamp(data, "start_time"),
		End:         getTimestamp(data, "end_time"),
	}
}

package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/telemetry"
)

// maxErrorBody caps how much of a failed response is read for its detail
const maxErrorBody = 64 << 10

// IdempotencyHeader carries the digest of a mutating request
const IdempotencyHeader = "Idempotency-Key"

// RemoteConfig configures the event platform client
type RemoteConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client // optional; built from Timeout when nil
	Logger    *slog.Logger
}

// RemoteRepository talks to the event platform's HTTP API. The bearer token
// attached to the request context is forwarded on every call.
type RemoteRepository struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewRemoteRepository creates a new event platform client
func NewRemoteRepository(cfg RemoteConfig) (*RemoteRepository, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream base url %q must be absolute", cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RemoteRepository{
		baseURL:   base,
		client:    client,
		userAgent: cfg.UserAgent,
		logger:    logger,
		tracer:    telemetry.Tracer(),
	}, nil
}

// ListPublishedEvents retrieves the public event listing
func (r *RemoteRepository) ListPublishedEvents(ctx context.Context) ([]*model.Event, error) {
	var raw []model.RawEvent
	if err := r.list(ctx, "list published events", "/api/events/published", &raw); err != nil {
		return nil, err
	}
	return model.NormalizeEvents(raw), nil
}

// ListOrganizerEvents retrieves the events visible to an organizer
func (r *RemoteRepository) ListOrganizerEvents(ctx context.Context) ([]*model.Event, error) {
	var raw []model.RawEvent
	if err := r.list(ctx, "list organizer events", "/api/events/organizer", &raw); err != nil {
		return nil, err
	}
	return model.NormalizeEvents(raw), nil
}

// GetEvent retrieves a single event, including embedded sessions when sent
func (r *RemoteRepository) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	var raw model.RawEvent
	if err := r.do(ctx, "get event", http.MethodGet, eventPath(eventID), nil, &raw); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		raw.ID = eventID
	}
	return raw.Normalize(), nil
}

// DeleteEvent removes an event
func (r *RemoteRepository) DeleteEvent(ctx context.Context, eventID string) error {
	return r.do(ctx, "delete event", http.MethodDelete, eventPath(eventID), nil, nil)
}

// ListSessions retrieves the sessions of an event
func (r *RemoteRepository) ListSessions(ctx context.Context, eventID string) ([]model.Session, error) {
	var raw []model.RawSession
	if err := r.list(ctx, "list sessions", eventPath(eventID)+"/sessions", &raw); err != nil {
		return nil, err
	}
	return model.NormalizeSessions(raw, eventID), nil
}

// CreateSession stores a new session and returns it with its assigned id
func (r *RemoteRepository) CreateSession(ctx context.Context, eventID string, draft model.SessionDraft) (model.Session, error) {
	var raw model.RawSession
	if err := r.do(ctx, "create session", http.MethodPost, eventPath(eventID)+"/sessions", draft, &raw); err != nil {
		return model.Session{}, err
	}
	return raw.Normalize(eventID), nil
}

// UpdateSession replaces a session's fields
func (r *RemoteRepository) UpdateSession(ctx context.Context, eventID, sessionID string, draft model.SessionDraft) (model.Session, error) {
	var raw model.RawSession
	if err := r.do(ctx, "update session", http.MethodPut, sessionPath(eventID, sessionID), draft, &raw); err != nil {
		return model.Session{}, err
	}
	if raw.ID == "" {
		raw.ID = sessionID
	}
	return raw.Normalize(eventID), nil
}

// DeleteSession removes a session
func (r *RemoteRepository) DeleteSession(ctx context.Context, eventID, sessionID string) error {
	return r.do(ctx, "delete session", http.MethodDelete, sessionPath(eventID, sessionID), nil, nil)
}

// ListAttendees retrieves the registered attendees of an event
func (r *RemoteRepository) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	var attendees []model.Attendee
	if err := r.list(ctx, "list attendees", eventPath(eventID)+"/attendees", &attendees); err != nil {
		return nil, err
	}
	if attendees == nil {
		attendees = []model.Attendee{}
	}
	return attendees, nil
}

// RegisterForEvent registers the calling user for an event
func (r *RemoteRepository) RegisterForEvent(ctx context.Context, eventID string) (*model.Registration, error) {
	var reg model.Registration
	if err := r.do(ctx, "register for event", http.MethodPost, eventPath(eventID)+"/register", struct{}{}, &reg); err != nil {
		return nil, err
	}
	if reg.EventID == "" {
		reg.EventID = eventID
	}
	return &reg, nil
}

// Login exchanges credentials for a token
func (r *RemoteRepository) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	var result model.LoginResult
	if err := r.do(ctx, "login", http.MethodPost, "/api/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account with the given role
func (r *RemoteRepository) Register(ctx context.Context, profile model.Profile, role model.RoleName) (*model.AccountConfirmation, error) {
	path := "/api/auth/register?" + url.Values{"role": {role.WireValue()}}.Encode()
	var confirmation model.AccountConfirmation
	if err := r.do(ctx, "register", http.MethodPost, path, profile, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func eventPath(eventID string) string {
	return "/api/events/" + url.PathEscape(eventID)
}

func sessionPath(eventID, sessionID string) string {
	return eventPath(eventID) + "/sessions/" + url.PathEscape(sessionID)
}

// list fetches a collection that may arrive bare or as {"data": [...]}
func (r *RemoteRepository) list(ctx context.Context, op, path string, out interface{}) error {
	var body json.RawMessage
	if err := r.do(ctx, op, http.MethodGet, path, nil, &body); err != nil {
		return err
	}
	if err := decodeList(body, out); err != nil {
		return model.NewRemoteError(op, 0, "malformed response", err)
	}
	return nil
}

// decodeList accepts a JSON array, an object with a data array, or null
func decodeList(body json.RawMessage, out interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if len(envelope.Data) == 0 {
			return errors.New("object response without data array")
		}
		return decodeList(envelope.Data, out)
	}
	return json.Unmarshal(trimmed, out)
}

func (r *RemoteRepository) do(ctx context.Context, op, method, path string, body, out interface{}) (err error) {
	ctx, span := r.tracer.Start(ctx, "upstream."+strings.ReplaceAll(op, " ", "_"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := r.newRequest(ctx, method, path, body)
	if err != nil {
		return model.NewRemoteError(op, 0, "build request", err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("upstream request failed",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return model.NewRemoteError(op, 0, "", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	r.logger.Debug("upstream request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewRemoteError(op, resp.StatusCode, "read response", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return model.NewRemoteError(op, 0, "malformed response", err)
	}
	return nil
}

func (r *RemoteRepository) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	target, err := r.baseURL.Parse(r.baseURL.Path + path)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	if token := model.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	switch method {
	case http.MethodPost:
		// Each create is its own intent; identical bodies must not replay.
		req.Header.Set(IdempotencyHeader, uuid.NewString())
	case http.MethodPut:
		key, err := IdempotencyKey(method, target.Path, model.TokenFromContext(ctx), payload)
		if err != nil {
			return nil, err
		}
		req.Header.Set(IdempotencyHeader, key)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// IdempotencyKey digests a replacing request: method, path, caller and the
// canonical (RFC 8785) form of its JSON body. Sending the same replacement
// twice yields the same key.
func IdempotencyKey(method, path, token string, payload []byte) (string, error) {
	canonical := []byte("null")
	if len(payload) > 0 {
		var err error
		canonical, err = jcs.Transform(payload)
		if err != nil {
			return "", fmt.Errorf("canonicalize payload: %w", err)
		}
	}

	callerSum := sha256.Sum256([]byte(token))

	h := sha256.New()
	h.Write([]byte(method + " " + path + "\n"))
	h.Write(callerSum[:])
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// upstreamProblem covers the error bodies the platform is known to send
type upstreamProblem struct {
	Message string            `json:"message"`
	Detail  string            `json:"detail"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func responseError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	remote := model.NewRemoteError(op, resp.StatusCode, "", nil)

	var problem upstreamProblem
	if err := json.Unmarshal(data, &problem); err == nil {
		switch {
		case problem.Detail != "":
			remote.Detail = problem.Detail
		case problem.Message != "":
			remote.Detail = problem.Message
		case problem.Error != "":
			remote.Detail = problem.Error
		}
		remote.Fields = fieldErrors(problem.Errors)
	} else {
		remote.Detail = strings.TrimSpace(string(data))
	}

	if remote.Detail == "" {
		remote.Detail = http.StatusText(resp.StatusCode)
	}
	return remote
}

func fieldErrors(errs map[string]string) []model.FieldError {
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]model.FieldError, 0, len(fields))
	for _, field := range fields {
		out = append(out, model.FieldError{Field: field, Message: errs[field]})
	}
	return out
}

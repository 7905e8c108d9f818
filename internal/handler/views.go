package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

// ViewRegistry is the open-view surface the views handler needs
type ViewRegistry interface {
	Open(ctx context.Context, user *model.User, eventID string) (*service.View, service.LoadResult, error)
	Get(user *model.User, viewID string) (*service.View, error)
	Reload(ctx context.Context, user *model.User, viewID string) (*service.View, service.LoadResult, error)
	Close(user *model.User, viewID string) error
}

// ViewHandler serves opened event views and the session operations on them
type ViewHandler struct {
	views  ViewRegistry
	logger *slog.Logger
	now    func() time.Time
}

// ViewHandlerConfig holds dependencies for the views handler
type ViewHandlerConfig struct {
	Views  ViewRegistry
	Logger *slog.Logger
	Now    func() time.Time
}

// NewViewHandler creates a new views handler
func NewViewHandler(cfg ViewHandlerConfig) *ViewHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ViewHandler{
		views:  cfg.Views,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// OpenViewRequest represents the open view request body
type OpenViewRequest struct {
	EventID string `json:"event_id"`
}

// ViewResponse is a view snapshot with the outcome of its last load
type ViewResponse struct {
	*service.Snapshot
	Degraded bool `json:"degraded"`
}

// RegisterRoutes registers view routes behind the given middleware
func (h *ViewHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	route("POST /v1/views", h.Open)
	route("GET /v1/views/{id}", h.Get)
	route("DELETE /v1/views/{id}", h.Close)

	route("POST /v1/views/{id}/sessions", h.CreateSession)
	route("PUT /v1/views/{id}/sessions/{sid}", h.UpdateSession)
	route("DELETE /v1/views/{id}/sessions/{sid}", h.DeleteSession)
	route("GET /v1/views/{id}/sessions/{sid}/draft", h.EditDraft)

	route("GET /v1/views/{id}/attendees", h.Attendees)
	route("POST /v1/views/{id}/registrations", h.Register)
	route("GET /v1/views/{id}/calendar.ics", h.Calendar)
}

// Open handles POST /v1/views
func (h *ViewHandler) Open(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	if user == nil {
		WriteError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req OpenViewRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.EventID == "" {
		WriteError(w, r, model.NewValidationError([]model.FieldError{{Field: "event_id", Message: "event_id is required"}}))
		return
	}

	view, result, err := h.views.Open(r.Context(), user, req.EventID)
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "open view"))
		return
	}

	WriteData(w, http.StatusCreated, viewResponse(view, result), viewLinks(view.ID))
}

// Get handles GET /v1/views/{id}. With ?reload=true the session list is
// fetched again first.
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	viewID := r.PathValue("id")

	if r.URL.Query().Get("reload") == "true" {
		view, result, err := h.views.Reload(r.Context(), user, viewID)
		if err != nil {
			WriteError(w, r, MapServiceErrorWithContext(err, "reload view"))
			return
		}
		WriteData(w, http.StatusOK, viewResponse(view, result), viewLinks(view.ID))
		return
	}

	view, err := h.views.Get(user, viewID)
	if err != nil {
		WriteError(w, r, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, ViewResponse{Snapshot: view.Snapshot()}, viewLinks(view.ID))
}

// Close handles DELETE /v1/views/{id}
func (h *ViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.views.Close(model.UserFromContext(r.Context()), r.PathValue("id")); err != nil {
		WriteError(w, r, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}

// CreateSession handles POST /v1/views/{id}/sessions
func (h *ViewHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var draft model.SessionDraft
	if err := DecodeJSON(r, &draft); err != nil {
		WriteError(w, r, model.NewBadRequestError("invalid request body"))
		return
	}

	session, err := view.CreateSession(r.Context(), draft)
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "create session"))
		return
	}
	WriteData(w, http.StatusCreated, session, map[string]string{
		"view": "/v1/views/" + view.ID,
	})
}

// UpdateSession handles PUT /v1/views/{id}/sessions/{sid}
func (h *ViewHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var draft model.SessionDraft
	if err := DecodeJSON(r, &draft); err != nil {
		WriteError(w, r, model.NewBadRequestError("invalid request body"))
		return
	}

	session, err := view.UpdateSession(r.Context(), r.PathValue("sid"), draft)
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "update session"))
		return
	}
	WriteData(w, http.StatusOK, session, nil)
}

// DeleteSession handles DELETE /v1/views/{id}/sessions/{sid}
func (h *ViewHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	if err := view.DeleteSession(r.Context(), r.PathValue("sid")); err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "delete session"))
		return
	}
	WriteNoContent(w)
}

// EditDraft handles GET /v1/views/{id}/sessions/{sid}/draft
func (h *ViewHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	draft, err := view.EditDraft(r.PathValue("sid"))
	if err != nil {
		WriteError(w, r, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, draft, nil)
}

// Attendees handles GET /v1/views/{id}/attendees
func (h *ViewHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	attendees, err := view.Attendees(r.Context())
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "list attendees"))
		return
	}
	WriteData(w, http.StatusOK, attendees, nil)
}

// Register handles POST /v1/views/{id}/registrations
func (h *ViewHandler) Register(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	registration, err := view.Register(r.Context())
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "register for event"))
		return
	}

	h.logger.Info("registered for event",
		slog.String("view_id", view.ID),
		slog.String("event_id", view.Event.ID),
		slog.String("user", view.User.Email),
	)
	WriteData(w, http.StatusCreated, registration, nil)
}

// Calendar handles GET /v1/views/{id}/calendar.ics
func (h *ViewHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	body := service.BuildCalendar(view.Event, view.Sync.Sessions(), h.now().UTC())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "event-"+view.Event.ID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// view resolves the open view named in the path, writing the error response
// when there is none
func (h *ViewHandler) view(w http.ResponseWriter, r *http.Request) (*service.View, bool) {
	user := model.UserFromContext(r.Context())
	if user == nil {
		WriteError(w, r, model.NewUnauthorizedError("authentication required"))
		return nil, false
	}

	view, err := h.views.Get(user, r.PathValue("id"))
	if err != nil {
		WriteError(w, r, MapServiceError(err))
		return nil, false
	}
	return view, true
}

func viewResponse(view *service.View, result service.LoadResult) ViewResponse {
	snap := view.Snapshot()
	snap.Source = result.Source
	return ViewResponse{Snapshot: snap, Degraded: result.Degraded()}
}

func viewLinks(viewID string) map[string]string {
	base := "/v1/views/" + viewID
	return map[string]string{
		"self":     base,
		"sessions": base + "/sessions",
		"calendar": base + "/calendar.ics",
	}
}

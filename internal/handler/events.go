package handler

import (
	"context"
	"net/http"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

// EventService is the event-level surface the events handler needs
type EventService interface {
	Dashboard(ctx context.Context, user *model.User) (*service.Dashboard, error)
	DeleteEvent(ctx context.Context, user *model.User, eventID string) error
}

// EventHandler handles event listing and deletion
type EventHandler struct {
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /v1/events. Organizers and admins see the events they
// manage, everyone else the published ones.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	if user == nil {
		WriteError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	dashboard, err := h.eventService.Dashboard(r.Context(), user)
	if err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "list events"))
		return
	}

	WriteData(w, http.StatusOK, dashboard, map[string]string{
		"self":  "/v1/events",
		"views": "/v1/views",
	})
}

// Delete handles DELETE /v1/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	if user == nil {
		WriteError(w, r, model.NewUnauthorizedError("authentication required"))
		return
	}

	eventID := r.PathValue("id")
	if eventID == "" {
		WriteError(w, r, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), user, eventID); err != nil {
		WriteError(w, r, MapServiceErrorWithContext(err, "delete event"))
		return
	}

	WriteNoContent(w)
}

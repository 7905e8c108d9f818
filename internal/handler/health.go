package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and, when a store is configured, its
// reachability
type HealthHandler struct {
	store Pinger
	views func() int
}

// NewHealthHandler creates a health handler. store and views may be nil.
func NewHealthHandler(store Pinger, views func() int) *HealthHandler {
	return &HealthHandler{store: store, views: views}
}

// HealthResponse is the health endpoint body
type HealthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store,omitempty"`
	OpenViews *int   `json:"open_views,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Store = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Store = "ok"
		}
	}
	if h.views != nil {
		n := h.views()
		resp.OpenViews = &n
	}

	WriteJSON(w, status, resp)
}

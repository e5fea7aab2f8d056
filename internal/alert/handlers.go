package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ProfileLookup resolves a user id to a display name when rendering
// acknowledged alerts. Defined consumer-side; the directory package
// provides the implementation.
type ProfileLookup interface {
	GetUserProfile(ctx context.Context, userID string) (string, error)
}

// Handler exposes the alert HTTP API.
type Handler struct {
	store    *Store
	profiles ProfileLookup
	logger   *zap.Logger
}

// NewHandler creates an alert API handler. profiles may be nil; the raw
// user id is served then.
func NewHandler(store *Store, profiles ProfileLookup, logger *zap.Logger) *Handler {
	return &Handler{store: store, profiles: profiles, logger: logger}
}

// RegisterRoutes registers alert routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/alerts", h.handleListAlerts)
	mux.HandleFunc("GET /api/v1/alerts/{id}", h.handleGetAlert)
	mux.HandleFunc("POST /api/v1/alerts/{id}/acknowledge", h.handleAcknowledge)
}

// alertResponse decorates an Alert with the acknowledger's display name.
// The name is a presentation concern joined at the query boundary, never
// a stored attribute.
type alertResponse struct {
	Alert
	AcknowledgedByName string `json:"acknowledged_by_name,omitempty"`
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	filter := QueryFilter{
		RoomID: r.URL.Query().Get("room_id"),
		Limit:  parseLimit(r, 200),
	}

	alerts, err := h.store.Query(r.Context(), filter)
	if err != nil {
		h.logger.Warn("failed to list alerts", zap.String("room_id", filter.RoomID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}

	out := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, h.enrich(r.Context(), alerts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	a, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("failed to get alert", zap.String("alert_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get alert")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(w, http.StatusOK, h.enrich(r.Context(), *a))
}

type acknowledgeRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var req acknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.store.Acknowledge(r.Context(), id, req.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert no longer exists")
			return
		}
		h.logger.Warn("failed to acknowledge alert", zap.String("alert_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to acknowledge alert")
		return
	}

	a, err := h.store.Get(r.Context(), id)
	if err != nil || a == nil {
		// Acknowledged but unreadable; report success without a body.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, h.enrich(r.Context(), *a))
}

// enrich fills the acknowledger display name, falling back to the raw
// user id when the lookup fails.
func (h *Handler) enrich(ctx context.Context, a Alert) alertResponse {
	resp := alertResponse{Alert: a}
	if !a.Acknowledged || a.AcknowledgedBy == "" || h.profiles == nil {
		return resp
	}
	name, err := h.profiles.GetUserProfile(ctx, a.AcknowledgedBy)
	if err != nil || name == "" {
		resp.AcknowledgedByName = a.AcknowledgedBy
		return resp
	}
	resp.AcknowledgedByName = name
	return resp
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func parseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}

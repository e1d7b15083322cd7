package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pacer/internal/storage"
)

// HistoryHandler serves finished sessions and lifetime stats.
type HistoryHandler struct {
	db *storage.DB
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(db *storage.DB) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// RegisterRoutes registers history routes on the router.
func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/api/v1/sessions").Subrouter()

	sub.HandleFunc("", h.HandleList).Methods("GET")
	sub.HandleFunc("/{id}", h.HandleGet).Methods("GET")
	sub.HandleFunc("/{id}", h.HandleDelete).Methods("DELETE")
	sub.HandleFunc("/{id}/tasks", h.HandleTasks).Methods("GET")

	router.HandleFunc("/api/v1/stats", h.HandleStats).Methods("GET")
}

// HandleList returns sessions newest first.
func (h *HistoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			offset = n
		}
	}

	records, err := h.db.ListSessions(limit, offset)
	if err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"sessions": records,
	})
}

// HandleGet returns one session.
func (h *HistoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.db.GetSession(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, rec)
}

// HandleDelete removes a session and its task history.
func (h *HistoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.db.DeleteSession(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleTasks returns a session's task history.
func (h *HistoryHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.db.GetSession(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			SendError(w, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	records, err := h.db.ListTasks(id)
	if err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"tasks": records,
	})
}

// HandleStats returns the lifetime aggregate.
func (h *HistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetStats()
	if err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, stats)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pacer/internal/engine"
)

// MediaHandler handles the slideshow endpoints.
type MediaHandler struct {
	manager *engine.Manager
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(manager *engine.Manager) *MediaHandler {
	return &MediaHandler{manager: manager}
}

// RegisterRoutes registers media routes on the router.
func (h *MediaHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/api/v1/media").Subrouter()

	sub.HandleFunc("/current", h.HandleCurrent).Methods("GET")
	sub.HandleFunc("/upcoming", h.HandleUpcoming).Methods("GET")
	sub.HandleFunc("/advance", h.HandleAdvance).Methods("POST")
	sub.HandleFunc("/back", h.HandleBack).Methods("POST")
}

// HandleCurrent returns the item on screen.
func (h *MediaHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	queue := h.manager.Queue()
	if queue == nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no media queue configured")
		return
	}

	item, ok := queue.Current()
	if !ok {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "queue is empty")
		return
	}
	SendJSON(w, http.StatusOK, item)
}

// HandleUpcoming returns the next items in the queue.
func (h *MediaHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	queue := h.manager.Queue()
	if queue == nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no media queue configured")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"items": queue.Upcoming(limit),
	})
}

// HandleAdvance skips to the next item manually.
func (h *MediaHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	queue := h.manager.Queue()
	if queue == nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no media queue configured")
		return
	}

	queue.Advance()
	item, ok := queue.Current()
	if !ok {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "queue is empty")
		return
	}
	SendJSON(w, http.StatusOK, item)
}

// HandleBack steps back to the previous item.
func (h *MediaHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	queue := h.manager.Queue()
	if queue == nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no media queue configured")
		return
	}

	queue.GoBack()
	item, ok := queue.Current()
	if !ok {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "queue is empty")
		return
	}
	SendJSON(w, http.StatusOK, item)
}

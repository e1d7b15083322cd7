package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"pacer/internal/config"
	"pacer/internal/engine"
	"pacer/internal/tasks"
)

// TaskHandler handles task endpoints for the live session.
type TaskHandler struct {
	manager *engine.Manager
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(manager *engine.Manager) *TaskHandler {
	return &TaskHandler{manager: manager}
}

// RegisterRoutes registers task routes on the router.
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/api/v1/tasks").Subrouter()

	sub.HandleFunc("/current", h.HandleCurrent).Methods("GET")
	sub.HandleFunc("/complete", h.HandleComplete).Methods("POST")
	sub.HandleFunc("/skip", h.HandleSkip).Methods("POST")
	sub.HandleFunc("/history", h.HandleHistory).Methods("GET")
	sub.HandleFunc("/catalog", h.HandleCatalog).Methods("GET")
}

// HandleCurrent returns the outstanding task.
func (h *TaskHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	sched, err := h.manager.Scheduler()
	if err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}

	entry, ok := sched.Current()
	if !ok {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no task outstanding")
		return
	}
	SendJSON(w, http.StatusOK, entry)
}

// HandleComplete resolves the outstanding task as done.
func (h *TaskHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, func(s *tasks.Scheduler) error { return s.Complete() })
}

// HandleSkip resolves the outstanding task as skipped.
func (h *TaskHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, func(s *tasks.Scheduler) error { return s.Skip() })
}

func (h *TaskHandler) resolve(w http.ResponseWriter, fn func(*tasks.Scheduler) error) {
	sched, err := h.manager.Scheduler()
	if err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}

	if err := fn(sched); err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleHistory returns every task issued during the live session.
func (h *TaskHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sched, err := h.manager.Scheduler()
	if err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"tasks": sched.History(),
	})
}

// HandleCatalog returns the tasks enabled by the current configuration.
func (h *TaskHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg == nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, "configuration not loaded")
		return
	}

	SendJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks.Catalog(cfg.Tasks),
	})
}

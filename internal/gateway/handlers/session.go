package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pacer/internal/config"
	"pacer/internal/engine"
)

// SessionHandler handles the live session HTTP endpoints.
type SessionHandler struct {
	manager *engine.Manager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *engine.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// RegisterRoutes registers session routes on the router.
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/api/v1/session").Subrouter()

	sub.HandleFunc("", h.HandleGetSession).Methods("GET")
	sub.HandleFunc("/start", h.HandleStart).Methods("POST")
	sub.HandleFunc("/pause", h.HandlePause).Methods("POST")
	sub.HandleFunc("/resume", h.HandleResume).Methods("POST")
	sub.HandleFunc("/stop", h.HandleStop).Methods("POST")
	sub.HandleFunc("/edge", h.HandleEdge).Methods("POST")
	sub.HandleFunc("/ruin", h.HandleRuin).Methods("POST")
}

// HandleGetSession returns the live session snapshot.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Session()
	if err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}
	SendJSON(w, http.StatusOK, session.State())
}

// HandleStart plans and starts a session from the loaded configuration.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg == nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, "configuration not loaded")
		return
	}

	session, err := h.manager.StartSession(r.Context(), cfg)
	if err != nil {
		if errors.Is(err, engine.ErrSessionActive) {
			SendError(w, http.StatusConflict, ErrCodeConflict, "a session is already active")
			return
		}
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	SendJSON(w, http.StatusCreated, session.State())
}

// HandlePause freezes the live session.
func (h *SessionHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Pause(); err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}
	h.sendState(w)
}

// HandleResume unfreezes the live session.
func (h *SessionHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Resume(); err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}
	h.sendState(w)
}

// HandleStop ends the live session early.
func (h *SessionHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.StopSession(); err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}
	h.sendState(w)
}

// HandleEdge triggers an edge sequence out of schedule.
func (h *SessionHandler) HandleEdge(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, func(s *engine.Session) error { return s.TriggerEdge() })
}

// HandleRuin triggers a ruin sequence out of schedule.
func (h *SessionHandler) HandleRuin(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, func(s *engine.Session) error { return s.TriggerRuin() })
}

func (h *SessionHandler) trigger(w http.ResponseWriter, fn func(*engine.Session) error) {
	session, err := h.manager.Session()
	if err != nil {
		SendError(w, http.StatusNotFound, ErrCodeNotFound, "no active session")
		return
	}

	if err := fn(session); err != nil {
		if errors.Is(err, engine.ErrFlowActive) {
			SendError(w, http.StatusConflict, ErrCodeConflict, "a flow is already in progress")
			return
		}
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, session.State())
}

func (h *SessionHandler) sendState(w http.ResponseWriter) {
	session, err := h.manager.Session()
	if err != nil {
		SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	SendJSON(w, http.StatusOK, session.State())
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"pacer/internal/config"
)

// ConfigHandler serves and updates the daemon configuration. Updates
// are written back to the config file and take effect for the next
// session.
type ConfigHandler struct {
	path string
}

// NewConfigHandler creates a config handler over the given file path.
func NewConfigHandler(path string) *ConfigHandler {
	return &ConfigHandler{path: path}
}

// RegisterRoutes registers config routes on the router.
func (h *ConfigHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/api/v1/config").Subrouter()

	sub.HandleFunc("", h.HandleGet).Methods("GET")
	sub.HandleFunc("", h.HandlePut).Methods("PUT")
	sub.HandleFunc("/game", h.HandleGetGame).Methods("GET")
	sub.HandleFunc("/game", h.HandlePutGame).Methods("PUT")
}

// HandleGet returns the loaded configuration.
func (h *ConfigHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg == nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, "configuration not loaded")
		return
	}
	SendJSON(w, http.StatusOK, cfg)
}

// HandleGetGame returns only the game settings.
func (h *ConfigHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg == nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, "configuration not loaded")
		return
	}
	SendJSON(w, http.StatusOK, cfg.Game)
}

// HandlePutGame replaces the game settings, leaving the rest of the
// configuration untouched. Changes apply to the next session.
func (h *ConfigHandler) HandlePutGame(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetConfig()
	if cfg == nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, "configuration not loaded")
		return
	}

	var game config.GameConfig
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		SendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	game.Normalize()

	updated := *cfg
	updated.Game = game
	if err := config.SaveTo(&updated, h.path); err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	loaded, err := config.Load(h.path)
	if err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, loaded.Game)
}

// HandlePut replaces the configuration, persists it, and reloads.
func (h *ConfigHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		SendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
		return
	}
	cfg.Game.Normalize()

	if err := config.SaveTo(&cfg, h.path); err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	loaded, err := config.Load(h.path)
	if err != nil {
		SendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	SendJSON(w, http.StatusOK, loaded)
}

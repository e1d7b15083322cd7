// Package gateway provides the HTTP gateway server.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pacer/internal/config"
	"pacer/internal/engine"
	"pacer/internal/gateway/handlers"
	"pacer/internal/gateway/middleware"
	"pacer/internal/gateway/websocket"
	"pacer/internal/storage"
	"pacer/internal/tasks"
	"pacer/pkg/logger"
)

// Server represents the HTTP gateway server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	hub        *websocket.Hub
	watcher    *Watcher
	config     *config.Config
	configPath string
	db         *storage.DB
	manager    *engine.Manager
	version    string
}

// NewServer creates a new gateway server over a session manager.
func NewServer(cfg *config.Config, configPath string, hub *websocket.Hub, db *storage.DB, manager *engine.Manager, version string) *Server {
	router := mux.NewRouter()

	// Middleware chain: Recovery -> Logging -> CORS
	handler := middleware.Recovery(
		middleware.Logging(
			middleware.CORS(router),
		),
	)

	server := &Server{
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		router:     router,
		hub:        hub,
		config:     cfg,
		configPath: configPath,
		db:         db,
		manager:    manager,
		version:    version,
	}

	server.wireManager()
	server.setupRoutes()

	return server
}

// wireManager connects the session manager to the hub so snapshots and
// tasks reach connected clients, and client commands reach the manager.
func (s *Server) wireManager() {
	s.manager.SetStateFunc(func(st engine.SessionState) {
		data, err := json.Marshal(websocket.WSMessage{
			Type:    websocket.TypeState,
			Session: st.ID,
			Data:    mustMarshal(st),
		})
		if err != nil {
			return
		}
		s.hub.BroadcastAll(data)
	})

	s.manager.SetTaskFunc(func(entry tasks.HistoryEntry) {
		if err := s.hub.BroadcastTyped(websocket.TypeTask, entry); err != nil {
			logger.Warn().Err(err).Msg("Broadcast task")
		}
	})

	s.hub.SetCommandHandler(func(command string) error {
		switch command {
		case websocket.CommandPause:
			return s.manager.Pause()
		case websocket.CommandResume:
			return s.manager.Resume()
		case websocket.CommandStop:
			return s.manager.StopSession()
		case websocket.CommandTaskComplete:
			sched, err := s.manager.Scheduler()
			if err != nil {
				return err
			}
			return sched.Complete()
		case websocket.CommandTaskSkip:
			sched, err := s.manager.Scheduler()
			if err != nil {
				return err
			}
			return sched.Skip()
		default:
			return fmt.Errorf("unknown command %q", command)
		}
	})
}

// setupRoutes configures the server routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/v1/health", handlers.HealthHandler(s.version)).Methods("GET")

	handlers.NewSessionHandler(s.manager).RegisterRoutes(s.router)
	handlers.NewTaskHandler(s.manager).RegisterRoutes(s.router)
	handlers.NewMediaHandler(s.manager).RegisterRoutes(s.router)
	handlers.NewConfigHandler(s.configPath).RegisterRoutes(s.router)
	if s.db != nil {
		handlers.NewHistoryHandler(s.db).RegisterRoutes(s.router)
	}

	// WebSocket endpoint
	s.router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(s.hub, w, r)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	handlers.InitStartTime()

	addr := fmt.Sprintf("%s:%d", s.config.Gateway.Host, s.config.Gateway.Port)
	s.httpServer.Addr = addr

	// Start WebSocket hub
	go s.hub.Run()

	logger.Info().
		Str("addr", addr).
		Msg("Starting gateway server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info().Msg("Shutting down gateway server")

	// Stop watcher if running
	if s.watcher != nil {
		s.watcher.Stop()
	}

	// A live session ends with the daemon.
	if err := s.manager.StopSession(); err != nil && err != engine.ErrNoSession {
		logger.Warn().Err(err).Msg("Stop session on shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}

// IsReady returns true if the server is ready to accept requests.
func (s *Server) IsReady() bool {
	return s.httpServer != nil && s.httpServer.Addr != ""
}

// SetWatcher sets the config file watcher for hot reload.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// Router returns the underlying router for testing.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

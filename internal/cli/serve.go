package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pacer/internal/audio"
	"pacer/internal/engine"
	"pacer/internal/gateway"
	"pacer/internal/gateway/websocket"
	"pacer/pkg/logger"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pacer gateway daemon",
		Long: `Start the pacer gateway daemon.

The daemon exposes:
- REST endpoints for session control, tasks, media and configuration
- a WebSocket feed of session state and audio cues
- session history and lifetime stats

Clients connect to the configured host and port (default: 127.0.0.1:18690).`,
		Example: `  # Start with default configuration
  pacer serve

  # Start on a custom port
  pacer serve --port 8080`,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	cmd.Flags().String("host", "", "host to bind to (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cliCtx := GetCLIContext(cmd)
	if cliCtx == nil {
		return fmt.Errorf("CLI context not initialized")
	}

	cfg := cliCtx.Config

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Gateway.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Gateway.Host = host
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 18690
	}
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = "127.0.0.1"
	}

	db, err := cliCtx.GetStorage()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	hub := websocket.NewHub()
	sink := gateway.NewHubSink(hub, audio.NewLogSink(false))
	manager := engine.NewManager(db, sink)

	srv := gateway.NewServer(cfg, cliCtx.ConfigPath, hub, db, manager, Version)

	watcher, err := gateway.NewWatcher(hub, cliCtx.ConfigPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Config watcher unavailable")
	} else {
		if err := watcher.Start(); err != nil {
			logger.Warn().Err(err).Msg("Config watcher failed to start")
		} else {
			srv.SetWatcher(watcher)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info().
		Str("address", fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)).
		Msg("Daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("Server error")
			return err
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
		return err
	}

	logger.Info().Msg("Daemon stopped")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"pacer/internal/audio"
	"pacer/internal/engine"
	"pacer/pkg/logger"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var ticks bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session headless in the terminal",
		Long: `Run a single session without the gateway. Cues and phase changes
are written to the log; the session ends on its own schedule or on
interrupt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, ticks)
		},
	}

	cmd.Flags().BoolVar(&ticks, "ticks", false, "log every beat")

	return cmd
}

func runHeadless(cmd *cobra.Command, ticks bool) error {
	cliCtx := GetCLIContext(cmd)
	if cliCtx == nil {
		return fmt.Errorf("CLI context not initialized")
	}

	db, err := cliCtx.GetStorage()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	manager := engine.NewManager(db, audio.NewLogSink(ticks))

	// A completed session keeps ticking until stopped; headless runs
	// stop as soon as the schedule finishes.
	completed := make(chan struct{})
	var once sync.Once
	manager.SetStateFunc(func(st engine.SessionState) {
		if st.Status == engine.StatusCompleted {
			once.Do(func() { close(completed) })
		}
	})

	session, err := manager.StartSession(context.Background(), cliCtx.Config)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("Interrupted, stopping session")
	case <-completed:
	}
	if err := manager.StopSession(); err != nil {
		return err
	}

	st := session.State()
	fmt.Printf("Session %s: %s\n", st.ID, st.Status)
	fmt.Printf("  Elapsed: %.0fs of %.0fs\n", st.ElapsedSeconds, st.TotalSeconds)
	fmt.Printf("  Beats: %d  Edges: %d  Ruins: %d  Orgasms: %d\n",
		st.Cadence.TotalBeats, st.Cadence.Edges, st.Cadence.Ruins, st.Cadence.Orgasms)
	if st.Finale != "" {
		fmt.Printf("  Finale: %s\n", st.Finale)
	}

	return nil
}

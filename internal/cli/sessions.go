package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect past sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsStatsCmd())

	return cmd
}

func newSessionsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := GetCLIContext(cmd)
			if cliCtx == nil {
				return fmt.Errorf("CLI context not initialized")
			}

			db, err := cliCtx.GetStorage()
			if err != nil {
				return err
			}

			records, err := db.ListSessions(limit, 0)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No sessions recorded.")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s  %s  %-9s  %4.0fs  beats=%d edges=%d ruins=%d  %s\n",
					rec.ID[:8],
					rec.StartedAt.Format(time.DateTime),
					rec.Status,
					rec.ElapsedSeconds,
					rec.TotalBeats, rec.Edges, rec.Ruins,
					rec.Finale,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions to list")

	return cmd
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session with its task history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := GetCLIContext(cmd)
			if cliCtx == nil {
				return fmt.Errorf("CLI context not initialized")
			}

			db, err := cliCtx.GetStorage()
			if err != nil {
				return err
			}

			rec, err := db.GetSession(args[0])
			if err != nil {
				return err
			}

			tasks, err := db.ListTasks(rec.ID)
			if err != nil {
				return err
			}

			out := map[string]any{
				"session": rec,
				"tasks":   tasks,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newSessionsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := GetCLIContext(cmd)
			if cliCtx == nil {
				return fmt.Errorf("CLI context not initialized")
			}

			db, err := cliCtx.GetStorage()
			if err != nil {
				return err
			}

			stats, err := db.GetStats()
			if err != nil {
				return err
			}

			fmt.Printf("Sessions: %d\n", stats.Sessions)
			fmt.Printf("Time:     %s\n", (time.Duration(stats.TotalSeconds) * time.Second).String())
			fmt.Printf("Beats:    %d\n", stats.TotalBeats)
			fmt.Printf("Edges:    %d\n", stats.TotalEdges)
			fmt.Printf("Ruins:    %d\n", stats.TotalRuins)
			fmt.Printf("Orgasms:  %d\n", stats.TotalOrgasms)
			fmt.Printf("Longest:  %.0fs\n", stats.LongestSecond)
			return nil
		},
	}
}

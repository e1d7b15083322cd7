package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"pacer/internal/tasks"
)

// NewActionsCmd creates the actions command.
func NewActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List available tasks",
	}

	cmd.AddCommand(newActionsListCmd())

	return cmd
}

func newActionsListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks enabled by the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := GetCLIContext(cmd)
			if cliCtx == nil {
				return fmt.Errorf("CLI context not initialized")
			}

			var list []tasks.Task
			if all {
				list = tasks.All()
			} else {
				list = tasks.Catalog(cliCtx.Config.Tasks)
			}

			sort.Slice(list, func(i, j int) bool {
				if list[i].Category != list[j].Category {
					return list[i].Category < list[j].Category
				}
				return list[i].ID < list[j].ID
			})

			if len(list) == 0 {
				fmt.Println("No tasks enabled.")
				return nil
			}

			for _, t := range list {
				fmt.Printf("%-10s %-18s w=%.0f  min=%s  %s\n",
					t.Category, t.ID, t.Weight, t.MinIntensity, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include disabled tasks")

	return cmd
}

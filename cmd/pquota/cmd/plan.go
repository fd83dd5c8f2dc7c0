package cmd

import (
	"strconv"

	"github.com/clusterstor/pquota/pkg/reconcile"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <specfile>",
	Short: "Show the operations a spec would apply, without applying them",
	Long: `plan runs the full reconciliation pipeline against the live filesystem
state but executes nothing. Project IDs shown for new directories are the
ones apply would assign, provided the filesystem does not change in between.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.release()

		runner := &reconcile.Runner{Planner: rt.planner}
		ops, runErr := runner.Run(cmd.Context(), args[0])

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"#", "Operation"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for i, op := range ops {
			table.Append([]string{strconv.Itoa(i + 1), op.String()})
		}
		table.Render()

		// Show what was planned up to the failing entry, then fail.
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

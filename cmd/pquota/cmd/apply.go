package cmd

import (
	"os/signal"
	"syscall"

	"github.com/clusterstor/pquota/pkg/audit"
	"github.com/clusterstor/pquota/pkg/executor"
	"github.com/clusterstor/pquota/pkg/metrics"
	"github.com/clusterstor/pquota/pkg/reconcile"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var applyCmd = &cobra.Command{
	Use:   "apply <specfile>",
	Short: "Apply a quota spec to the target filesystem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.release()

		stats := &metrics.RunStats{Filesystem: cfg.Filesystem.Device}
		auditLog := audit.NewWriter(cfg.Audit.Path)
		klog.InfoS("Starting provisioning run",
			"spec", args[0],
			"filesystem", cfg.Filesystem.Device,
			"mountpoint", rt.mountPoint,
			"run", auditLog.RunID(),
		)

		runner := &reconcile.Runner{
			Planner:  rt.planner,
			Executor: executor.New(rt.mgr, auditLog, stats),
		}
		if _, err := runner.Run(ctx, args[0]); err != nil {
			klog.ErrorS(err, "Provisioning run aborted")
			return err
		}

		if cfg.Metrics.TextfilePath != "" {
			if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath, stats); err != nil {
				klog.ErrorS(err, "Failed to write run metrics textfile")
			}
		}

		klog.InfoS("Provisioning run complete",
			"entries", stats.EntriesApplied,
			"projects", stats.ProjectsSet,
			"limits", stats.QuotaLimitsSet,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/clusterstor/pquota/pkg/mount"
	"github.com/clusterstor/pquota/pkg/quota"
	"github.com/clusterstor/pquota/pkg/spec"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var reportSpecFile string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-shot project quota usage table",
	Long: `report queries the filesystem once and prints usage and limits per
project ID. With --spec, directories from the spec file are resolved to
their project IDs so rows carry the project path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup()
		if err != nil {
			return err
		}
		defer rt.release()

		var blocks, inodes map[uint32]quota.Report

		g, _ := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			blocks, err = rt.mgr.FetchAllReports(rt.mountPoint, quota.BlockReport)
			return err
		})
		// The native reader cannot produce inode rows; skip them there.
		if cfg.Filesystem.ReportSource != "native" {
			g.Go(func() error {
				var err error
				inodes, err = rt.mgr.FetchAllReports(rt.mountPoint, quota.InodeReport)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("%w: %v", quota.ErrQueryFailed, err)
		}

		paths := pathsByProjectID(rt)

		if ds, err := mount.GetDiskUsage(rt.mountPoint); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %d GB total, %d GB used\n",
				cfg.Filesystem.Device, rt.mountPoint, ds.Total>>30, ds.Used>>30)
		}

		ids := make([]uint32, 0, len(blocks))
		for id := range blocks {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Project", "Path", "Used (KB)", "Limit (KB)", "Inodes", "Inode Limit"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, id := range ids {
			b := blocks[id]
			i := inodes[id]
			table.Append([]string{
				strconv.FormatUint(uint64(id), 10),
				paths[id],
				strconv.FormatUint(b.Used, 10),
				strconv.FormatUint(b.Limit, 10),
				strconv.FormatUint(i.Used, 10),
				strconv.FormatUint(i.Limit, 10),
			})
		}
		table.Render()
		return nil
	},
}

// pathsByProjectID labels report rows with directories from the spec file,
// when one was given.
func pathsByProjectID(rt *runtime) map[uint32]string {
	paths := make(map[uint32]string)
	if reportSpecFile == "" {
		return paths
	}

	entries, err := spec.ParseFile(reportSpecFile)
	if err != nil {
		klog.Warningf("cannot label report rows from spec: %v", err)
		return paths
	}
	for _, entry := range entries {
		e, ok := entry.(*spec.CreateOrUpdate)
		if !ok {
			continue
		}
		id, err := rt.mgr.GetProjectID(e.Path)
		if err != nil || id == 0 {
			continue
		}
		paths[id] = e.Path
	}
	return paths
}

func init() {
	reportCmd.Flags().StringVar(&reportSpecFile, "spec", "", "spec file used to label rows with project directories")
	rootCmd.AddCommand(reportCmd)
}

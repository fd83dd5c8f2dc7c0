package cmd

import (
	"flag"
	"fmt"

	"github.com/clusterstor/pquota/pkg/config"
	"github.com/clusterstor/pquota/pkg/identity"
	"github.com/clusterstor/pquota/pkg/mount"
	"github.com/clusterstor/pquota/pkg/plan"
	"github.com/clusterstor/pquota/pkg/quota"
	"github.com/clusterstor/pquota/pkg/quota/ext4"
	"github.com/clusterstor/pquota/pkg/quota/native"
	"github.com/clusterstor/pquota/pkg/quota/xfs"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
	"k8s.io/klog/v2"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pquota",
	Short: "Project quota provisioner for cluster filesystems",
	Long: `pquota reconciles per-project directories and storage quotas on a
cluster filesystem against a declarative spec file. It assigns project IDs
to new directories, never overwrites existing assignments, and records every
applied change in an append-only audit log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 确保 klog 能够解析 flags
		flag.Parse()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		if cfg.Logging.File != "" {
			klog.SetOutput(&lumberjack.Logger{
				Filename:   cfg.Logging.File,
				MaxSize:    cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
			})
			klog.LogToStderr(false)
		}
		return nil
	},
}

// Execute 是 main.go 调用的函数
func Execute() error {
	return rootCmd.Execute()
}

// init 初始化 Flags
func init() {
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "/etc/pquota/config.yaml", "path to the pquota config file")
	_ = flag.Set("logtostderr", "true")
}

// runtime bundles the per-run collaborators the subcommands share.
type runtime struct {
	mountPoint string
	mounts     *mount.Manager
	mgr        quota.Manager
	planner    *plan.Planner
}

func setup() (*runtime, error) {
	mounts := mount.New(cfg.Filesystem.Device, cfg.Filesystem.MountPoint, cfg.Filesystem.Type)
	mountPoint, err := mounts.Ensure(cfg.Filesystem.MountOnDemand)
	if err != nil {
		return nil, err
	}

	mgr, err := newManager(cfg.Filesystem.Type, mountPoint)
	if err != nil {
		return nil, err
	}
	if cfg.Filesystem.ReportSource == "native" {
		mgr = quota.WithReporter(mgr, native.New())
	}

	ids, err := plan.NewAllocator(mgr, mountPoint)
	if err != nil {
		return nil, err
	}

	return &runtime{
		mountPoint: mountPoint,
		mounts:     mounts,
		mgr:        mgr,
		planner:    plan.NewPlanner(mountPoint, mgr, ids, identity.NewOSResolver()),
	}, nil
}

func (rt *runtime) release() {
	if err := rt.mounts.Release(); err != nil {
		klog.ErrorS(err, "Failed to release filesystem mount")
	}
}

func newManager(fsType, mountPoint string) (quota.Manager, error) {
	switch fsType {
	case "xfs":
		return xfs.New(mountPoint), nil
	case "ext4":
		return ext4.New(mountPoint), nil
	default:
		return nil, fmt.Errorf("unsupported filesystem type %q", fsType)
	}
}

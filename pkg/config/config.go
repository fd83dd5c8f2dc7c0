package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the static configuration of one pquota invocation. Everything
// that describes *what* to provision lives in the spec file; this only
// names the target filesystem and the peripheral outputs.
//
// Sources, in order of precedence: flags, PQUOTA_* environment variables,
// the YAML config file, defaults.
type Config struct {
	Filesystem FilesystemConfig `mapstructure:"filesystem"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// FilesystemConfig names the single target filesystem of a run.
type FilesystemConfig struct {
	// Device is the block device or remote source the filesystem mounts
	// from, as it appears in mountinfo.
	Device string `mapstructure:"device" validate:"required"`

	// MountPoint is where Mount() attaches the filesystem when the run has
	// to mount it itself.
	MountPoint string `mapstructure:"mountpoint" validate:"required"`

	// Type selects the quota backend.
	Type string `mapstructure:"type" validate:"required,oneof=xfs ext4"`

	// MountOnDemand lets a run mount the filesystem if it is not mounted,
	// and unmount it again when done.
	MountOnDemand bool `mapstructure:"mount_on_demand"`

	// ReportSource selects how quota reports are read: "cli" execs the
	// filesystem admin tools, "native" uses quotactl directly.
	ReportSource string `mapstructure:"report_source" validate:"oneof=cli native"`
}

type AuditConfig struct {
	// Path of the append-only audit log.
	Path string `mapstructure:"path" validate:"required"`
}

type MetricsConfig struct {
	// TextfilePath, when set, is where run metrics are written for a
	// node_exporter textfile collector. Empty disables the write.
	TextfilePath string `mapstructure:"textfile_path"`
}

type LoggingConfig struct {
	// File, when set, sends logs there instead of stderr, with rotation.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("filesystem.type", "xfs")
	v.SetDefault("filesystem.report_source", "cli")
	v.SetDefault("audit.path", "/var/log/pquota/audit.log")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
}

// Load reads the config file at path and applies env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("PQUOTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Decode through AllSettings so env overrides for known keys are
	// honored alongside file values and defaults.
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

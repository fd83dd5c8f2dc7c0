package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
filesystem:
  device: /dev/nvme1n1
  mountpoint: /mnt/scratch
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/nvme1n1", cfg.Filesystem.Device)
	assert.Equal(t, "xfs", cfg.Filesystem.Type)
	assert.Equal(t, "cli", cfg.Filesystem.ReportSource)
	assert.False(t, cfg.Filesystem.MountOnDemand)
	assert.Equal(t, "/var/log/pquota/audit.log", cfg.Audit.Path)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 3, cfg.Logging.MaxBackups)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
filesystem:
  device: /dev/sdb
  mountpoint: /data
  type: ext4
  mount_on_demand: true
  report_source: native
audit:
  path: /var/log/quotas.log
metrics:
  textfile_path: /var/lib/node_exporter/pquota.prom
logging:
  file: /var/log/pquota.log
  max_size_mb: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ext4", cfg.Filesystem.Type)
	assert.True(t, cfg.Filesystem.MountOnDemand)
	assert.Equal(t, "native", cfg.Filesystem.ReportSource)
	assert.Equal(t, "/var/log/quotas.log", cfg.Audit.Path)
	assert.Equal(t, "/var/lib/node_exporter/pquota.prom", cfg.Metrics.TextfilePath)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
}

func TestLoad_MissingDevice(t *testing.T) {
	path := writeConfig(t, `
filesystem:
  mountpoint: /mnt/scratch
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_BadFilesystemType(t *testing.T) {
	path := writeConfig(t, `
filesystem:
  device: /dev/sdb
  mountpoint: /data
  type: btrfs
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
filesystem:
  device: /dev/sdb
  mountpoint: /data
`)
	t.Setenv("PQUOTA_AUDIT_PATH", "/tmp/audit.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/audit.log", cfg.Audit.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

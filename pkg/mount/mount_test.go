package mount

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMountInfo = `22 28 0:21 / /proc rw,nosuid,nodev,noexec,relatime shared:13 - proc proc rw
28 1 8:2 / / rw,relatime shared:1 - ext4 /dev/sda2 rw,errors=remount-ro
96 28 8:16 / /data rw,relatime shared:50 - ext4 /dev/sdb rw,prjquota
105 28 259:3 / /mnt/scratch rw,noatime shared:61 - xfs /dev/nvme1n1 rw,prjquota
`

func writeMountInfo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mountinfo")
	require.NoError(t, os.WriteFile(path, []byte(sampleMountInfo), 0o644))
	return path
}

func TestCurrentMountPoint_Found(t *testing.T) {
	m := New("/dev/nvme1n1", "/mnt/scratch", "xfs")
	m.mountInfoPath = writeMountInfo(t)

	mp, err := m.CurrentMountPoint()
	require.NoError(t, err)
	assert.Equal(t, "/mnt/scratch", mp)
}

func TestCurrentMountPoint_TypeMismatch(t *testing.T) {
	m := New("/dev/nvme1n1", "/mnt/scratch", "ext4")
	m.mountInfoPath = writeMountInfo(t)

	mp, err := m.CurrentMountPoint()
	require.NoError(t, err)
	assert.Equal(t, "", mp, "a device mounted with another fstype does not count")
}

func TestCurrentMountPoint_NotMounted(t *testing.T) {
	m := New("/dev/sdz", "/mnt/missing", "xfs")
	m.mountInfoPath = writeMountInfo(t)

	mp, err := m.CurrentMountPoint()
	require.NoError(t, err)
	assert.Equal(t, "", mp)
}

func TestEnsure_MountedFilesystemIsUsedInPlace(t *testing.T) {
	m := New("/dev/sdb", "/somewhere/else", "ext4")
	m.mountInfoPath = writeMountInfo(t)

	// Already mounted on /data; the configured mountpoint is irrelevant
	// and Release must leave the mount alone.
	mp, err := m.Ensure(false)
	require.NoError(t, err)
	assert.Equal(t, "/data", mp)
	require.NoError(t, m.Release())
}

func TestEnsure_NotMountedAndNoOnDemand(t *testing.T) {
	m := New("/dev/sdz", "/mnt/missing", "xfs")
	m.mountInfoPath = writeMountInfo(t)

	_, err := m.Ensure(false)
	require.ErrorIs(t, err, ErrMountUnavailable)
}

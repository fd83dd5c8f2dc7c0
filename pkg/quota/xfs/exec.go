package xfs

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// CLI drives project quotas on an XFS filesystem through xfs_quota(8) and
// xfs_io(8). The mountpoint is the filesystem root all commands target.
type CLI struct {
	mountPoint string
}

func New(mountPoint string) *CLI { return &CLI{mountPoint: mountPoint} }

func (c *CLI) SetProjectID(path string, projectID uint32) error {
	klog.V(4).InfoS("Exec: SetProjectID", "path", path, "id", projectID)
	cmd := exec.Command("xfs_quota", "-x", "-c", fmt.Sprintf("project -s -p %s %d", path, projectID), c.mountPoint)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set project ID on %s: %v, out: %s", path, err, string(out))
	}
	return nil
}

func (c *CLI) SetQuota(projectID uint32, limitKB uint64) error {
	klog.V(4).InfoS("Exec: SetQuota", "id", projectID, "limitKB", limitKB)
	cmd := exec.Command("xfs_quota", "-x", "-c", fmt.Sprintf("limit -p bhard=%dk %d", limitKB, projectID), c.mountPoint)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set quota for project %d: %v, out: %s", projectID, err, string(out))
	}
	return nil
}

// GetProjectID reads the project ID recorded on a directory. A directory
// that does not exist yet reports zero, same as one with no project.
func (c *CLI) GetProjectID(path string) (uint32, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, nil
	}
	out, err := exec.Command("xfs_io", "-r", "-c", "lsproj", path).CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("failed to read project ID of %s: %v, out: %s", path, err, string(out))
	}
	// xfs_io prints "projid = N"
	fields := strings.Fields(string(out))
	if len(fields) < 3 || fields[0] != "projid" {
		return 0, fmt.Errorf("unexpected xfs_io lsproj output for %s: %q", path, strings.TrimSpace(string(out)))
	}
	id, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected project ID %q for %s: %v", fields[2], path, err)
	}
	return uint32(id), nil
}

package ext4

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// CLI drives project quotas on an ext4 filesystem through chattr(1),
// lsattr(1) and setquota(8).
type CLI struct {
	mountPoint string
}

func New(mountPoint string) *CLI { return &CLI{mountPoint: mountPoint} }

func (c *CLI) SetProjectID(path string, projectID uint32) error {
	args := []string{
		"-R",
		"-p",
		strconv.FormatUint(uint64(projectID), 10),
		"+P",
		path,
	}

	klog.V(4).InfoS("Exec: chattr", "args", args)

	cmd := exec.Command("chattr", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set project ID on %s: %v, out: %s", path, err, string(out))
	}
	return nil
}

// SetQuota sets the block hard and soft limits; inodes stay unlimited.
// setquota takes block limits in 1K units, same as our internal unit.
func (c *CLI) SetQuota(projectID uint32, limitKB uint64) error {
	args := []string{
		"-P",
		strconv.FormatUint(uint64(projectID), 10),
		strconv.FormatUint(limitKB, 10),
		strconv.FormatUint(limitKB, 10),
		"0", "0",
		c.mountPoint,
	}

	klog.V(4).InfoS("Exec: setquota", "args", args)

	cmd := exec.Command("setquota", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set quota for project %d: %v, out: %s", projectID, err, string(out))
	}
	return nil
}

// GetProjectID reads the project ID recorded on a directory via lsattr.
// A directory that does not exist yet reports zero.
func (c *CLI) GetProjectID(path string) (uint32, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, nil
	}
	out, err := exec.Command("lsattr", "-pd", path).CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("failed to read project ID of %s: %v, out: %s", path, err, string(out))
	}
	// lsattr -pd prints "<projid> <flags> <path>"
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return 0, fmt.Errorf("unexpected lsattr output for %s: %q", path, strings.TrimSpace(string(out)))
	}
	id, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected project ID %q for %s: %v", fields[0], path, err)
	}
	return uint32(id), nil
}

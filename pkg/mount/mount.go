package mount

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"k8s.io/klog/v2"
)

const systemMountInfoFile = "/proc/self/mountinfo"

// ErrMountUnavailable means the target filesystem is not mounted and this
// run is not allowed (or not able) to mount it.
var ErrMountUnavailable = errors.New("target filesystem is not mounted")

// Manager tracks the mount state of the single target filesystem for one
// run. When it mounts the filesystem itself, it remembers that and Release
// unmounts it again; a filesystem that was already mounted is left alone.
type Manager struct {
	Device     string
	MountPoint string
	FSType     string

	mountInfoPath string
	mountedByUs   bool
}

func New(device, mountPoint, fsType string) *Manager {
	return &Manager{
		Device:        device,
		MountPoint:    mountPoint,
		FSType:        fsType,
		mountInfoPath: systemMountInfoFile,
	}
}

// CurrentMountPoint returns the mountpoint the device is mounted on, or ""
// when it is not mounted.
func (m *Manager) CurrentMountPoint() (string, error) {
	f, err := os.Open(m.mountInfoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open mountinfo: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		// mountinfo separates the fixed fields from fstype and source
		// with " - ".
		parts := strings.Split(line, " - ")
		if len(parts) < 2 {
			continue
		}

		preFields := strings.Fields(parts[0])
		if len(preFields) < 5 {
			continue
		}
		mountPoint := preFields[4]

		postFields := strings.Fields(parts[1])
		if len(postFields) < 2 {
			continue
		}
		fsType, source := postFields[0], postFields[1]

		if source == m.Device && (m.FSType == "" || fsType == m.FSType) {
			return mountPoint, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to scan mountinfo: %v", err)
	}
	return "", nil
}

func (m *Manager) Mount() error {
	klog.V(2).InfoS("Exec: mount", "device", m.Device, "mountpoint", m.MountPoint, "type", m.FSType)
	cmd := exec.Command("mount", "-t", m.FSType, m.Device, m.MountPoint)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to mount %s on %s: %v, out: %s", m.Device, m.MountPoint, err, string(out))
	}
	return nil
}

func (m *Manager) Unmount() error {
	klog.V(2).InfoS("Exec: umount", "mountpoint", m.MountPoint)
	cmd := exec.Command("umount", m.MountPoint)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to unmount %s: %v, out: %s", m.MountPoint, err, string(out))
	}
	return nil
}

// Ensure returns the mountpoint the filesystem is live on, mounting it
// first when onDemand allows.
func (m *Manager) Ensure(onDemand bool) (string, error) {
	mp, err := m.CurrentMountPoint()
	if err != nil {
		return "", err
	}
	if mp != "" {
		klog.V(2).InfoS("Filesystem already mounted", "device", m.Device, "mountpoint", mp)
		return mp, nil
	}

	if !onDemand {
		return "", fmt.Errorf("%w: %s", ErrMountUnavailable, m.Device)
	}
	if err := m.Mount(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMountUnavailable, err)
	}
	m.mountedByUs = true
	return m.MountPoint, nil
}

// Release unmounts the filesystem only if this run mounted it.
func (m *Manager) Release() error {
	if !m.mountedByUs {
		return nil
	}
	m.mountedByUs = false
	return m.Unmount()
}

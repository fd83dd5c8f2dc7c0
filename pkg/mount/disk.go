package mount

import "golang.org/x/sys/unix"

// DiskStatus holds space usage of a mounted filesystem, in bytes.
type DiskStatus struct {
	Total     uint64
	Used      uint64
	Free      uint64
	BlockSize uint64
}

// GetDiskUsage reports space usage of the filesystem holding path.
func GetDiskUsage(path string) (DiskStatus, error) {
	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		return DiskStatus{}, err
	}

	blockSize := uint64(fs.Bsize)
	ds := DiskStatus{
		Total:     fs.Blocks * blockSize,
		Free:      fs.Bfree * blockSize,
		BlockSize: blockSize,
	}
	ds.Used = ds.Total - ds.Free
	return ds, nil
}

package quota

import "errors"

// Report type flags accepted by FetchAllReports.
const (
	BlockReport = "b"
	InodeReport = "i"
)

// Report is one row of a filesystem project-quota report. For block reports
// Used and Limit are in kilobytes; for inode reports they are counts.
type Report struct {
	ID    uint32
	Used  uint64
	Limit uint64
}

// Manager is the surface a filesystem backend must provide. Paths passed to
// SetProjectID and GetProjectID are absolute and already verified to lie
// under the target mountpoint.
type Manager interface {
	SetProjectID(path string, projectID uint32) error
	SetQuota(projectID uint32, limitKB uint64) error
	// GetProjectID returns the project ID assigned to path. Zero means no
	// project is assigned; a missing path also reports zero.
	GetProjectID(path string) (uint32, error)
	Reporter
}

// Reporter fetches the full project-quota report for a mountpoint.
type Reporter interface {
	FetchAllReports(mountPoint string, typeFlag string) (map[uint32]Report, error)
}

// ErrQueryFailed marks a backend query that returned no usable data. An
// empty report set is not a failure; it means no project quotas exist yet.
var ErrQueryFailed = errors.New("quota query returned no usable data")

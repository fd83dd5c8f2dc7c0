package quota

import "fmt"

// MaxProjectID returns the highest project ID currently assigned on the
// filesystem. ok is false when the filesystem reports no project quotas at
// all, which is a valid empty state, not a query failure.
func MaxProjectID(r Reporter, mountPoint string) (max uint32, ok bool, err error) {
	reports, err := r.FetchAllReports(mountPoint, BlockReport)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	for id := range reports {
		if id > max {
			max = id
		}
	}
	return max, len(reports) > 0, nil
}

// WithReporter overrides a manager's report source while keeping its
// per-path lookups and mutations. Used when reports come from quotactl but
// assignments still go through the admin CLIs.
func WithReporter(m Manager, r Reporter) Manager {
	return &managerWithReporter{Manager: m, reports: r}
}

type managerWithReporter struct {
	Manager
	reports Reporter
}

func (m *managerWithReporter) FetchAllReports(mountPoint string, typeFlag string) (map[uint32]Report, error) {
	return m.reports.FetchAllReports(mountPoint, typeFlag)
}

// CurrentQuotaKB returns the block hard limit of the given project in
// kilobytes, or zero when the project has no limit recorded.
func CurrentQuotaKB(r Reporter, mountPoint string, projectID uint32) (uint64, error) {
	reports, err := r.FetchAllReports(mountPoint, BlockReport)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return reports[projectID].Limit, nil
}

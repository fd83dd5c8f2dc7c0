package plan

import (
	"github.com/clusterstor/pquota/pkg/quota"
	"k8s.io/klog/v2"
)

// Allocator hands out fresh project IDs, starting above the highest ID the
// filesystem reported when the run began. The maximum is read exactly once
// per run and never re-queried; all allocation within a run goes through
// this counter so consecutive new projects get consecutive IDs.
type Allocator struct {
	max uint32
}

// NewAllocator initializes the counter from the filesystem's current
// report. An error from the query is fatal; a filesystem with no project
// quotas at all starts allocation at 1.
func NewAllocator(r quota.Reporter, mountPoint string) (*Allocator, error) {
	max, found, err := quota.MaxProjectID(r, mountPoint)
	if err != nil {
		return nil, err
	}
	if !found {
		klog.InfoS("No project quotas on filesystem yet, allocating from 1", "mountpoint", mountPoint)
	}
	klog.V(2).InfoS("Project ID allocator initialized", "max", max)
	return &Allocator{max: max}, nil
}

// NewAllocatorAt starts allocation above a known maximum.
func NewAllocatorAt(max uint32) *Allocator {
	return &Allocator{max: max}
}

// Allocate mints the next project ID and bumps the counter.
func (a *Allocator) Allocate() uint32 {
	a.max++
	return a.max
}

// Peek returns the current maximum without allocating.
func (a *Allocator) Peek() uint32 {
	return a.max
}

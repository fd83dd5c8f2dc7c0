package plan

import (
	"errors"
	"testing"

	"github.com/clusterstor/pquota/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReporter struct {
	reports map[uint32]quota.Report
	err     error
	calls   int
}

func (s *stubReporter) FetchAllReports(mountPoint string, typeFlag string) (map[uint32]quota.Report, error) {
	s.calls++
	return s.reports, s.err
}

func TestAllocator_MonotonicFromFilesystemMax(t *testing.T) {
	r := &stubReporter{reports: map[uint32]quota.Report{
		2:  {ID: 2},
		10: {ID: 10},
	}}

	a, err := NewAllocator(r, "/mnt/fs")
	require.NoError(t, err)
	assert.Equal(t, uint32(10), a.Peek())

	// N fresh projects get max+1..max+N in order.
	assert.Equal(t, uint32(11), a.Allocate())
	assert.Equal(t, uint32(12), a.Allocate())
	assert.Equal(t, uint32(13), a.Allocate())
	assert.Equal(t, uint32(13), a.Peek())

	// The filesystem maximum is read exactly once per run.
	assert.Equal(t, 1, r.calls)
}

func TestAllocator_EmptyFilesystemStartsAtOne(t *testing.T) {
	a, err := NewAllocator(&stubReporter{reports: map[uint32]quota.Report{}}, "/mnt/fs")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), a.Allocate())
}

func TestAllocator_QueryFailureIsFatal(t *testing.T) {
	_, err := NewAllocator(&stubReporter{err: errors.New("no report")}, "/mnt/fs")
	require.ErrorIs(t, err, quota.ErrQueryFailed)
}

func TestAllocator_PeekDoesNotAllocate(t *testing.T) {
	a := NewAllocatorAt(5)
	assert.Equal(t, uint32(5), a.Peek())
	assert.Equal(t, uint32(5), a.Peek())
	assert.Equal(t, uint32(6), a.Allocate())
}

package ext4

import (
	"testing"

	"github.com/clusterstor/pquota/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repquotaOut = []byte(`*** Report for project quotas on device /dev/sdb
Block grace time: 7days; Inode grace time: 7days
                        Block limits                File limits
Project         used    soft    hard  grace    used  soft  hard  grace
----------------------------------------------------------------------
#0        --      20       0       0             5     0     0
#7        --  102400  204800  204800            10    20    20
#9        +-  512000  409600  409600            99     0     0
`)

func TestParseReport_Blocks(t *testing.T) {
	reports, err := parseReport(repquotaOut, quota.BlockReport)
	require.NoError(t, err)

	assert.Equal(t, uint64(102400), reports[7].Used)
	assert.Equal(t, uint64(204800), reports[7].Limit)
	assert.Equal(t, uint64(409600), reports[9].Limit)
}

func TestParseReport_Inodes(t *testing.T) {
	reports, err := parseReport(repquotaOut, quota.InodeReport)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), reports[7].Used)
	assert.Equal(t, uint64(20), reports[7].Limit)
}

func TestParseReport_SkipsHeaders(t *testing.T) {
	reports, err := parseReport(repquotaOut, quota.BlockReport)
	require.NoError(t, err)
	require.Len(t, reports, 3)
}

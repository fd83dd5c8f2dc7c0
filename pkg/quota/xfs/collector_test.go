package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	out := []byte(`#0          4          0          0     00 [--------]
#7  104857600          0  107374182400     00 [--------]
#11        12          0  268435456000     00 [--------]
`)

	reports, err := parseReport(out)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, uint64(104857600), reports[7].Used)
	assert.Equal(t, uint64(107374182400), reports[7].Limit)
	assert.Equal(t, uint64(268435456000), reports[11].Limit)
}

func TestParseReport_ShortRows(t *testing.T) {
	// Some xfs_quota versions emit fewer columns; the last numeric column
	// is then the hard limit.
	out := []byte("#3 2048 4096\n")

	reports, err := parseReport(out)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, uint64(2048), reports[3].Used)
	assert.Equal(t, uint64(4096), reports[3].Limit)
}

func TestParseReport_SkipsNoise(t *testing.T) {
	out := []byte("\nnot-a-row\n#x 1 2 3\n#5 10 0 20 00 [--------]\n")

	reports, err := parseReport(out)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, uint64(20), reports[5].Limit)
}

func TestParseReport_Empty(t *testing.T) {
	reports, err := parseReport(nil)
	require.NoError(t, err)
	assert.Empty(t, reports, "an empty report means no project quotas, not an error")
}

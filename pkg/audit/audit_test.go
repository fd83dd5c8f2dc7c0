package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_RecordFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w := NewWriter(path)
	w.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }

	require.NoError(t, w.Append([]string{"/mnt/fs/p1", "250", "grpA", "userA", "0775"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSuffix(string(data), "\n")
	fields := strings.Split(line, "\t")
	require.Len(t, fields, 7)
	assert.Equal(t, "2026-03-14T09:26:53Z", fields[0])
	assert.Equal(t, w.RunID(), fields[1])
	assert.Equal(t, []string{"/mnt/fs/p1", "250", "grpA", "userA", "0775"}, fields[2:])
}

func TestAppend_AppendsAcrossWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	first := NewWriter(path)
	require.NoError(t, first.Append([]string{"/mnt/fs/p1", "+2"}))

	second := NewWriter(path)
	require.NoError(t, second.Append([]string{"/mnt/fs/p1", "-1"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2, "records from earlier runs are never truncated")
	assert.NotEqual(t, first.RunID(), second.RunID())
}

package audit

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Writer appends one tab-separated record per applied spec entry to a
// persistent log file: timestamp, run ID, then the original spec fields
// verbatim. The file is opened per append so a crashed run leaves complete
// records only.
type Writer struct {
	path  string
	runID string
	now   func() time.Time
}

func NewWriter(path string) *Writer {
	return &Writer{
		path:  path,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID identifies all records written by this run.
func (w *Writer) RunID() string { return w.runID }

func (w *Writer) Append(fields []string) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	record := w.now().Format(time.RFC3339) + "\t" + w.runID + "\t" + strings.Join(fields, "\t") + "\n"
	if _, err := f.WriteString(record); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

package spec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MalformedLineError is fatal for the whole run: a spec file that does not
// parse cleanly is never partially applied.
type MalformedLineError struct {
	File   string
	Line   int
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: malformed spec line: %s", e.File, e.Line, e.Reason)
}

// ParseLine parses one raw spec line. Lines whose first non-space character
// is '#' are comments and return (nil, nil). Field count alone decides the
// entry type: 5 fields is a CreateOrUpdate, 2 an Update, anything else is a
// MalformedLineError.
func ParseLine(raw string, file string, line int) (Entry, error) {
	if strings.HasPrefix(strings.TrimSpace(raw), "#") {
		return nil, nil
	}

	fields := strings.Fields(raw)
	switch len(fields) {
	case 5:
		return parseCreateOrUpdate(fields, file, line)
	case 2:
		return &Update{
			Path:      fields[0],
			QuotaExpr: fields[1],
			Line:      line,
			fields:    fields,
		}, nil
	default:
		return nil, &MalformedLineError{
			File:   file,
			Line:   line,
			Reason: fmt.Sprintf("expected 2 or 5 fields, got %d", len(fields)),
		}
	}
}

func parseCreateOrUpdate(fields []string, file string, line int) (Entry, error) {
	quotaTB, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, &MalformedLineError{
			File:   file,
			Line:   line,
			Reason: fmt.Sprintf("quota %q is not a nonnegative integer", fields[1]),
		}
	}

	mode, err := strconv.ParseUint(fields[4], 8, 32)
	if err != nil || mode > 0o7777 {
		return nil, &MalformedLineError{
			File:   file,
			Line:   line,
			Reason: fmt.Sprintf("mode %q is not an octal permission string", fields[4]),
		}
	}

	return &CreateOrUpdate{
		Path:    fields[0],
		QuotaTB: quotaTB,
		Group:   fields[2],
		User:    fields[3],
		Mode:    fileMode(uint32(mode)),
		Line:    line,
		fields:  fields,
	}, nil
}

// fileMode converts raw POSIX mode bits to an os.FileMode. The 0o7000
// setuid/setgid/sticky bits live in FileMode's high bits, so a plain cast
// would drop them and chmod would truncate modes like 2770 to 0770.
func fileMode(mode uint32) os.FileMode {
	fm := os.FileMode(mode & 0o777)
	if mode&0o4000 != 0 {
		fm |= os.ModeSetuid
	}
	if mode&0o2000 != 0 {
		fm |= os.ModeSetgid
	}
	if mode&0o1000 != 0 {
		fm |= os.ModeSticky
	}
	return fm
}

// Parse reads a whole spec from r, skipping comments. It stops at the first
// malformed line.
func Parse(r io.Reader, name string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		entry, err := ParseLine(scanner.Text(), name, line)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spec %s: %w", name, err)
	}
	return entries, nil
}

// ParseFile parses the spec file at path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

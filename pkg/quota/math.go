package quota

import (
	"fmt"
	"strconv"
	"strings"
)

// KBPerTB converts spec-file terabytes to the kilobyte unit the filesystem
// quota tools speak. 1 TB = 1024^3 KB.
const KBPerTB = uint64(1) << 30

// NegativeQuotaError reports a relative decrease that would drive the quota
// below zero.
type NegativeQuotaError struct {
	CurrentKB uint64
	DeltaKB   uint64
}

func (e *NegativeQuotaError) Error() string {
	kb := int64(e.CurrentKB) - int64(e.DeltaKB)
	return fmt.Sprintf("resulting quota would be negative: %d KB (%g TB)", kb, float64(kb)/float64(KBPerTB))
}

// Resolve computes the new absolute quota in kilobytes from the current
// quota and a spec-file expression. A bare integer is an absolute size in
// terabytes and ignores currentKB; "+N" and "-N" adjust currentKB by N
// terabytes. "0" sets the quota to zero.
func Resolve(currentKB uint64, expr string) (uint64, error) {
	switch {
	case strings.HasPrefix(expr, "+"):
		tb, err := parseTB(expr[1:])
		if err != nil {
			return 0, err
		}
		return currentKB + tb*KBPerTB, nil
	case strings.HasPrefix(expr, "-"):
		tb, err := parseTB(expr[1:])
		if err != nil {
			return 0, err
		}
		delta := tb * KBPerTB
		if delta > currentKB {
			return 0, &NegativeQuotaError{CurrentKB: currentKB, DeltaKB: delta}
		}
		return currentKB - delta, nil
	default:
		tb, err := parseTB(expr)
		if err != nil {
			return 0, err
		}
		return tb * KBPerTB, nil
	}
}

func parseTB(s string) (uint64, error) {
	tb, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid terabyte value %q: %w", s, err)
	}
	return tb, nil
}

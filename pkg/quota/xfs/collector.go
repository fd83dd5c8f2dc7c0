package xfs

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clusterstor/pquota/pkg/quota"
)

// FetchAllReports runs "xfs_quota report" and parses one Report per project.
// typeFlag selects block ("b", values in 1K blocks) or inode ("i") rows.
func (c *CLI) FetchAllReports(mountPoint string, typeFlag string) (map[uint32]quota.Report, error) {
	cmdStr := fmt.Sprintf("report -p -n -N -%s", typeFlag)
	cmd := exec.Command("xfs_quota", "-x", "-c", cmdStr, mountPoint)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("xfs_quota report failed: %v, out: %s", err, string(out))
	}
	return parseReport(out)
}

// parseReport handles the numeric report format:
//
//	#ID  Used  Soft  Hard  Warn/Grace
//
// Column counts vary between xfs_quota versions, so short rows fall back to
// the last numeric column as the hard limit.
func parseReport(out []byte) (map[uint32]quota.Report, error) {
	reports := make(map[uint32]quota.Report)
	scanner := bufio.NewScanner(bytes.NewReader(out))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		idStr := strings.TrimPrefix(fields[0], "#")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			continue
		}

		used, _ := strconv.ParseUint(fields[1], 10, 64)

		var limit uint64
		if len(fields) >= 4 {
			limit, _ = strconv.ParseUint(fields[3], 10, 64)
		} else {
			limit, _ = strconv.ParseUint(fields[2], 10, 64)
		}

		reports[uint32(id)] = quota.Report{
			ID:    uint32(id),
			Used:  used,
			Limit: limit,
		}
	}
	return reports, nil
}

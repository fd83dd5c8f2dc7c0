package ext4

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clusterstor/pquota/pkg/quota"
)

// FetchAllReports parses "repquota -P -n" output. repquota reports block
// values in 1K units; inode values are plain counts.
func (c *CLI) FetchAllReports(mountPoint string, typeFlag string) (map[uint32]quota.Report, error) {
	cmd := exec.Command("repquota", "-P", "-n", mountPoint)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("repquota failed: %v, out: %s", err, string(out))
	}
	return parseReport(out, typeFlag)
}

func parseReport(out []byte, typeFlag string) (map[uint32]quota.Report, error) {
	reports := make(map[uint32]quota.Report)
	scanner := bufio.NewScanner(bytes.NewReader(out))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") {
			continue
		}

		// Typical row (space separated):
		//   #<ID>  --  <blocks used> <bsoft> <bhard>  <inodes used> <isoft> <ihard>
		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}

		idStr := strings.TrimPrefix(fields[0], "#")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			continue
		}

		usedCol, limitCol := 2, 4
		if typeFlag == quota.InodeReport {
			usedCol, limitCol = 5, 7
		}

		used, _ := strconv.ParseUint(fields[usedCol], 10, 64)
		limit, _ := strconv.ParseUint(fields[limitCol], 10, 64)

		reports[uint32(id)] = quota.Report{
			ID:    uint32(id),
			Used:  used,
			Limit: limit,
		}
	}

	return reports, nil
}

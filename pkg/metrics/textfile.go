package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"k8s.io/klog/v2"
)

// RunStats aggregates what one provisioning run did. The executor bumps the
// counters; WriteTextfile turns them into a node_exporter textfile so the
// cluster's existing scrape picks up the last run without this tool serving
// anything itself.
type RunStats struct {
	Filesystem     string
	EntriesApplied int
	ProjectsSet    int
	QuotaLimitsSet int
	QuotaKBSet     uint64
}

var (
	descEntriesApplied = prometheus.NewDesc(
		"pquota_spec_entries_applied_total",
		"Spec entries fully applied in the last provisioning run",
		[]string{"filesystem"}, nil,
	)
	descProjectsSet = prometheus.NewDesc(
		"pquota_project_assignments_total",
		"Project ID assignments applied in the last provisioning run",
		[]string{"filesystem"}, nil,
	)
	descQuotaLimitsSet = prometheus.NewDesc(
		"pquota_quota_limits_set_total",
		"Quota limits written in the last provisioning run",
		[]string{"filesystem"}, nil,
	)
	descQuotaKBSet = prometheus.NewDesc(
		"pquota_quota_kilobytes_set",
		"Sum of quota limits written in the last provisioning run, in KB",
		[]string{"filesystem"}, nil,
	)
	descLastRun = prometheus.NewDesc(
		"pquota_last_run_timestamp_seconds",
		"Completion time of the last provisioning run",
		[]string{"filesystem"}, nil,
	)
)

type runCollector struct {
	stats    *RunStats
	finished time.Time
}

func (c *runCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descEntriesApplied
	ch <- descProjectsSet
	ch <- descQuotaLimitsSet
	ch <- descQuotaKBSet
	ch <- descLastRun
}

func (c *runCollector) Collect(ch chan<- prometheus.Metric) {
	fs := c.stats.Filesystem
	ch <- prometheus.MustNewConstMetric(descEntriesApplied, prometheus.GaugeValue, float64(c.stats.EntriesApplied), fs)
	ch <- prometheus.MustNewConstMetric(descProjectsSet, prometheus.GaugeValue, float64(c.stats.ProjectsSet), fs)
	ch <- prometheus.MustNewConstMetric(descQuotaLimitsSet, prometheus.GaugeValue, float64(c.stats.QuotaLimitsSet), fs)
	ch <- prometheus.MustNewConstMetric(descQuotaKBSet, prometheus.GaugeValue, float64(c.stats.QuotaKBSet), fs)
	ch <- prometheus.MustNewConstMetric(descLastRun, prometheus.GaugeValue, float64(c.finished.Unix()), fs)
}

// WriteTextfile renders the run stats in Prometheus text format and moves
// them into place atomically, the contract textfile collectors expect.
func WriteTextfile(path string, stats *RunStats) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(&runCollector{stats: stats, finished: time.Now()})

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather run metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create metrics textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(tmp, mf); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write run metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to publish metrics textfile: %w", err)
	}

	klog.V(2).InfoS("Wrote run metrics", "path", path, "entries", stats.EntriesApplied)
	return nil
}

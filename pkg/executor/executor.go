package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/clusterstor/pquota/pkg/audit"
	"github.com/clusterstor/pquota/pkg/metrics"
	"github.com/clusterstor/pquota/pkg/plan"
	"github.com/clusterstor/pquota/pkg/quota"
	"k8s.io/klog/v2"
)

// Executor applies planned operations to the live filesystem, strictly in
// order. There is no rollback: a failed operation aborts the run and leaves
// whatever earlier operations already did.
type Executor struct {
	qm    quota.Manager
	audit *audit.Writer
	stats *metrics.RunStats
}

func New(qm quota.Manager, aw *audit.Writer, stats *metrics.RunStats) *Executor {
	return &Executor{qm: qm, audit: aw, stats: stats}
}

// Apply runs every operation of one spec entry's plan. The context is
// checked between operations, not during them; the underlying admin tools
// are short-lived.
func (e *Executor) Apply(ctx context.Context, ops []plan.Op) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		klog.V(2).InfoS("Applying", "op", op.String())
		if err := e.apply(op); err != nil {
			return fmt.Errorf("failed to apply %q: %w", op.String(), err)
		}
	}
	if e.stats != nil {
		e.stats.EntriesApplied++
	}
	return nil
}

func (e *Executor) apply(op plan.Op) error {
	switch op := op.(type) {
	case plan.MakeDirectory:
		// MkdirAll so re-running a spec against an existing tree is a no-op.
		return os.MkdirAll(op.Path, 0o755)
	case plan.SetOwnership:
		return os.Chown(op.Path, int(op.UID), int(op.GID))
	case plan.SetPermissions:
		return os.Chmod(op.Path, op.Mode)
	case plan.AssignProjectID:
		if err := e.qm.SetProjectID(op.Path, op.ProjectID); err != nil {
			return err
		}
		if e.stats != nil {
			e.stats.ProjectsSet++
		}
		return nil
	case plan.SetQuotaLimit:
		if err := e.qm.SetQuota(op.ProjectID, op.LimitKB); err != nil {
			return err
		}
		if e.stats != nil {
			e.stats.QuotaLimitsSet++
			e.stats.QuotaKBSet += op.LimitKB
		}
		return nil
	case plan.AppendAuditRecord:
		return e.audit.Append(op.Fields)
	default:
		return fmt.Errorf("unknown operation type %T", op)
	}
}

package reconcile

import (
	"context"

	"github.com/clusterstor/pquota/pkg/executor"
	"github.com/clusterstor/pquota/pkg/plan"
	"github.com/clusterstor/pquota/pkg/spec"
	"k8s.io/klog/v2"
)

// Runner drives a full reconciliation pass: each spec entry is planned and,
// when an executor is attached, fully applied before the next entry is
// looked at. A nil Executor makes the pass a dry run; state lookups still
// hit the live filesystem but nothing is changed.
type Runner struct {
	Planner  *plan.Planner
	Executor *executor.Executor
}

// Run processes the spec file in order and stops at the first error.
// Operations of entries already applied stay applied. The returned slice
// holds every operation planned so far, which dry runs print.
func (r *Runner) Run(ctx context.Context, specPath string) ([]plan.Op, error) {
	entries, err := spec.ParseFile(specPath)
	if err != nil {
		return nil, err
	}
	klog.V(2).InfoS("Parsed spec", "file", specPath, "entries", len(entries))

	var all []plan.Op
	for _, entry := range entries {
		ops, err := r.Planner.PlanEntry(entry)
		if err != nil {
			return all, err
		}
		if r.Executor != nil {
			if err := r.Executor.Apply(ctx, ops); err != nil {
				return all, err
			}
		}
		all = append(all, ops...)
	}
	return all, nil
}

package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clusterstor/pquota/pkg/identity"
	"github.com/clusterstor/pquota/pkg/quota"
	"github.com/clusterstor/pquota/pkg/spec"
	"k8s.io/klog/v2"
)

var (
	// ErrPathOutsideFilesystem rejects any spec path that does not lie
	// under the target mountpoint. Checked before every lookup or mutation.
	ErrPathOutsideFilesystem = errors.New("path outside target filesystem")

	// ErrNoProjectAssigned means a quota update targeted a directory that
	// was never provisioned.
	ErrNoProjectAssigned = errors.New("no project assigned to directory")
)

// StateReader is the read-only slice of the quota backend the planner
// consults.
type StateReader interface {
	GetProjectID(path string) (uint32, error)
	quota.Reporter
}

// Planner turns parsed spec entries into ordered operation lists. It never
// mutates the filesystem itself; the only state it carries across entries
// is the project ID allocator.
type Planner struct {
	mountPoint string
	state      StateReader
	ids        *Allocator
	idents     identity.Resolver
}

func NewPlanner(mountPoint string, state StateReader, ids *Allocator, idents identity.Resolver) *Planner {
	return &Planner{
		mountPoint: filepath.Clean(mountPoint),
		state:      state,
		ids:        ids,
		idents:     idents,
	}
}

// PlanEntry produces the operations for one spec entry. Any error is fatal
// for the whole run; no operations are returned alongside an error.
func (p *Planner) PlanEntry(entry spec.Entry) ([]Op, error) {
	var (
		ops  []Op
		line int
		err  error
	)
	switch e := entry.(type) {
	case *spec.CreateOrUpdate:
		line = e.Line
		ops, err = p.planCreateOrUpdate(e)
	case *spec.Update:
		line = e.Line
		ops, err = p.planUpdate(e)
	default:
		return nil, fmt.Errorf("unsupported spec entry type %T", entry)
	}
	if err != nil {
		return nil, fmt.Errorf("spec line %d: %w", line, err)
	}
	return ops, nil
}

func (p *Planner) planCreateOrUpdate(e *spec.CreateOrUpdate) ([]Op, error) {
	if err := p.checkPath(e.Path); err != nil {
		return nil, err
	}

	uid, err := p.idents.ResolveUser(e.User)
	if err != nil {
		return nil, err
	}
	gid, err := p.idents.ResolveGroup(e.Group)
	if err != nil {
		return nil, err
	}

	id, err := p.state.GetProjectID(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quota.ErrQueryFailed, err)
	}
	if id != 0 {
		// Existing assignments are never overwritten; re-running a spec
		// against a provisioned directory must not remint IDs.
		klog.Warningf("directory %s already has project ID %d, not allocating a new one", e.Path, id)
	} else {
		id = p.ids.Allocate()
		klog.V(2).InfoS("Allocated project ID", "path", e.Path, "id", id)
	}

	return []Op{
		MakeDirectory{Path: e.Path},
		SetOwnership{Path: e.Path, UID: uid, GID: gid},
		SetPermissions{Path: e.Path, Mode: e.Mode},
		AssignProjectID{Path: e.Path, ProjectID: id},
		SetQuotaLimit{ProjectID: id, Path: e.Path, LimitKB: e.QuotaTB * quota.KBPerTB},
		AppendAuditRecord{Fields: e.Fields()},
	}, nil
}

func (p *Planner) planUpdate(e *spec.Update) ([]Op, error) {
	if err := p.checkPath(e.Path); err != nil {
		return nil, err
	}

	id, err := p.state.GetProjectID(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", quota.ErrQueryFailed, err)
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProjectAssigned, e.Path)
	}

	currentKB, err := quota.CurrentQuotaKB(p.state, p.mountPoint, id)
	if err != nil {
		return nil, err
	}

	newKB, err := quota.Resolve(currentKB, e.QuotaExpr)
	if err != nil {
		return nil, err
	}

	return []Op{
		SetQuotaLimit{ProjectID: id, Path: e.Path, LimitKB: newKB},
		AppendAuditRecord{Fields: e.Fields()},
	}, nil
}

func (p *Planner) checkPath(path string) error {
	clean := filepath.Clean(path)
	if clean != p.mountPoint && !strings.HasPrefix(clean, p.mountPoint+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s is not under %s", ErrPathOutsideFilesystem, path, p.mountPoint)
	}
	return nil
}

package plan

import (
	"fmt"
	"os"
	"strings"
)

// Op is one primitive reconciliation step. Ops are emitted in a fixed order
// per spec entry and must be applied in that order: directory creation
// before ownership, permissions and project assignment, project assignment
// before the quota limit.
type Op interface {
	fmt.Stringer
	op()
}

type MakeDirectory struct {
	Path string
}

type SetOwnership struct {
	Path string
	UID  uint32
	GID  uint32
}

type SetPermissions struct {
	Path string
	Mode os.FileMode
}

type AssignProjectID struct {
	Path      string
	ProjectID uint32
}

type SetQuotaLimit struct {
	ProjectID uint32
	Path      string
	LimitKB   uint64
}

// AppendAuditRecord carries the original spec fields; the executor prefixes
// the timestamp and run ID when it writes the record.
type AppendAuditRecord struct {
	Fields []string
}

func (MakeDirectory) op()     {}
func (SetOwnership) op()      {}
func (SetPermissions) op()    {}
func (AssignProjectID) op()   {}
func (SetQuotaLimit) op()     {}
func (AppendAuditRecord) op() {}

func (o MakeDirectory) String() string {
	return fmt.Sprintf("mkdir %s", o.Path)
}

func (o SetOwnership) String() string {
	return fmt.Sprintf("chown %d:%d %s", o.UID, o.GID, o.Path)
}

func (o SetPermissions) String() string {
	return fmt.Sprintf("chmod %04o %s", posixMode(o.Mode), o.Path)
}

// posixMode folds FileMode's setuid/setgid/sticky bits back into the raw
// 0o7000 positions so the rendered mode reads like the spec field.
func posixMode(m os.FileMode) uint32 {
	bits := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if m&os.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if m&os.ModeSticky != 0 {
		bits |= 0o1000
	}
	return bits
}

func (o AssignProjectID) String() string {
	return fmt.Sprintf("assign project %d to %s", o.ProjectID, o.Path)
}

func (o SetQuotaLimit) String() string {
	return fmt.Sprintf("set quota of project %d (%s) to %d KB", o.ProjectID, o.Path, o.LimitKB)
}

func (o AppendAuditRecord) String() string {
	return fmt.Sprintf("audit: %s", strings.Join(o.Fields, " "))
}

package spec

import "os"

// Entry is one parsed record of a quota spec file. Exactly two shapes
// exist: CreateOrUpdate (5 fields) and Update (2 fields).
type Entry interface {
	// Fields returns the original whitespace-separated spec fields, used
	// verbatim in audit records.
	Fields() []string
	entry()
}

// CreateOrUpdate provisions a project directory: path, absolute quota in
// terabytes, owning group and user, and octal permissions.
type CreateOrUpdate struct {
	Path    string
	QuotaTB uint64
	Group   string
	User    string
	Mode    os.FileMode

	Line   int
	fields []string
}

func (e *CreateOrUpdate) Fields() []string { return e.fields }
func (*CreateOrUpdate) entry()             {}

// Update adjusts the quota of an already provisioned directory. QuotaExpr
// is either a bare terabyte count (absolute) or a +N/-N delta.
type Update struct {
	Path      string
	QuotaExpr string

	Line   int
	fields []string
}

func (e *Update) Fields() []string { return e.fields }
func (*Update) entry()             {}

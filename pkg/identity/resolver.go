package identity

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
)

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownGroup = errors.New("unknown group")
)

// Resolver maps account names to numeric IDs.
type Resolver interface {
	ResolveUser(name string) (uint32, error)
	ResolveGroup(name string) (uint32, error)
}

// OSResolver resolves names against the host's passwd and group databases,
// which on a cluster includes whatever NSS sources (LDAP, sssd) the node is
// configured with.
type OSResolver struct{}

func NewOSResolver() *OSResolver { return &OSResolver{} }

func (*OSResolver) ResolveUser(name string) (uint32, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUser, name)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("non-numeric uid %q for user %s: %v", u.Uid, name, err)
	}
	return uint32(uid), nil
}

func (*OSResolver) ResolveGroup(name string) (uint32, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("non-numeric gid %q for group %s: %v", g.Gid, name, err)
	}
	return uint32(gid), nil
}

// internal/console/access.go
package console

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-od/internal/od"
)

// Access is the privilege level of a console session.
type Access int

const (
	User    Access = iota // default; factory and hidden objects are off limits
	Factory               // everything visible, everything but info/status writable
)

func (a Access) String() string {
	if a == Factory {
		return "factory"
	}
	return "user"
}

// ParseAccess maps "user" or "factory" (any case) to an Access.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return User, nil
	case "factory":
		return Factory, nil
	}
	return User, fmt.Errorf("console: unknown access level %q", s)
}

// Visible reports whether objects with perm can be listed and found.
func (a Access) Visible(perm od.Permissions) bool {
	if a == Factory {
		return true
	}
	return perm != od.FactoryHidden && perm != od.Hidden
}

// Writable reports whether elements with perm can be set.
func (a Access) Writable(perm od.Permissions) bool {
	switch perm {
	case od.InfoOnly, od.Status:
		return false
	case od.FactoryHidden, od.FactoryConfig:
		return a == Factory
	}
	return a.Visible(perm)
}

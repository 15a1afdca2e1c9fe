package models

import (
	"fmt"

	"github.com/toyz/txsync/pkg/txsync"
)

// Role identifies one of the three transaction-lifecycle callback slots
type Role int

const (
	AfterBegin Role = iota
	AfterCompletion
	BeforeCompletion
)

// Roles lists every callback role in slot order
var Roles = []Role{AfterBegin, AfterCompletion, BeforeCompletion}

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case AfterBegin:
		return "after-begin"
	case AfterCompletion:
		return "after-completion"
	case BeforeCompletion:
		return "before-completion"
	default:
		return "unknown"
	}
}

// IsValid reports whether r is one of the three callback roles
func (r Role) IsValid() bool {
	return r >= AfterBegin && r <= BeforeCompletion
}

// Marker returns the marker name that tags a method with this role
func (r Role) Marker() string {
	switch r {
	case AfterBegin:
		return txsync.MarkerAfterBegin
	case AfterCompletion:
		return txsync.MarkerAfterCompletion
	case BeforeCompletion:
		return txsync.MarkerBeforeCompletion
	default:
		return ""
	}
}

// FixedMethod returns the SessionSynchronization method name for the role
func (r Role) FixedMethod() string {
	switch r {
	case AfterBegin:
		return txsync.AfterBeginMethod
	case AfterCompletion:
		return txsync.AfterCompletionMethod
	case BeforeCompletion:
		return txsync.BeforeCompletionMethod
	default:
		return ""
	}
}

// ParseRole converts a marker name into a Role
func ParseRole(marker string) (Role, error) {
	for _, role := range Roles {
		if role.Marker() == marker {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown callback role: %s", marker)
}

// MarshalText implements encoding.TextMarshaler so roles read well in reports
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText
func (r *Role) UnmarshalText(text []byte) error {
	for _, role := range Roles {
		if role.String() == string(text) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown callback role: %s", text)
}

package models

// Session types a descriptor component may declare
const (
	SessionTypeStateful  = "stateful"
	SessionTypeStateless = "stateless"
	SessionTypeSingleton = "singleton"
)

// SessionDescriptor is the parsed descriptor metadata for one component
type SessionDescriptor interface {
	// ComponentName is the unique name of the component in the descriptor
	ComponentName() string
	// TypeName is the struct the component is implemented by
	TypeName() string
	// SessionType is one of the SessionType constants
	SessionType() string
}

// CallbackDescriptor is implemented by descriptor entries that can name
// callback methods. Older descriptor formats only implement
// SessionDescriptor and never contribute callbacks.
type CallbackDescriptor interface {
	SessionDescriptor
	// CallbackMethod returns the method named for role, if any
	CallbackMethod(role Role) (string, bool)
}

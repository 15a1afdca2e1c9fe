package models

import "fmt"

// MethodBinding is the resolved callback method for one role.
// An empty DeclaringType means the method is looked up on the component's
// own implementation at runtime.
type MethodBinding struct {
	DeclaringType string `yaml:"declaring_type,omitempty"`
	Method        string `yaml:"method"`
}

// IsRuntimeResolved reports whether the binding carries no declaring type
func (b MethodBinding) IsRuntimeResolved() bool {
	return b.DeclaringType == ""
}

// String returns Type.Method, or just Method for runtime-resolved bindings
func (b MethodBinding) String() string {
	if b.IsRuntimeResolved() {
		return b.Method
	}
	return fmt.Sprintf("%s.%s", b.DeclaringType, b.Method)
}

// LifecycleBinding holds at most one MethodBinding per role. A slot can be
// bound or rebound but never cleared.
type LifecycleBinding struct {
	slots [3]*MethodBinding
}

// NewLifecycleBinding creates a binding with every slot empty
func NewLifecycleBinding() *LifecycleBinding {
	return &LifecycleBinding{}
}

// Set binds role to declaringType.method, replacing any previous binding
func (l *LifecycleBinding) Set(role Role, declaringType, method string) {
	if !role.IsValid() {
		panic(fmt.Sprintf("models: invalid callback role %d", int(role)))
	}
	l.slots[role] = &MethodBinding{
		DeclaringType: declaringType,
		Method:        method,
	}
}

// Get returns the binding for role and whether the slot is bound
func (l *LifecycleBinding) Get(role Role) (MethodBinding, bool) {
	if !role.IsValid() || l.slots[role] == nil {
		return MethodBinding{}, false
	}
	return *l.slots[role], true
}

// IsEmpty reports whether no slot is bound
func (l *LifecycleBinding) IsEmpty() bool {
	for _, slot := range l.slots {
		if slot != nil {
			return false
		}
	}
	return true
}

// Bound returns the bound slots keyed by role
func (l *LifecycleBinding) Bound() map[Role]MethodBinding {
	bound := make(map[Role]MethodBinding, len(l.slots))
	for _, role := range Roles {
		if binding, ok := l.Get(role); ok {
			bound[role] = binding
		}
	}
	return bound
}

package errors

import (
	"fmt"
	"strings"
)

// CallbackError reports a component that declares more than one marked
// method for the same callback role anywhere in its type hierarchy.
type CallbackError struct {
	*BaseError
	TypeName   string   // fully-qualified type name of the component
	Role       string   // offending callback role
	Candidates []string // Type.Method of every marked method found
}

// NewMultipleCallbackCandidatesError creates the error raised when a role has
// more than one marked method on a component.
func NewMultipleCallbackCandidatesError(typeName, role string, candidates []string) *CallbackError {
	message := fmt.Sprintf("only one %s method is allowed on component %s, found %d: %s",
		role, typeName, len(candidates), strings.Join(candidates, ", "))

	base := New(MultipleCallbackCandidatesCode, message).
		WithContext("type", typeName).
		WithContext("role", role).
		WithSuggestion(fmt.Sprintf("Keep the %s marker on a single method of %s or its embedded types", role, typeName))

	return &CallbackError{
		BaseError:  base,
		TypeName:   typeName,
		Role:       role,
		Candidates: candidates,
	}
}

// WithLocation adds location information to the error
func (e *CallbackError) WithLocation(loc SourceLocation) *CallbackError {
	e.BaseError.WithLocation(loc)
	return e
}

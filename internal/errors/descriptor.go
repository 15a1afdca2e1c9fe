package errors

import "fmt"

// DescriptorError represents a problem with a deployment descriptor document
type DescriptorError struct {
	*BaseError
	Component string // descriptor component the problem belongs to, if any
	Field     string // descriptor field that failed validation, if any
}

// NewDescriptorError creates a descriptor error for the document at path
func NewDescriptorError(path, message string) *DescriptorError {
	return &DescriptorError{
		BaseError: New(DescriptorErrorCode, message).WithLocation(SourceLocation{File: path}),
	}
}

// NewDescriptorFieldError creates a descriptor error for one component field
func NewDescriptorFieldError(path, component, field, message string) *DescriptorError {
	err := NewDescriptorError(path, fmt.Sprintf("component %q: %s: %s", component, field, message))
	err.Component = component
	err.Field = field
	err.WithContext("component", component).WithContext("field", field)
	return err
}

// WithCause adds an underlying error cause
func (e *DescriptorError) WithCause(cause error) *DescriptorError {
	e.Cause = cause
	return e
}

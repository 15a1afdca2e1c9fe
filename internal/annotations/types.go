package annotations

import (
	"fmt"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
	"github.com/toyz/txsync/pkg/txsync"
)

// AnnotationType represents the type of a txsync marker
type AnnotationType int

const (
	StatefulAnnotation AnnotationType = iota
	AfterBeginAnnotation
	AfterCompletionAnnotation
	BeforeCompletionAnnotation
)

// String returns the marker name of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case StatefulAnnotation:
		return txsync.MarkerStateful
	case AfterBeginAnnotation:
		return txsync.MarkerAfterBegin
	case AfterCompletionAnnotation:
		return txsync.MarkerAfterCompletion
	case BeforeCompletionAnnotation:
		return txsync.MarkerBeforeCompletion
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts a marker name to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case txsync.MarkerStateful:
		return StatefulAnnotation, nil
	case txsync.MarkerAfterBegin:
		return AfterBeginAnnotation, nil
	case txsync.MarkerAfterCompletion:
		return AfterCompletionAnnotation, nil
	case txsync.MarkerBeforeCompletion:
		return BeforeCompletionAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// AnnotationTypeForRole returns the method marker for a callback role
func AnnotationTypeForRole(role models.Role) AnnotationType {
	switch role {
	case models.AfterCompletion:
		return AfterCompletionAnnotation
	case models.BeforeCompletion:
		return BeforeCompletionAnnotation
	default:
		return AfterBeginAnnotation
	}
}

// Role returns the callback role of a method marker
func (a AnnotationType) Role() (models.Role, bool) {
	role, err := models.ParseRole(a.String())
	if err != nil {
		return 0, false
	}
	return role, true
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation = errors.SourceLocation

// ParsedAnnotation represents a fully parsed marker comment
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Target     string                 // Target struct or Struct.Method
	Parameters map[string]interface{} // Typed parameters
	Location   SourceLocation         // Source location
	Raw        string                 // Original comment text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type        ParameterType           // Parameter type
	Required    bool                    // Whether parameter is required
	Description string                  // Parameter description
	Validator   func(interface{}) error // Custom validator function
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	OnMethod    bool                     // Marker belongs on a method rather than a struct
	Parameters  map[string]ParameterSpec // Parameter specifications
	Examples    []string                 // Usage examples
}

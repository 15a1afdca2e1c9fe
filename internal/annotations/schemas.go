package annotations

import (
	"fmt"
	"go/token"
)

// StatefulAnnotationSchema defines the schema for //txsync::stateful
var StatefulAnnotationSchema = AnnotationSchema{
	Type:        StatefulAnnotation,
	Description: "Marks a struct as a stateful component whose transaction callbacks are resolved",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Component name used to match descriptor entries (defaults to the struct name)",
			Validator:   ValidateIdentifier,
		},
	},
	Examples: []string{
		"//txsync::stateful",
		"//txsync::stateful -Name=ShoppingCart",
	},
}

// AfterBeginAnnotationSchema defines the schema for //txsync::after_begin
var AfterBeginAnnotationSchema = AnnotationSchema{
	Type:        AfterBeginAnnotation,
	Description: "Marks the method called after a transaction begins",
	OnMethod:    true,
	Examples:    []string{"//txsync::after_begin"},
}

// AfterCompletionAnnotationSchema defines the schema for //txsync::after_completion
var AfterCompletionAnnotationSchema = AnnotationSchema{
	Type:        AfterCompletionAnnotation,
	Description: "Marks the method called after a transaction commits or rolls back",
	OnMethod:    true,
	Examples:    []string{"//txsync::after_completion"},
}

// BeforeCompletionAnnotationSchema defines the schema for //txsync::before_completion
var BeforeCompletionAnnotationSchema = AnnotationSchema{
	Type:        BeforeCompletionAnnotation,
	Description: "Marks the method called right before a transaction commits",
	OnMethod:    true,
	Examples:    []string{"//txsync::before_completion"},
}

// ValidateIdentifier checks that a parameter value is a Go identifier
func ValidateIdentifier(v interface{}) error {
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string, got %T", v)
	}
	if !token.IsIdentifier(name) {
		return fmt.Errorf("must be a Go identifier, got '%s'", name)
	}
	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		StatefulAnnotationSchema,
		AfterBeginAnnotationSchema,
		AfterCompletionAnnotationSchema,
		BeforeCompletionAnnotationSchema,
	}
}

// RegisterBuiltinSchemas registers all built-in annotation schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}
	return nil
}

package annotations

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
)

func TestParticipleParserBasic(t *testing.T) {
	parser := NewParticipleParser(nil)
	location := SourceLocation{File: "cart.go", Line: 7, Column: 1}

	tests := []struct {
		name     string
		input    string
		expected *ParsedAnnotation
	}{
		{
			name:  "stateful",
			input: "//txsync::stateful",
			expected: &ParsedAnnotation{
				Type:       StatefulAnnotation,
				Parameters: map[string]interface{}{},
			},
		},
		{
			name:  "stateful with name",
			input: "//txsync::stateful -Name=ShoppingCart",
			expected: &ParsedAnnotation{
				Type:       StatefulAnnotation,
				Parameters: map[string]interface{}{"Name": "ShoppingCart"},
			},
		},
		{
			name:  "stateful with quoted name",
			input: `//txsync::stateful -Name="ShoppingCart"`,
			expected: &ParsedAnnotation{
				Type:       StatefulAnnotation,
				Parameters: map[string]interface{}{"Name": "ShoppingCart"},
			},
		},
		{
			name:  "after begin",
			input: "//txsync::after_begin",
			expected: &ParsedAnnotation{
				Type:       AfterBeginAnnotation,
				Parameters: map[string]interface{}{},
			},
		},
		{
			name:  "space after slashes",
			input: "// txsync::after_completion",
			expected: &ParsedAnnotation{
				Type:       AfterCompletionAnnotation,
				Parameters: map[string]interface{}{},
			},
		},
		{
			name:  "leading whitespace",
			input: "   //txsync::before_completion  ",
			expected: &ParsedAnnotation{
				Type:       BeforeCompletionAnnotation,
				Parameters: map[string]interface{}{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)

			assert.Equal(t, tt.expected.Type, result.Type)
			assert.Equal(t, tt.expected.Parameters, result.Parameters)
			assert.Equal(t, tt.input, result.Raw)
			assert.Equal(t, location, result.Location)
		})
	}
}

func TestParticipleParserErrors(t *testing.T) {
	parser := NewParticipleParser(nil)
	location := SourceLocation{File: "cart.go", Line: 3}

	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{"unknown marker", "//txsync::after_commit", errors.SyntaxErrorCode},
		{"missing type", "//txsync::", errors.SyntaxErrorCode},
		{"trailing words", "//txsync::after_begin please", errors.SyntaxErrorCode},
		{"wrong namespace", "//ejb::after_begin", errors.SyntaxErrorCode},
		{"unknown parameter", "//txsync::after_begin -Async", errors.ValidationErrorCode},
		{"flag without value", "//txsync::stateful -Name", errors.ValidationErrorCode},
		{"invalid name", `//txsync::stateful -Name="not valid"`, errors.ValidationErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			require.Error(t, err)

			var txErr errors.TxsyncError
			require.True(t, stderrors.As(err, &txErr), "expected a TxsyncError, got %T", err)
			assert.Equal(t, tt.code, txErr.ErrorCode())
			assert.Equal(t, location, txErr.Location())
		})
	}
}

func TestIsMarker(t *testing.T) {
	assert.True(t, IsMarker("//txsync::after_begin"))
	assert.True(t, IsMarker("// txsync::stateful -Name=Cart"))
	assert.False(t, IsMarker("// AfterBegin starts the cart"))
	assert.False(t, IsMarker("//tx::core"))
	assert.False(t, IsMarker("/* txsync::after_begin */"))
}

func TestAnnotationTypeRoles(t *testing.T) {
	for _, role := range models.Roles {
		annotationType := AnnotationTypeForRole(role)

		got, ok := annotationType.Role()
		require.True(t, ok)
		assert.Equal(t, role, got)
		assert.Equal(t, role.Marker(), annotationType.String())
	}

	_, ok := StatefulAnnotation.Role()
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	t.Run("default registry has builtin schemas", func(t *testing.T) {
		registry := DefaultRegistry()
		assert.Same(t, registry, DefaultRegistry())
		assert.Equal(t, []AnnotationType{
			StatefulAnnotation,
			AfterBeginAnnotation,
			AfterCompletionAnnotation,
			BeforeCompletionAnnotation,
		}, registry.ListTypes())
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(AfterBeginAnnotation, AfterBeginAnnotationSchema))

		err := registry.Register(AfterBeginAnnotation, AfterBeginAnnotationSchema)
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("mismatched schema type fails", func(t *testing.T) {
		registry := NewRegistry()
		err := registry.Register(StatefulAnnotation, AfterBeginAnnotationSchema)
		assert.ErrorContains(t, err, "does not match")
	})

	t.Run("unregistered type is rejected by the parser", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(StatefulAnnotation, StatefulAnnotationSchema))

		_, err := NewParticipleParser(registry).ParseAnnotation("//txsync::after_begin", SourceLocation{})
		assert.ErrorContains(t, err, "not registered")
	})
}

package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/pkg/txsync"
)

// Marker is the grammar of a txsync marker comment:
//
//	//txsync::<type> [-Param[=Value] ...]
type Marker struct {
	Namespace string   `parser:"'//' @Ident '::'"`
	Type      string   `parser:"@Ident"`
	Params    []*Param `parser:"@@*"`
}

// Param is a -Name or -Name=Value option on a marker
type Param struct {
	Name  string  `parser:"'-' @Ident"`
	Value *string `parser:"( '=' ( @String | @Ident ) )?"`
}

var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParticipleParser parses txsync marker comments
type ParticipleParser struct {
	parser   *participle.Parser[Marker]
	registry AnnotationRegistry
}

// NewParticipleParser creates a parser validating against registry.
// A nil registry falls back to DefaultRegistry.
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &ParticipleParser{
		parser: participle.MustBuild[Marker](
			participle.Lexer(markerLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
		registry: registry,
	}
}

// IsMarker reports whether a comment is written in the txsync namespace.
// Comments that are not markers are skipped without error.
func IsMarker(comment string) bool {
	text := strings.TrimSpace(comment)
	if !strings.HasPrefix(text, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(text[2:]), txsync.MarkerPrefix)
}

// ParseAnnotation parses and validates a single marker comment
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	marker, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, errors.NewMarkerSyntaxError(location, comment, err)
	}

	if marker.Namespace+"::" != txsync.MarkerPrefix {
		return nil, errors.NewMarkerSyntaxError(location, comment,
			fmt.Errorf("unexpected namespace '%s'", marker.Namespace))
	}

	annotationType, err := ParseAnnotationType(marker.Type)
	if err != nil {
		return nil, errors.NewMarkerSyntaxError(location, comment, err)
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}

	for _, param := range marker.Params {
		if param.Value == nil {
			parsed.Parameters[param.Name] = true
			continue
		}
		parsed.Parameters[param.Name] = *param.Value
	}

	if err := p.validateAgainstSchema(parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}

// validateAgainstSchema checks parameter names, types and values
func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return errors.NewMarkerSyntaxError(annotation.Location, annotation.Raw, err)
	}

	for paramName, paramValue := range annotation.Parameters {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			return validationError(annotation, fmt.Sprintf("unknown parameter '%s' for %s", paramName, annotation.Type))
		}

		switch paramSpec.Type {
		case BoolType:
			if _, ok := paramValue.(bool); !ok {
				return validationError(annotation, fmt.Sprintf("parameter '%s' is a flag and takes no value", paramName))
			}
		case StringType:
			if _, ok := paramValue.(string); !ok {
				return validationError(annotation, fmt.Sprintf("parameter '%s' requires a value: -%s=<value>", paramName, paramName))
			}
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				return validationError(annotation, fmt.Sprintf("parameter '%s' %v", paramName, err))
			}
		}
	}

	for paramName, paramSpec := range schema.Parameters {
		if paramSpec.Required && !annotation.HasParameter(paramName) {
			return validationError(annotation, fmt.Sprintf("missing required parameter '%s' for %s", paramName, annotation.Type))
		}
	}

	return nil
}

func validationError(annotation *ParsedAnnotation, message string) error {
	return errors.New(errors.ValidationErrorCode, message).
		WithLocation(annotation.Location).
		WithContext("marker", annotation.Raw)
}

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/pkg/txsync"
)

// WriteMarkers prints every marker the registry knows, with where it goes
// and the parameters it takes
func WriteMarkers(w io.Writer, registry annotations.AnnotationRegistry) error {
	t := newTable("MARKER", "TARGET", "PARAMETERS", "DESCRIPTION")

	for _, annotationType := range registry.ListTypes() {
		schema, err := registry.GetSchema(annotationType)
		if err != nil {
			return err
		}

		target := "struct"
		if schema.OnMethod {
			target = "method"
		}

		t.Row("//"+txsync.MarkerPrefix+annotationType.String(), target, parameterList(schema), schema.Description)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func parameterList(schema annotations.AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return "-"
	}

	names := make([]string, 0, len(schema.Parameters))
	for name, spec := range schema.Parameters {
		if spec.Type == annotations.StringType {
			name += "=<value>"
		}
		names = append(names, "-"+name)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

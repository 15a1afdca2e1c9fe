package cli

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/toyz/txsync/internal/deployment"
	"github.com/toyz/txsync/internal/errors"
)

// runtimeResolved is shown for bindings looked up on the component at runtime
const runtimeResolved = "<runtime>"

// WriteReport prints a resolution report in the given format
func WriteReport(w io.Writer, report *deployment.Report, format string) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, report)
	case FormatText, "":
		return writeText(w, report)
	default:
		return errors.Newf(errors.ConfigurationErrorCode, "unsupported output format %q", format)
	}
}

func writeYAML(w io.Writer, report *deployment.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return errors.Wrap(errors.UnknownErrorCode, "failed to encode report", err)
	}
	return encoder.Close()
}

// writeText prints one table row per bound callback. Components without
// callbacks get a single row with empty callback columns.
func writeText(w io.Writer, report *deployment.Report) error {
	t := newTable("COMPONENT", "TYPE", "SOURCE", "ROLE", "DECLARING TYPE", "METHOD")

	for _, component := range report.Components {
		if len(component.Callbacks) == 0 {
			t.Row(component.Name, component.Type, component.Source, "-", "-", "-")
			continue
		}
		for _, cb := range component.Callbacks {
			declaringType := cb.DeclaringType
			if declaringType == "" {
				declaringType = runtimeResolved
			}
			t.Row(component.Name, component.Type, component.Source, cb.Role.String(), declaringType, cb.Method)
		}
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

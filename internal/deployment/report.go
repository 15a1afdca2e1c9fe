package deployment

import (
	"time"

	"github.com/toyz/txsync/internal/models"
)

// Component sources
const (
	SourceMarker           = "marker"
	SourceDescriptor       = "descriptor"
	SourceMarkerDescriptor = "marker+descriptor"
)

// Report is the result of resolving one deployment unit
type Report struct {
	RunID            string            `yaml:"run-id"`
	Module           string            `yaml:"module,omitempty"`
	Descriptor       string            `yaml:"descriptor,omitempty"`
	MetadataComplete bool              `yaml:"metadata-complete,omitempty"`
	Packages         int               `yaml:"packages"`
	Components       []ComponentReport `yaml:"components"`
	Duration         time.Duration     `yaml:"-"`
}

// ComponentReport is the resolved binding of one component
type ComponentReport struct {
	Name      string           `yaml:"name"`
	Type      string           `yaml:"type"`
	Source    string           `yaml:"source"`
	Location  string           `yaml:"location,omitempty"`
	Callbacks []CallbackReport `yaml:"callbacks,omitempty"`
}

// CallbackReport is one bound role. DeclaringType is empty for methods
// resolved on the component at runtime.
type CallbackReport struct {
	Role          models.Role `yaml:"role"`
	DeclaringType string      `yaml:"declaring-type,omitempty"`
	Method        string      `yaml:"method"`
}

// Component finds a component report by name
func (r *Report) Component(name string) (ComponentReport, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentReport{}, false
}

// Callback returns the binding reported for role
func (c ComponentReport) Callback(role models.Role) (CallbackReport, bool) {
	for _, cb := range c.Callbacks {
		if cb.Role == role {
			return cb, true
		}
	}
	return CallbackReport{}, false
}

func newComponentReport(component *models.ComponentDefinition) ComponentReport {
	report := ComponentReport{
		Name:   component.Name,
		Type:   component.TypeName(),
		Source: sourceOf(component),
	}
	if !component.Location.IsEmpty() {
		report.Location = component.Location.String()
	}

	for _, role := range models.Roles {
		binding, ok := component.Binding.Get(role)
		if !ok {
			continue
		}
		report.Callbacks = append(report.Callbacks, CallbackReport{
			Role:          role,
			DeclaringType: binding.DeclaringType,
			Method:        binding.Method,
		})
	}

	return report
}

func sourceOf(component *models.ComponentDefinition) string {
	switch {
	case component.Marked && component.Descriptor != nil:
		return SourceMarkerDescriptor
	case component.Marked:
		return SourceMarker
	default:
		return SourceDescriptor
	}
}

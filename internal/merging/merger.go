// Package merging resolves a component's session synchronization callbacks
// from its method markers and its deployment descriptor.
//
// Precedence, highest first: implementing txsync.SessionSynchronization,
// a descriptor entry, a method marker. Two markers for the same role are
// always an error, whatever the other sources say.
package merging

import (
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
)

// Merger writes callback bindings into a component's LifecycleBinding
type Merger struct {
	collector    CandidateCollector
	capabilities CapabilityChecker
}

// NewMerger creates a merger backed by the given collaborators
func NewMerger(collector CandidateCollector, capabilities CapabilityChecker) *Merger {
	return &Merger{
		collector:    collector,
		capabilities: capabilities,
	}
}

// Merge runs the marker pass then the descriptor pass. When metadataComplete
// is set the descriptor is the only metadata source and markers are ignored.
func (m *Merger) Merge(component *models.ComponentDefinition, metadataComplete bool) error {
	if !metadataComplete {
		if err := m.MergeAnnotations(component); err != nil {
			return err
		}
	}
	return m.MergeDescriptor(component)
}

// MergeAnnotations binds every role that has exactly one marked method.
// Components implementing SessionSynchronization are left alone, the
// descriptor pass binds them.
func (m *Merger) MergeAnnotations(component *models.ComponentDefinition) error {
	implements, err := m.capabilities.ImplementsSessionSynchronization(component)
	if err != nil {
		return err
	}
	if implements {
		return nil
	}

	for _, role := range models.Roles {
		candidates, err := m.collector.Candidates(component, role)
		if err != nil {
			return err
		}

		if len(candidates) > 1 {
			return multipleCandidatesError(component, role, candidates)
		}

		if ref, ok := candidates.Single(); ok {
			component.Binding.Set(role, ref.DeclaringType, ref.Name)
		}
	}

	return nil
}

// MergeDescriptor applies the descriptor's callback methods over whatever
// the marker pass bound. A SessionSynchronization implementation overrides
// everything with the interface's fixed method names.
func (m *Merger) MergeDescriptor(component *models.ComponentDefinition) error {
	implements, err := m.capabilities.ImplementsSessionSynchronization(component)
	if err != nil {
		return err
	}
	if implements {
		for _, role := range models.Roles {
			component.Binding.Set(role, "", role.FixedMethod())
		}
		return nil
	}

	// legacy descriptor entries carry no callbacks
	descriptor, ok := component.Descriptor.(models.CallbackDescriptor)
	if !ok {
		return nil
	}

	for _, role := range models.Roles {
		if method, ok := descriptor.CallbackMethod(role); ok {
			component.Binding.Set(role, "", method)
		}
	}

	return nil
}

func multipleCandidatesError(component *models.ComponentDefinition, role models.Role, candidates models.CandidateSet) *errors.CallbackError {
	sorted := candidates.Sorted()
	names := make([]string, len(sorted))
	for i, ref := range sorted {
		names[i] = ref.String()
	}

	return errors.NewMultipleCallbackCandidatesError(component.TypeName(), role.String(), names).
		WithLocation(candidates[sorted[0]].Location)
}

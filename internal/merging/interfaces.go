package merging

import "github.com/toyz/txsync/internal/models"

// CandidateCollector returns the methods on a component's type hierarchy
// that carry the marker for role. The hierarchy is already flattened: the
// merger never walks embedded types itself.
type CandidateCollector interface {
	Candidates(component *models.ComponentDefinition, role models.Role) (models.CandidateSet, error)
}

// CapabilityChecker reports whether a component's implementation
// structurally satisfies txsync.SessionSynchronization.
type CapabilityChecker interface {
	ImplementsSessionSynchronization(component *models.ComponentDefinition) (bool, error)
}

// Package txsync holds the runtime-facing contract shared by components and
// the txsync resolver: the session synchronization capability interface, its
// fixed method names, and the marker syntax recognized on methods.
package txsync

import "context"

// SessionSynchronization is implemented by components that want to be told
// about transaction boundaries without any marker or descriptor metadata.
// A component whose pointer type implements this interface always gets the
// three methods below bound, whatever its markers or descriptor say.
type SessionSynchronization interface {
	// AfterBegin is called once a new transaction has started.
	AfterBegin(ctx context.Context) error
	// BeforeCompletion is called right before the transaction commits.
	BeforeCompletion(ctx context.Context) error
	// AfterCompletion is called after commit or rollback.
	AfterCompletion(ctx context.Context, committed bool)
}

// Fixed callback method names of SessionSynchronization
const (
	AfterBeginMethod       = "AfterBegin"
	AfterCompletionMethod  = "AfterCompletion"
	BeforeCompletionMethod = "BeforeCompletion"
)

// MarkerPrefix is the namespace every txsync marker comment starts with
const MarkerPrefix = "txsync::"

// Marker names as written after MarkerPrefix
const (
	MarkerStateful         = "stateful"
	MarkerAfterBegin       = "after_begin"
	MarkerAfterCompletion  = "after_completion"
	MarkerBeforeCompletion = "before_completion"
)

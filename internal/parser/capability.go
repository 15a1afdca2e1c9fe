package parser

import (
	"go/types"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
	"github.com/toyz/txsync/pkg/txsync"
)

// methodShape is the parameter and result types a method must have,
// written as go/types type strings
type methodShape struct {
	name    string
	params  []string
	results []string
}

// sessionSynchronization mirrors txsync.SessionSynchronization
var sessionSynchronization = []methodShape{
	{name: txsync.AfterBeginMethod, params: []string{"context.Context"}, results: []string{"error"}},
	{name: txsync.BeforeCompletionMethod, params: []string{"context.Context"}, results: []string{"error"}},
	{name: txsync.AfterCompletionMethod, params: []string{"context.Context", "bool"}},
}

// CapabilityChecker answers from static type information whether a
// component implements txsync.SessionSynchronization. Promoted methods of
// embedded types count, as they do for the Go compiler.
type CapabilityChecker struct {
	indexes Indexes
}

// NewCapabilityChecker creates a checker over the packages of a deployment unit
func NewCapabilityChecker(indexes Indexes) *CapabilityChecker {
	return &CapabilityChecker{indexes: indexes}
}

// ImplementsSessionSynchronization reports whether *T has all three
// SessionSynchronization methods with matching signatures
func (c *CapabilityChecker) ImplementsSessionSynchronization(component *models.ComponentDefinition) (bool, error) {
	pkg, ok := c.indexes[component.PackagePath]
	if !ok {
		return false, errors.NewMissingComponentTypeError(component.Name, component.TypeName())
	}

	obj, ok := pkg.Types.Scope().Lookup(component.StructName).(*types.TypeName)
	if !ok {
		return false, errors.NewMissingComponentTypeError(component.Name, component.TypeName())
	}

	methods := types.NewMethodSet(types.NewPointer(obj.Type()))
	for _, shape := range sessionSynchronization {
		sel := methods.Lookup(obj.Pkg(), shape.name)
		if sel == nil {
			return false, nil
		}
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !shape.matches(fn.Type().(*types.Signature)) {
			return false, nil
		}
	}

	return true, nil
}

func (m methodShape) matches(sig *types.Signature) bool {
	if sig.Variadic() {
		return false
	}
	return tupleMatches(sig.Params(), m.params) && tupleMatches(sig.Results(), m.results)
}

func tupleMatches(tuple *types.Tuple, want []string) bool {
	if tuple.Len() != len(want) {
		return false
	}
	for i := 0; i < tuple.Len(); i++ {
		if types.TypeString(tuple.At(i).Type(), nil) != want[i] {
			return false
		}
	}
	return true
}

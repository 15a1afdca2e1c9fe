package models

import "sort"

// MethodRef identifies a method by its declaring type and name
type MethodRef struct {
	DeclaringType string // fully-qualified type name
	Name          string // method name
}

// String returns DeclaringType.Name
func (m MethodRef) String() string {
	return m.DeclaringType + "." + m.Name
}

// CandidateInfo is what the collector knows about a marked method
type CandidateInfo struct {
	Depth    int            // embedding depth, 0 for the component struct itself
	Location SourceLocation // position of the marker comment
}

// CandidateSet holds the marked methods found for one role on a component
// hierarchy
type CandidateSet map[MethodRef]CandidateInfo

// Single returns the only candidate, if the set has exactly one
func (c CandidateSet) Single() (MethodRef, bool) {
	if len(c) != 1 {
		return MethodRef{}, false
	}
	for ref := range c {
		return ref, true
	}
	return MethodRef{}, false
}

// Sorted returns the candidates ordered by declaring type and name
func (c CandidateSet) Sorted() []MethodRef {
	refs := make([]MethodRef, 0, len(c))
	for ref := range c {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].DeclaringType != refs[j].DeclaringType {
			return refs[i].DeclaringType < refs[j].DeclaringType
		}
		return refs[i].Name < refs[j].Name
	})
	return refs
}

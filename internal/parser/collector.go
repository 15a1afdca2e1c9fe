package parser

import (
	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
)

// Collector finds marked callback methods on a component's struct and the
// structs it embeds. It follows Go's promotion rules: a method declared at a
// shallower embedding depth shadows deeper methods with the same name, and a
// name declared by two types at the same depth is ambiguous and promotes
// neither.
type Collector struct {
	indexes Indexes
}

// NewCollector creates a collector over the packages of a deployment unit
func NewCollector(indexes Indexes) *Collector {
	return &Collector{indexes: indexes}
}

// Candidates returns the marked methods for role reachable from component
func (c *Collector) Candidates(component *models.ComponentDefinition, role models.Role) (models.CandidateSet, error) {
	root := TypeRef{PkgPath: component.PackagePath, Name: component.StructName}
	rootDecl, ok := c.indexes.Lookup(root)
	if !ok {
		return nil, errors.NewMissingComponentTypeError(component.Name, root.String())
	}

	marker := annotations.AnnotationTypeForRole(role)
	candidates := make(models.CandidateSet)
	shadowed := make(map[string]bool)
	visited := map[TypeRef]bool{root: true}

	level := []*StructDecl{rootDecl}
	for depth := 0; len(level) > 0; depth++ {
		// count declarations per name at this depth to detect ambiguity
		declared := make(map[string]int)
		for _, decl := range level {
			for name := range decl.Methods {
				declared[name]++
			}
		}

		for _, decl := range level {
			for name, method := range decl.Methods {
				if shadowed[name] || declared[name] > 1 {
					continue
				}
				annotation, ok := method.HasMarker(marker)
				if !ok {
					continue
				}
				ref := models.MethodRef{DeclaringType: decl.Ref().String(), Name: name}
				candidates[ref] = models.CandidateInfo{
					Depth:    depth,
					Location: annotation.Location,
				}
			}
		}

		for name := range declared {
			shadowed[name] = true
		}

		level = c.nextLevel(level, visited)
	}

	return candidates, nil
}

// nextLevel returns the indexed structs embedded by the current level.
// Embedded types outside the deployment unit carry no markers and are
// skipped.
func (c *Collector) nextLevel(level []*StructDecl, visited map[TypeRef]bool) []*StructDecl {
	var next []*StructDecl
	for _, decl := range level {
		for _, ref := range decl.Embedded {
			if visited[ref] {
				continue
			}
			visited[ref] = true

			if embedded, ok := c.indexes.Lookup(ref); ok {
				next = append(next, embedded)
			}
		}
	}
	return next
}

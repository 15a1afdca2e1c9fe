package deployment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/txsync/internal/descriptor"
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
	"github.com/toyz/txsync/internal/parser"
)

// Components builds the stateful components of a deployment unit, sorted
// by name.
//
// Structs marked //txsync::stateful are components named by their -Name
// parameter or, without one, their struct name. A descriptor entry with the
// same name is attached to that component. Any other stateful descriptor
// entry becomes a component of its own, implemented by the struct its type
// names; that struct must exist in the unit.
func Components(indexes parser.Indexes, desc *descriptor.Descriptor) ([]*models.ComponentDefinition, error) {
	byName := make(map[string]*models.ComponentDefinition)

	for _, pkg := range indexes.Sorted() {
		for _, decl := range pkg.Components() {
			name := decl.Name
			if custom := decl.StatefulAnnotation().GetString("Name"); custom != "" {
				name = custom
			}

			if existing, ok := byName[name]; ok {
				return nil, errors.Newf(errors.ConfigurationErrorCode,
					"component name %q is used by both %s and %s", name, existing.TypeName(), decl.Ref().String()).
					WithLocation(decl.Location).
					WithSuggestion("Give one of them a distinct name with -Name=<name>")
			}

			component := models.NewComponentDefinition(name, decl.PkgPath, decl.Name)
			component.Location = decl.Location
			component.Marked = true
			byName[name] = component
		}
	}

	for _, entry := range desc.Components() {
		component, marked := byName[entry.ComponentName()]

		if entry.SessionType() != models.SessionTypeStateful {
			if marked {
				return nil, errors.Newf(errors.ConfigurationErrorCode,
					"component %q is marked stateful but the descriptor declares session-type %q",
					entry.ComponentName(), entry.SessionType()).
					WithLocation(component.Location).
					WithContext("descriptor", desc.Path)
			}
			continue
		}

		if !marked {
			decl, err := findStruct(indexes, entry)
			if err != nil {
				return nil, err
			}
			component = models.NewComponentDefinition(entry.ComponentName(), decl.PkgPath, decl.Name)
			component.Location = decl.Location
			byName[entry.ComponentName()] = component
		}

		component.Descriptor = entry
	}

	components := make([]*models.ComponentDefinition, 0, len(byName))
	for _, component := range byName {
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})

	return components, nil
}

// findStruct locates the struct a descriptor entry names. A qualified type
// (import/path.Struct) is looked up directly; a bare struct name must be
// declared by exactly one loaded package.
func findStruct(indexes parser.Indexes, entry models.SessionDescriptor) (*parser.StructDecl, error) {
	typeName := entry.TypeName()

	if dot := strings.LastIndex(typeName, "."); dot >= 0 {
		ref := parser.TypeRef{PkgPath: typeName[:dot], Name: typeName[dot+1:]}
		if decl, ok := indexes.Lookup(ref); ok {
			return decl, nil
		}
		return nil, errors.NewMissingComponentTypeError(entry.ComponentName(), typeName)
	}

	var matches []*parser.StructDecl
	for _, pkg := range indexes.Sorted() {
		if decl, ok := pkg.Struct(typeName); ok {
			matches = append(matches, decl)
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.NewMissingComponentTypeError(entry.ComponentName(), typeName)
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, len(matches))
		for i, decl := range matches {
			candidates[i] = decl.Ref().String()
		}
		return nil, errors.Newf(errors.ConfigurationErrorCode,
			"component %q type %q is ambiguous: %s", entry.ComponentName(), typeName, strings.Join(candidates, ", ")).
			WithSuggestion(fmt.Sprintf("Use the qualified type, e.g. %s", candidates[0]))
	}
}

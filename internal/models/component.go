package models

import "github.com/toyz/txsync/internal/errors"

// SourceLocation points at a declaration in Go source
type SourceLocation = errors.SourceLocation

// ComponentDefinition is one stateful component of a deployment unit
type ComponentDefinition struct {
	Name        string            // component name (descriptor name or struct name)
	StructName  string            // Go struct name
	PackagePath string            // import path of the declaring package
	Location    SourceLocation    // where the struct is declared
	Marked      bool              // declared by a //txsync::stateful marker
	Descriptor  SessionDescriptor // descriptor entry, nil when the component is marker-only
	Binding     *LifecycleBinding // resolved callbacks
}

// NewComponentDefinition creates a component with an empty binding
func NewComponentDefinition(name, pkgPath, structName string) *ComponentDefinition {
	return &ComponentDefinition{
		Name:        name,
		StructName:  structName,
		PackagePath: pkgPath,
		Binding:     NewLifecycleBinding(),
	}
}

// TypeName returns the fully-qualified type name, e.g. example.com/app/beans.Cart
func (c *ComponentDefinition) TypeName() string {
	return QualifiedName(c.PackagePath, c.StructName)
}

// QualifiedName joins a package path and a type name
func QualifiedName(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

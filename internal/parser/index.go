package parser

import (
	"go/token"
	"go/types"
	"sort"

	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/internal/models"
)

// PackageIndex is the syntax and type information of one package, reduced
// to what callback resolution needs: structs, their embedded types, and the
// txsync markers on structs and methods.
type PackageIndex struct {
	Name    string                 // package name
	Path    string                 // import path
	Fset    *token.FileSet         // positions for every file of the package
	Types   *types.Package         // type-checked package
	Structs map[string]*StructDecl // struct declarations by name
}

// StructDecl is a struct type declared in an indexed package
type StructDecl struct {
	Name        string
	PkgPath     string
	Location    models.SourceLocation
	Embedded    []TypeRef              // embedded named types, in field order
	Methods     map[string]*MethodDecl // methods declared with this struct as receiver
	Annotations []*annotations.ParsedAnnotation
}

// MethodDecl is a method declared on an indexed struct
type MethodDecl struct {
	Name        string
	Receiver    string
	Location    models.SourceLocation
	Annotations []*annotations.ParsedAnnotation
}

// TypeRef names a type by import path and name
type TypeRef struct {
	PkgPath string
	Name    string
}

// String returns the fully-qualified type name
func (t TypeRef) String() string {
	return models.QualifiedName(t.PkgPath, t.Name)
}

// Ref returns the TypeRef of the struct
func (s *StructDecl) Ref() TypeRef {
	return TypeRef{PkgPath: s.PkgPath, Name: s.Name}
}

// StatefulAnnotation returns the //txsync::stateful marker, if present
func (s *StructDecl) StatefulAnnotation() *annotations.ParsedAnnotation {
	for _, annotation := range s.Annotations {
		if annotation.Type == annotations.StatefulAnnotation {
			return annotation
		}
	}
	return nil
}

// HasMarker reports whether the method carries the given marker
func (m *MethodDecl) HasMarker(annotationType annotations.AnnotationType) (*annotations.ParsedAnnotation, bool) {
	for _, annotation := range m.Annotations {
		if annotation.Type == annotationType {
			return annotation, true
		}
	}
	return nil, false
}

// Components returns the structs marked //txsync::stateful, sorted by name
func (idx *PackageIndex) Components() []*StructDecl {
	var components []*StructDecl
	for _, decl := range idx.Structs {
		if decl.StatefulAnnotation() != nil {
			components = append(components, decl)
		}
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
	return components
}

// Struct looks up a struct declaration by name
func (idx *PackageIndex) Struct(name string) (*StructDecl, bool) {
	decl, ok := idx.Structs[name]
	return decl, ok
}

// Indexes maps import paths to the packages of a deployment unit
type Indexes map[string]*PackageIndex

// NewIndexes builds an Indexes from a list of packages
func NewIndexes(pkgs ...*PackageIndex) Indexes {
	indexes := make(Indexes, len(pkgs))
	for _, pkg := range pkgs {
		indexes[pkg.Path] = pkg
	}
	return indexes
}

// Lookup finds the struct a TypeRef names, if its package is indexed
func (i Indexes) Lookup(ref TypeRef) (*StructDecl, bool) {
	pkg, ok := i[ref.PkgPath]
	if !ok {
		return nil, false
	}
	return pkg.Struct(ref.Name)
}

// Sorted returns the packages ordered by import path
func (i Indexes) Sorted() []*PackageIndex {
	pkgs := make([]*PackageIndex, 0, len(i))
	for _, pkg := range i {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(a, b int) bool { return pkgs[a].Path < pkgs[b].Path })
	return pkgs
}

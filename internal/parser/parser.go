package parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
)

// LoadMode specifies what information to load from packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Parser builds PackageIndexes from Go sources
type Parser struct {
	registry annotations.AnnotationRegistry
	markers  *annotations.ParticipleParser
}

// NewParser creates a parser validating markers against the default registry
func NewParser() *Parser {
	registry := annotations.DefaultRegistry()
	return &Parser{
		registry: registry,
		markers:  annotations.NewParticipleParser(registry),
	}
}

// ParseSource parses and type-checks a single file held in memory.
// Imports are resolved from GOROOT sources, so only standard library
// imports are available.
func (p *Parser) ParseSource(pkgPath, filename, source string) (*PackageIndex, error) {
	return p.ParseSources(pkgPath, map[string]string{filename: source})
}

// ParseSources parses and type-checks one package made of in-memory files
func (p *Parser) ParseSources(pkgPath string, sources map[string]string) (*PackageIndex, error) {
	fset := token.NewFileSet()

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		file, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to parse source", err).
				WithLocation(models.SourceLocation{File: name})
		}
		files = append(files, file)
	}

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	typesPkg, err := conf.Check(pkgPath, fset, files, nil)
	if err != nil {
		return nil, errors.WrapTypeCheckError(pkgPath, err)
	}

	return p.buildIndex(pkgPath, fset, files, typesPkg)
}

// LoadPackages loads the packages matching patterns, relative to dir, and
// indexes each of them concurrently.
func (p *Parser) LoadPackages(ctx context.Context, dir string, patterns ...string) (Indexes, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(errors.TypeCheckErrorCode, "failed to load packages", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(errors.TypeCheckErrorCode, "package errors", fmt.Errorf("%v", errs))
	}

	results := make([]*PackageIndex, len(pkgs))
	g, _ := errgroup.WithContext(ctx)
	for i, pkg := range pkgs {
		i, pkg := i, pkg
		g.Go(func() error {
			index, err := p.buildIndex(pkg.PkgPath, pkg.Fset, pkg.Syntax, pkg.Types)
			if err != nil {
				return err
			}
			results[i] = index
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewIndexes(results...), nil
}

// buildIndex extracts structs, embedded types and markers from a package
func (p *Parser) buildIndex(pkgPath string, fset *token.FileSet, files []*ast.File, typesPkg *types.Package) (*PackageIndex, error) {
	index := &PackageIndex{
		Name:    typesPkg.Name(),
		Path:    pkgPath,
		Fset:    fset,
		Types:   typesPkg,
		Structs: make(map[string]*StructDecl),
	}

	// First pass: struct declarations, so methods can find their receiver
	// regardless of file order
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := typeSpec.Type.(*ast.StructType); !ok {
					continue
				}
				if err := p.indexStruct(index, genDecl, typeSpec); err != nil {
					return nil, err
				}
			}
		}
	}

	// Second pass: methods
	for _, file := range files {
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 {
				continue
			}
			if err := p.indexMethod(index, funcDecl); err != nil {
				return nil, err
			}
		}
	}

	return index, nil
}

func (p *Parser) indexStruct(index *PackageIndex, genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) error {
	decl := &StructDecl{
		Name:     typeSpec.Name.Name,
		PkgPath:  index.Path,
		Location: location(index.Fset, typeSpec.Pos()),
		Embedded: embeddedTypes(index.Types, typeSpec.Name.Name),
		Methods:  make(map[string]*MethodDecl),
	}

	// a lone type spec keeps its doc comment on the GenDecl
	docs := []*ast.CommentGroup{typeSpec.Doc}
	if len(genDecl.Specs) == 1 {
		docs = append(docs, genDecl.Doc)
	}

	for _, doc := range docs {
		parsed, err := p.parseMarkers(index.Fset, doc, decl.Name, false)
		if err != nil {
			return err
		}
		decl.Annotations = append(decl.Annotations, parsed...)
	}

	index.Structs[decl.Name] = decl
	return nil
}

func (p *Parser) indexMethod(index *PackageIndex, funcDecl *ast.FuncDecl) error {
	receiver := receiverTypeName(funcDecl.Recv.List[0].Type)
	target := receiver + "." + funcDecl.Name.Name

	parsed, err := p.parseMarkers(index.Fset, funcDecl.Doc, target, true)
	if err != nil {
		return err
	}

	decl, ok := index.Structs[receiver]
	if !ok {
		// methods on non-struct types cannot belong to a component hierarchy
		return nil
	}

	decl.Methods[funcDecl.Name.Name] = &MethodDecl{
		Name:        funcDecl.Name.Name,
		Receiver:    receiver,
		Location:    location(index.Fset, funcDecl.Pos()),
		Annotations: parsed,
	}
	return nil
}

// parseMarkers parses every txsync marker of a doc comment and checks that
// it is attached to the right kind of declaration
func (p *Parser) parseMarkers(fset *token.FileSet, doc *ast.CommentGroup, target string, onMethod bool) ([]*annotations.ParsedAnnotation, error) {
	if doc == nil {
		return nil, nil
	}

	var parsed []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsMarker(comment.Text) {
			continue
		}

		loc := location(fset, comment.Pos())
		annotation, err := p.markers.ParseAnnotation(comment.Text, loc)
		if err != nil {
			return nil, err
		}
		annotation.Target = target

		schema, err := p.registry.GetSchema(annotation.Type)
		if err != nil {
			return nil, errors.NewMarkerSyntaxError(loc, comment.Text, err)
		}
		if schema.OnMethod != onMethod {
			kind := "struct"
			if schema.OnMethod {
				kind = "method"
			}
			return nil, errors.Newf(errors.ValidationErrorCode, "%s marker on %s belongs on a %s", annotation.Type, target, kind).
				WithLocation(loc)
		}

		parsed = append(parsed, annotation)
	}

	return parsed, nil
}

// embeddedTypes lists the named types embedded in a struct, using the
// type-checked package so embedded types from other packages resolve to
// their import path
func embeddedTypes(pkg *types.Package, structName string) []TypeRef {
	obj := pkg.Scope().Lookup(structName)
	if obj == nil {
		return nil
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var refs []TypeRef
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}

		t := field.Type()
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		named, ok := t.(*types.Named)
		if !ok {
			continue
		}

		named = named.Origin()
		ref := TypeRef{Name: named.Obj().Name()}
		if named.Obj().Pkg() != nil {
			ref.PkgPath = named.Obj().Pkg().Path()
		}
		refs = append(refs, ref)
	}

	return refs
}

// receiverTypeName returns the base type name of a method receiver
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.ParenExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func location(fset *token.FileSet, pos token.Pos) models.SourceLocation {
	position := fset.Position(pos)
	return models.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

package parser

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/txsync/internal/annotations"
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
)

const shopPkg = "example.com/shop/beans"

const shopSource = `package beans

import "context"

// Base holds auditing hooks shared by carts
type Base struct{}

//txsync::after_completion
func (b *Base) Audit(ctx context.Context, committed bool) {}

//txsync::after_begin
func (b *Base) Open() {}

// Cart is a shopping cart
//
//txsync::stateful -Name=ShoppingCart
type Cart struct {
	Base
	items []string
}

// Open shadows Base.Open without a marker
func (c *Cart) Open() {}

//txsync::before_completion
func (c *Cart) Flush() error { return nil }

type (
	//txsync::stateful
	Wishlist struct{ *Base }

	plain struct{}
)

type Counter int

//txsync::after_begin
func (c Counter) Tick() {}
`

func parseShop(t *testing.T) *PackageIndex {
	t.Helper()
	index, err := NewParser().ParseSource(shopPkg, "beans.go", shopSource)
	require.NoError(t, err)
	return index
}

func component(pkgPath, structName string) *models.ComponentDefinition {
	return models.NewComponentDefinition(structName, pkgPath, structName)
}

func TestParseSource(t *testing.T) {
	index := parseShop(t)

	assert.Equal(t, "beans", index.Name)
	assert.Equal(t, shopPkg, index.Path)
	assert.Len(t, index.Structs, 4)

	t.Run("components are stateful structs", func(t *testing.T) {
		components := index.Components()
		require.Len(t, components, 2)
		assert.Equal(t, "Cart", components[0].Name)
		assert.Equal(t, "Wishlist", components[1].Name)

		stateful := components[0].StatefulAnnotation()
		require.NotNil(t, stateful)
		assert.Equal(t, "ShoppingCart", stateful.GetString("Name"))
		assert.Equal(t, "Cart", stateful.Target)
	})

	t.Run("embedded types resolve through go/types", func(t *testing.T) {
		cart, ok := index.Struct("Cart")
		require.True(t, ok)
		assert.Equal(t, []TypeRef{{PkgPath: shopPkg, Name: "Base"}}, cart.Embedded)

		wishlist, ok := index.Struct("Wishlist")
		require.True(t, ok)
		assert.Equal(t, []TypeRef{{PkgPath: shopPkg, Name: "Base"}}, wishlist.Embedded)
	})

	t.Run("method markers carry location", func(t *testing.T) {
		cart, _ := index.Struct("Cart")
		flush := cart.Methods["Flush"]
		require.NotNil(t, flush)

		annotation, ok := flush.HasMarker(annotations.BeforeCompletionAnnotation)
		require.True(t, ok)
		assert.Equal(t, "Cart.Flush", annotation.Target)
		assert.Equal(t, "beans.go", annotation.Location.File)
		assert.Equal(t, 25, annotation.Location.Line)

		_, ok = cart.Methods["Open"].HasMarker(annotations.AfterBeginAnnotation)
		assert.False(t, ok)
	})
}

func TestParseSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{
			name: "malformed marker",
			source: `package beans

//txsync::after_commit
func (c *Cart) Done() {}

type Cart struct{}
`,
			code: errors.SyntaxErrorCode,
		},
		{
			name: "method marker on struct",
			source: `package beans

//txsync::after_begin
type Cart struct{}
`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "struct marker on method",
			source: `package beans

type Cart struct{}

//txsync::stateful
func (c *Cart) Done() {}
`,
			code: errors.ValidationErrorCode,
		},
		{
			name: "type error",
			source: `package beans

type Cart struct{ Missing }
`,
			code: errors.TypeCheckErrorCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseSource(shopPkg, "beans.go", tt.source)
			require.Error(t, err)

			var txErr errors.TxsyncError
			require.True(t, stderrors.As(err, &txErr), "expected a TxsyncError, got %T", err)
			assert.Equal(t, tt.code, txErr.ErrorCode())
		})
	}
}

func TestCollectorCandidates(t *testing.T) {
	index := parseShop(t)
	collector := NewCollector(NewIndexes(index))

	t.Run("own marker", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Cart"), models.BeforeCompletion)
		require.NoError(t, err)

		ref, ok := candidates.Single()
		require.True(t, ok)
		assert.Equal(t, models.MethodRef{DeclaringType: shopPkg + ".Cart", Name: "Flush"}, ref)
		assert.Equal(t, 0, candidates[ref].Depth)
	})

	t.Run("promoted marker from embedded struct", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Cart"), models.AfterCompletion)
		require.NoError(t, err)

		ref, ok := candidates.Single()
		require.True(t, ok)
		assert.Equal(t, models.MethodRef{DeclaringType: shopPkg + ".Base", Name: "Audit"}, ref)
		assert.Equal(t, 1, candidates[ref].Depth)
	})

	t.Run("shadowed marker is not a candidate", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Cart"), models.AfterBegin)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("pointer embedding promotes markers", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Wishlist"), models.AfterBegin)
		require.NoError(t, err)

		ref, ok := candidates.Single()
		require.True(t, ok)
		assert.Equal(t, models.MethodRef{DeclaringType: shopPkg + ".Base", Name: "Open"}, ref)
	})

	t.Run("unknown struct", func(t *testing.T) {
		_, err := collector.Candidates(component(shopPkg, "Missing"), models.AfterBegin)

		var txErr errors.TxsyncError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, errors.ConfigurationErrorCode, txErr.ErrorCode())
	})
}

func TestCollectorHierarchyRules(t *testing.T) {
	source := `package beans

type Left struct{}

//txsync::after_begin
func (Left) Start() {}

type Right struct{}

//txsync::after_begin
func (*Right) Start() {}

// Both embeds two types declaring Start at the same depth
type Both struct {
	Left
	*Right
}

type Inner struct{}

//txsync::after_begin
func (*Inner) Resume() {}

type Middle struct{ Inner }

// Twice has markers on two different methods of its hierarchy
type Twice struct{ Middle }

//txsync::after_begin
func (*Twice) Begin() {}

// Loop embeds itself through a pointer
type Loop struct{ *Loop }

//txsync::after_begin
//txsync::after_begin
func (*Loop) Begin() {}
`
	index, err := NewParser().ParseSource(shopPkg, "rules.go", source)
	require.NoError(t, err)
	collector := NewCollector(NewIndexes(index))

	t.Run("ambiguous selector promotes neither", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Both"), models.AfterBegin)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("markers across depths all count", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Twice"), models.AfterBegin)
		require.NoError(t, err)

		assert.Equal(t, []models.MethodRef{
			{DeclaringType: shopPkg + ".Inner", Name: "Resume"},
			{DeclaringType: shopPkg + ".Twice", Name: "Begin"},
		}, candidates.Sorted())
		assert.Equal(t, 2, candidates[models.MethodRef{DeclaringType: shopPkg + ".Inner", Name: "Resume"}].Depth)
	})

	t.Run("repeated marker on one method counts once", func(t *testing.T) {
		candidates, err := collector.Candidates(component(shopPkg, "Loop"), models.AfterBegin)
		require.NoError(t, err)
		assert.Len(t, candidates, 1)
	})
}

func TestCapabilityChecker(t *testing.T) {
	source := `package beans

import "context"

type Sync struct{}

func (s *Sync) AfterBegin(ctx context.Context) error        { return nil }
func (s *Sync) BeforeCompletion(ctx context.Context) error  { return nil }
func (s Sync) AfterCompletion(ctx context.Context, ok bool) {}

// Promoted gets every method from Sync
type Promoted struct{ Sync }

// Partial misses AfterCompletion
type Partial struct{}

func (p *Partial) AfterBegin(ctx context.Context) error       { return nil }
func (p *Partial) BeforeCompletion(ctx context.Context) error { return nil }

// WrongShape has the names but not the signatures
type WrongShape struct{}

func (w *WrongShape) AfterBegin() error                      { return nil }
func (w *WrongShape) BeforeCompletion(ctx context.Context) error { return nil }
func (w *WrongShape) AfterCompletion(ctx context.Context, ok bool) {}
`
	index, err := NewParser().ParseSource(shopPkg, "sync.go", source)
	require.NoError(t, err)
	checker := NewCapabilityChecker(NewIndexes(index))

	tests := []struct {
		name       string
		structName string
		expected   bool
	}{
		{"direct implementation", "Sync", true},
		{"promoted implementation", "Promoted", true},
		{"missing method", "Partial", false},
		{"wrong signature", "WrongShape", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			implements, err := checker.ImplementsSessionSynchronization(component(shopPkg, tt.structName))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, implements)
		})
	}

	t.Run("unknown package", func(t *testing.T) {
		_, err := checker.ImplementsSessionSynchronization(component("example.com/other", "Sync"))
		assert.Error(t, err)
	})
}

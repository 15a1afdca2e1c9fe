package deployment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/txsync/internal/descriptor"
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
	"github.com/toyz/txsync/internal/parser"
)

const beansPkg = "example.com/shop/beans"

const beansSource = `package beans

import "context"

//txsync::stateful
type Foo struct{}

//txsync::after_begin
func (f *Foo) Open() {}

//txsync::after_begin
func (f *Foo) Start() {}

//txsync::stateful
type Bar struct{}

func (b *Bar) AfterBegin(ctx context.Context) error            { return nil }
func (b *Bar) BeforeCompletion(ctx context.Context) error      { return nil }
func (b *Bar) AfterCompletion(ctx context.Context, ok bool)    {}

//txsync::before_completion
func (b *Bar) Flush() {}

// Baz is declared by the descriptor only
type Baz struct{}

type Audited struct{}

//txsync::after_completion
func (a *Audited) Record(committed bool) {}

//txsync::stateful -Name=ShoppingCart
type Cart struct {
	Audited
}

//txsync::after_begin
func (c *Cart) Open() {}

//txsync::before_completion
func (c *Cart) Flush() {}
`

// validSource drops Foo so the rest of the unit can resolve
const validSource = `package beans

import "context"

//txsync::stateful
type Bar struct{}

func (b *Bar) AfterBegin(ctx context.Context) error         { return nil }
func (b *Bar) BeforeCompletion(ctx context.Context) error   { return nil }
func (b *Bar) AfterCompletion(ctx context.Context, ok bool) {}

//txsync::before_completion
func (b *Bar) Flush() {}

type Baz struct{}

type Audited struct{}

//txsync::after_completion
func (a *Audited) Record(committed bool) {}

//txsync::stateful -Name=ShoppingCart
type Cart struct {
	Audited
}

//txsync::after_begin
func (c *Cart) Open() {}

//txsync::before_completion
func (c *Cart) Flush() {}
`

func loadUnit(t *testing.T, source, descriptorYAML string) Unit {
	t.Helper()

	index, err := parser.NewParser().ParseSource(beansPkg, "beans.go", source)
	require.NoError(t, err)

	unit := Unit{ModulePath: "example.com/shop", Indexes: parser.NewIndexes(index)}
	if descriptorYAML != "" {
		unit.Descriptor, err = descriptor.Parse("txsync.yaml", descriptor.FormatYAML, []byte(descriptorYAML))
		require.NoError(t, err)
	}
	return unit
}

func TestProcessMultipleCandidates(t *testing.T) {
	unit := loadUnit(t, beansSource, "")

	report, err := NewProcessor(nil).Process(context.Background(), unit)
	require.Error(t, err)
	assert.Nil(t, report)

	var callbackErr *errors.CallbackError
	require.ErrorAs(t, err, &callbackErr)
	assert.Equal(t, errors.MultipleCallbackCandidatesCode, callbackErr.ErrorCode())
	assert.Equal(t, beansPkg+".Foo", callbackErr.TypeName)
	assert.Equal(t, models.AfterBegin.String(), callbackErr.Role)
	assert.Equal(t, []string{beansPkg + ".Foo.Open", beansPkg + ".Foo.Start"}, callbackErr.Candidates)
	assert.Contains(t, err.Error(), "Foo")
}

func TestProcessResolvesUnit(t *testing.T) {
	unit := loadUnit(t, validSource, `components:
  - name: Baz
    after-completion-method: onCommit
`)

	report, err := NewProcessor(nil).Process(context.Background(), unit)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "example.com/shop", report.Module)
	assert.Equal(t, "txsync.yaml", report.Descriptor)
	assert.Equal(t, 1, report.Packages)

	names := make([]string, len(report.Components))
	for i, c := range report.Components {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Bar", "Baz", "ShoppingCart"}, names)

	t.Run("capability interface binds fixed names", func(t *testing.T) {
		bar, ok := report.Component("Bar")
		require.True(t, ok)
		assert.Equal(t, SourceMarker, bar.Source)
		assert.Equal(t, []CallbackReport{
			{Role: models.AfterBegin, Method: "AfterBegin"},
			{Role: models.AfterCompletion, Method: "AfterCompletion"},
			{Role: models.BeforeCompletion, Method: "BeforeCompletion"},
		}, bar.Callbacks)
	})

	t.Run("descriptor only component", func(t *testing.T) {
		baz, ok := report.Component("Baz")
		require.True(t, ok)
		assert.Equal(t, SourceDescriptor, baz.Source)
		assert.Equal(t, beansPkg+".Baz", baz.Type)
		assert.Equal(t, []CallbackReport{
			{Role: models.AfterCompletion, Method: "onCommit"},
		}, baz.Callbacks)
	})

	t.Run("markers across embedded structs", func(t *testing.T) {
		cart, ok := report.Component("ShoppingCart")
		require.True(t, ok)
		assert.Equal(t, beansPkg+".Cart", cart.Type)
		assert.Equal(t, "beans.go:23:6", cart.Location)

		record, ok := cart.Callback(models.AfterCompletion)
		require.True(t, ok)
		assert.Equal(t, CallbackReport{Role: models.AfterCompletion, DeclaringType: beansPkg + ".Audited", Method: "Record"}, record)

		open, ok := cart.Callback(models.AfterBegin)
		require.True(t, ok)
		assert.Equal(t, beansPkg+".Cart", open.DeclaringType)
	})
}

func TestProcessDescriptorPrecedence(t *testing.T) {
	unit := loadUnit(t, validSource, `components:
  - name: ShoppingCart
    after-begin-method: Begin
`)

	report, err := NewProcessor(nil).Process(context.Background(), unit)
	require.NoError(t, err)

	cart, ok := report.Component("ShoppingCart")
	require.True(t, ok)
	assert.Equal(t, SourceMarkerDescriptor, cart.Source)

	begin, _ := cart.Callback(models.AfterBegin)
	assert.Equal(t, CallbackReport{Role: models.AfterBegin, Method: "Begin"}, begin)

	flush, _ := cart.Callback(models.BeforeCompletion)
	assert.Equal(t, beansPkg+".Cart", flush.DeclaringType, "roles the descriptor omits keep their marker binding")
}

func TestProcessMetadataComplete(t *testing.T) {
	unit := loadUnit(t, beansSource, `metadata-complete: true
components:
  - name: Baz
    after-completion-method: onCommit
`)

	report, err := NewProcessor(nil).Process(context.Background(), unit)
	require.NoError(t, err, "duplicate markers on Foo are never read")
	assert.True(t, report.MetadataComplete)

	foo, ok := report.Component("Foo")
	require.True(t, ok)
	assert.Empty(t, foo.Callbacks)

	cart, ok := report.Component("ShoppingCart")
	require.True(t, ok)
	assert.Empty(t, cart.Callbacks)

	bar, ok := report.Component("Bar")
	require.True(t, ok)
	assert.Len(t, bar.Callbacks, 3, "the capability interface still applies")
}

func TestProcessLegacyDescriptor(t *testing.T) {
	unit := loadUnit(t, validSource, `version: 1
components:
  - name: Baz
`)

	report, err := NewProcessor(nil).Process(context.Background(), unit)
	require.NoError(t, err)

	baz, ok := report.Component("Baz")
	require.True(t, ok)
	assert.Empty(t, baz.Callbacks)
}

func TestProcessIsIdempotent(t *testing.T) {
	unit := loadUnit(t, validSource, `components:
  - name: Baz
    after-completion-method: onCommit
`)
	processor := NewProcessor(nil)

	first, err := processor.Process(context.Background(), unit)
	require.NoError(t, err)
	second, err := processor.Process(context.Background(), unit)
	require.NoError(t, err)

	assert.Equal(t, first.Components, second.Components)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestProcessCancelled(t *testing.T) {
	unit := loadUnit(t, validSource, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor(nil).Process(ctx, unit)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComponents(t *testing.T) {
	index, err := parser.NewParser().ParseSource(beansPkg, "beans.go", validSource)
	require.NoError(t, err)
	indexes := parser.NewIndexes(index)

	parse := func(t *testing.T, doc string) *descriptor.Descriptor {
		d, err := descriptor.Parse("txsync.yaml", descriptor.FormatYAML, []byte(doc))
		require.NoError(t, err)
		return d
	}

	t.Run("qualified type", func(t *testing.T) {
		components, err := Components(indexes, parse(t, "components:\n  - name: Basket\n    type: "+beansPkg+".Cart\n"))
		require.NoError(t, err)
		require.Len(t, components, 3)
		assert.Equal(t, "Basket", components[1].Name)
		assert.Equal(t, "Cart", components[1].StructName)
		assert.False(t, components[1].Marked)
	})

	t.Run("missing struct", func(t *testing.T) {
		_, err := Components(indexes, parse(t, "components:\n  - name: Checkout\n"))

		var txErr errors.TxsyncError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, errors.ConfigurationErrorCode, txErr.ErrorCode())
		assert.Contains(t, err.Error(), `"Checkout"`)
	})

	t.Run("non-stateful entries are skipped", func(t *testing.T) {
		components, err := Components(indexes, parse(t, "components:\n  - name: Catalog\n    session-type: stateless\n"))
		require.NoError(t, err)
		assert.Len(t, components, 2)
	})

	t.Run("session type conflicting with marker", func(t *testing.T) {
		_, err := Components(indexes, parse(t, "components:\n  - name: Bar\n    session-type: singleton\n"))

		var txErr errors.TxsyncError
		require.ErrorAs(t, err, &txErr)
		assert.Equal(t, errors.ConfigurationErrorCode, txErr.ErrorCode())
	})

	t.Run("duplicate marker names", func(t *testing.T) {
		index, err := parser.NewParser().ParseSource(beansPkg, "dup.go", `package beans

//txsync::stateful -Name=Cart
type A struct{}

//txsync::stateful -Name=Cart
type B struct{}
`)
		require.NoError(t, err)

		_, err = Components(parser.NewIndexes(index), nil)
		assert.Error(t, err)
	})

	t.Run("ambiguous bare type", func(t *testing.T) {
		other, err := parser.NewParser().ParseSource("example.com/shop/legacy", "legacy.go", "package legacy\n\ntype Baz struct{}\n")
		require.NoError(t, err)

		_, err = Components(parser.NewIndexes(index, other), parse(t, "components:\n  - name: Baz\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})
}

package synth_test

import (
	"context"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/annotation"
	"typeforge/descriptor"
	"typeforge/errdefs"
	"typeforge/meta"
	"typeforge/props"
	"typeforge/synth"
	"typeforge/typeref"
)

type Entity struct {
	ID   int64
	Name string
}

func newSynth(t *testing.T, opts ...synth.Option) *synth.Synthesizer {
	t.Helper()

	s, err := synth.New(opts...)
	require.NoError(t, err)

	s.Universe().RegisterAs("example.com/base.Entity", reflect.TypeFor[Entity]())

	return s
}

func order() descriptor.Class {
	return descriptor.Class{
		Name:    "Order",
		Package: "example.com/shop",
		Properties: []descriptor.Property{
			descriptor.NewProperty("Number", typeref.Basic("string"), annotation.MustParse("image.Point{X: 1, Y: 2}")),
			descriptor.NewProperty("Total", typeref.MustParse("*float64")),
			descriptor.NewProperty("Lines", typeref.MustParse("map[string][]int")),
			descriptor.NewProperty("Created", typeref.MustParse("time.Time")).AsReadOnly(),
		},
	}
}

func TestEmitIdempotent(t *testing.T) {
	t.Parallel()

	s := newSynth(t)

	first, err := s.Emit(order())
	require.NoError(t, err)

	second, err := s.Emit(order())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, first.Reflect(), second.Reflect())

	renamed, err := s.Emit(order().WithName("Invoice"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Reflect(), renamed.Reflect())

	registered, ok := s.Universe().Lookup("example.com/shop.Order")
	require.True(t, ok)
	assert.Equal(t, first.Reflect(), registered)
}

func TestEmitRoundTrip(t *testing.T) {
	t.Parallel()

	typ, err := newSynth(t).Emit(order())
	require.NoError(t, err)

	rt := typ.Reflect()
	assert.Equal(t, meta.HeaderField, rt.Field(0).Name)
	assert.Equal(t, []string{"Number", "Total", "Lines", "Created"}, typ.Properties().Names())

	d, ok := meta.ReadHeader(rt)
	require.True(t, ok)
	assert.Equal(t, "Order", d.Name)
	assert.Equal(t, "example.com/shop", d.Package)
	assert.Equal(t, "struct", d.Kind)

	inst, err := typ.New()
	require.NoError(t, err)

	v := reflect.ValueOf(inst)
	set := props.Of(rt)

	number, _ := set.Lookup("Number")
	require.NoError(t, number.Set(v, reflect.ValueOf("A-1")))
	assert.Equal(t, "A-1", number.Get(v).Interface())
	assert.Equal(t, "x=1,y=2", number.Tag.Get("point"))

	created, _ := set.Lookup("Created")
	assert.True(t, created.ReadOnly)
	require.ErrorIs(t, created.Set(v, created.Get(v)), props.ErrReadOnly)
}

func TestEmitParents(t *testing.T) {
	t.Parallel()

	s := newSynth(t)

	typ, err := s.Emit(descriptor.Class{
		Name:    "Customer",
		Package: "example.com/crm",
		Parents: []string{"fmt.Stringer", "example.com/base.Entity"},
		Properties: []descriptor.Property{
			descriptor.NewProperty("Name", typeref.Basic("int")),
			descriptor.NewProperty("Email", typeref.Basic("string")),
		},
	})
	require.NoError(t, err)

	rt := typ.Reflect()
	require.Equal(t, 4, rt.NumField())
	assert.Equal(t, "ID", rt.Field(1).Name)
	assert.Equal(t, "Name", rt.Field(2).Name)
	assert.Equal(t, reflect.TypeFor[int](), rt.Field(2).Type)
	assert.Equal(t, "Email", rt.Field(3).Name)

	d, _ := meta.ReadHeader(rt)
	assert.Equal(t, []string{"example.com/base.Entity", "fmt.Stringer"}, d.Parents)
}

func TestParentValidation(t *testing.T) {
	t.Parallel()

	s := newSynth(t)
	s.Universe().RegisterAs("example.com/base.Other", reflect.TypeFor[struct{ X int }]())

	tests := []struct {
		name  string
		class descriptor.Class
	}{
		{
			name:  "two struct parents",
			class: descriptor.Class{Name: "A", Parents: []string{"example.com/base.Entity", "example.com/base.Other"}},
		},
		{
			name:  "unregistered parent",
			class: descriptor.Class{Name: "B", Parents: []string{"example.com/nowhere.Base"}},
		},
		{
			name:  "interface",
			class: descriptor.Class{Name: "C"}.AsInterface(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.Emit(tt.class)
			require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
		})
	}

	_, err := s.Compile(context.Background(), descriptor.Class{
		Name:    "D",
		Parents: []string{"example.com/base.Entity"},
	}.AsInterface())
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
	assert.Contains(t, err.Error(), "cannot extend struct")
}

func TestTextMatchesBinary(t *testing.T) {
	t.Parallel()

	s := newSynth(t, synth.WithStrategy(synth.StrategyText))

	base, err := s.Synthesize(context.Background(), descriptor.Class{
		Name:    "Audited",
		Package: "example.com/audit",
		Properties: []descriptor.Property{
			descriptor.NewProperty("Version", typeref.Basic("int")),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, base.Reflect())
	assert.Equal(t, synth.StrategyText, base.Strategy)

	class := order()
	class.Parents = []string{"example.com/audit.Audited"}
	class.Annotations = []annotation.Annotation{annotation.MustParse("image.Point{X: 3}")}

	compiled, err := s.Compile(context.Background(), class)
	require.NoError(t, err)
	require.NotNil(t, compiled.Named())
	require.NotNil(t, compiled.Reflect())
	assert.Contains(t, string(compiled.Source), "type Order struct")

	emitted, err := s.Emit(class)
	require.NoError(t, err)

	assert.NotSame(t, compiled, emitted)
	assert.Equal(t, emitted.Reflect(), compiled.Reflect())
	assert.Equal(t, "Version", compiled.Reflect().Field(1).Name)

	again, err := s.Compile(context.Background(), class)
	require.NoError(t, err)
	assert.Same(t, compiled, again)
}

func TestReflectionOnlyInterface(t *testing.T) {
	t.Parallel()

	s := newSynth(t,
		synth.WithStrategy(synth.StrategyText),
		synth.WithLoadingMode(synth.LoadingReflectionOnly),
	)

	class := descriptor.Class{
		Name: "Contact",
		Properties: []descriptor.Property{
			descriptor.NewProperty("A", typeref.Basic("string")),
			descriptor.NewProperty("B", typeref.Basic("int")),
		},
	}.AsInterface()

	typ, err := s.Synthesize(context.Background(), class)
	require.NoError(t, err)

	assert.Nil(t, typ.Reflect())
	assert.Equal(t, synth.LoadingReflectionOnly, typ.Mode)
	assert.Equal(t, descriptor.DefaultPackage+".Contact", typ.Qualified())

	iface, ok := typ.Named().Underlying().(*types.Interface)
	require.True(t, ok)

	var methods []string
	for i := range iface.NumMethods() {
		methods = append(methods, iface.Method(i).Name())
	}

	assert.ElementsMatch(t, []string{"A", "SetA", "B", "SetB"}, methods)

	_, err = typ.New()
	require.ErrorIs(t, err, errdefs.ErrConstruction)
	assert.Equal(t, 0, typ.Properties().Len())
}

func TestCompileFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newSynth(t, synth.WithRejectedDir(dir))

	_, err := s.Compile(context.Background(), descriptor.Class{
		Name:    "Broken",
		Package: "example.com/broken",
		Properties: []descriptor.Property{
			descriptor.NewProperty("Value", typeref.MustParse("example.com/missing.Thing")),
		},
	})
	require.ErrorIs(t, err, errdefs.ErrCompilation)

	var ce *errdefs.CompilationError
	require.ErrorAs(t, err, &ce)
	assert.NotEmpty(t, ce.Diagnostics)

	rejected, err := os.ReadFile(filepath.Join(dir, "broken.rejected.go"))
	require.NoError(t, err)
	assert.Contains(t, string(rejected), "type Broken struct")
}

func TestConcurrentEmit(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	s := newSynth(t, synth.WithRegisterer(reg))

	const workers = 16

	var (
		wg  sync.WaitGroup
		out = make([]*synth.Type, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			typ, err := s.Emit(order())
			assert.NoError(t, err)

			out[i] = typ
		}()
	}

	wg.Wait()

	for _, typ := range out {
		assert.Same(t, out[0], typ)
	}

	m := s.Metrics()
	assert.InDelta(t, 1, testutil.ToFloat64(m.Misses.WithLabelValues("struct")), 0)
	assert.InDelta(t, workers-1, testutil.ToFloat64(m.Hits.WithLabelValues("struct")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Cached), 0)
	assert.Equal(t, 1, s.Cache().Len())

	// a second synthesizer adopts the collectors already in reg
	other, err := synth.New(synth.WithRegisterer(reg))
	require.NoError(t, err)
	assert.Same(t, m.Misses, other.Metrics().Misses)
}

func TestFailuresAreNotCached(t *testing.T) {
	t.Parallel()

	s := newSynth(t)

	class := descriptor.Class{
		Name:       "Late",
		Properties: []descriptor.Property{descriptor.NewProperty("At", typeref.MustParse("example.com/clock.Tick"))},
	}

	_, err := s.Emit(class)
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
	assert.InDelta(t, 1, testutil.ToFloat64(s.Metrics().Errors.WithLabelValues("struct")), 0)

	s.Universe().RegisterAs("example.com/clock.Tick", reflect.TypeFor[int64]())

	typ, err := s.Emit(class)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[int64](), typ.Reflect().Field(1).Type)
}

func TestParseStrategy(t *testing.T) {
	t.Parallel()

	strategy, err := synth.ParseStrategy("TEXT")
	require.NoError(t, err)
	assert.Equal(t, synth.StrategyText, strategy)

	mode, err := synth.ParseLoadingMode("reflection-only")
	require.NoError(t, err)
	assert.Equal(t, synth.LoadingReflectionOnly, mode)

	_, err = synth.ParseStrategy("jit")
	require.Error(t, err)
	assert.Equal(t, "Strategy(7)", synth.Strategy(7).String())
}

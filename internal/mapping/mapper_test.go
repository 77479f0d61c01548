package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/meta"
	"typeforge/override"
	"typeforge/props"
	"typeforge/synth"
)

func TestCatalogDrivesRegistry(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	s, err := synth.New(synth.WithUniverse(universe()))
	require.NoError(t, err)

	catalog, err := Catalog(s.Universe(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())

	r := override.NewRegistry(s, nil)
	require.NoError(t, r.Initialize(catalog, nil))

	it, err := r.InjectedType(reflect.TypeFor[Customer]())
	require.NoError(t, err)

	set := props.Of(it)
	assert.Equal(t, []string{"ID", "Name", "Segment"}, set.Names())

	name, _ := set.Lookup("Name")
	assert.Equal(t, "x=3", name.Tag.Get("point"))

	segment, _ := set.Lookup("Segment")
	assert.Equal(t, "y=4", segment.Tag.Get("point"))

	d, ok := meta.ReadHeader(it)
	require.True(t, ok)
	assert.Equal(t, []meta.Entry{{Key: "point", Value: "x=1,y=2"}}, d.Annotations)

	entries := r.Entries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Mappers, 1)

	fm, ok := entries[0].Mappers[0].(*FileMapper)
	require.True(t, ok)
	assert.Equal(t, "example.com/shop.Customer", fm.Definition().Type)
}

func TestCatalogUnknownType(t *testing.T) {
	t.Parallel()

	f := &File{Path: "shop.yaml", Overrides: []Override{{Type: "example.com/shop.Missing"}}}

	_, err := Catalog(universe(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop.yaml: override example.com/shop.Missing")

	_, err = NewMapper(Override{Type: "example.com/shop.Customer", Replace: "example.com/shop.Gone"}, universe())
	require.Error(t, err)
}

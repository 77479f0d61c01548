package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/annotation"
)

const shopYAML = `
version: "1"
package: example.com/shop
classes:
  - name: Order
    parents: [example.com/base.Entity]
    annotations:
      - "image.Point{X: 1, Y: 2}"
    properties:
      - name: Number
        type: string
        readOnly: true
      - name: Lines
        type: map[string][]int
  - name: Note
    package: example.com/notes
overrides:
  - type: example.com/shop.Customer
    properties:
      - name: Segment
        type: string
    propertyAnnotations:
      Name: "image.Point{X: 3}"
      Segment:
        - "image.Point{Y: 4}"
    annotations: "image.Point{X: 1, Y: 2}"
`

func ann(expr string) string {
	return annotation.MustParse(expr).String()
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Classes, 2)

	order := f.Classes[0]
	assert.Equal(t, "example.com/shop.Order", order.Qualified())
	assert.Equal(t, []string{"example.com/base.Entity"}, order.Parents)
	require.Len(t, order.Annotations, 1)
	assert.Equal(t, ann("image.Point{X: 1, Y: 2}"), order.Annotations[0].String())

	require.Len(t, order.Properties, 2)
	assert.True(t, order.Properties[0].ReadOnly)
	assert.Equal(t, "map[string][]int", order.Properties[1].Type.String())

	// an explicit package wins over the file default
	assert.Equal(t, "example.com/notes", f.Classes[1].Package)

	require.Len(t, f.Overrides, 1)
	o := f.Overrides[0]
	assert.Equal(t, "example.com/shop.Customer", o.Type)
	assert.Equal(t, []string{ann("image.Point{X: 1, Y: 2}")}, o.Annotations.Strings())

	require.Len(t, o.PropertyAnnotations, 2)
	assert.Equal(t, "Name", o.PropertyAnnotations[0].Name)
	assert.Equal(t, "Segment", o.PropertyAnnotations[1].Name)

	segment, ok := o.PropertyAnnotations.Lookup("Segment")
	require.True(t, ok)
	assert.Equal(t, []string{ann("image.Point{Y: 4}")}, segment.Strings())
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	data := `{
  "version": "1",
  "classes": [
    {"name": "Order", "package": "example.com/shop", "properties": [{"name": "Total", "type": "*float64"}]}
  ],
  "overrides": [
    {
      "type": "example.com/shop.Customer",
      "propertyAnnotations": {"Segment": "image.Point{Y: 4}", "Name": ["image.Point{X: 3}"]},
      "annotations": ["image.Point{X: 1}"]
    }
  ]
}`

	f, err := ParseJSON([]byte(data))
	require.NoError(t, err)

	require.Len(t, f.Classes, 1)
	assert.Equal(t, "*float64", f.Classes[0].Properties[0].Type.String())

	o := f.Overrides[0]
	require.Len(t, o.PropertyAnnotations, 2)
	assert.Equal(t, "Name", o.PropertyAnnotations[0].Name)
	assert.Equal(t, "Segment", o.PropertyAnnotations[1].Name)
	assert.Equal(t, []string{ann("image.Point{X: 1}")}, o.Annotations.Strings())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"version", `version: "2"`},
		{"annotation", "overrides:\n  - type: a.B\n    annotations: \"not an annotation(\"\n"},
		{"type", "classes:\n  - name: A\n    properties:\n      - name: X\n        type: \"map[\"\n"},
		{"property annotations", "overrides:\n  - type: a.B\n    propertyAnnotations: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
		})
	}

	_, err := Parse([]byte(`version: "2"`))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestGlobAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("shop/order.yaml", shopYAML)
	write("shop/nested/extra.json", `{"version": "1", "classes": [{"name": "Extra"}]}`)
	write("shop/readme.txt", "ignored")

	paths, err := Glob(dir, "**/*.yaml", "**/*.json", "shop/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "shop", "nested", "extra.json"),
		filepath.Join(dir, "shop", "order.yaml"),
	}, paths)

	files, err := LoadGlob(dir, "**/*.{yaml,json}")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, paths[0], files[0].Path)
	assert.Equal(t, "Extra", files[0].Classes[0].Name)

	_, err = Glob(dir, "**/*.toml")
	require.Error(t, err)

	_, err = Glob(dir, "[")
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteFile(f, path))

	back, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, back.Path)
	assert.Equal(t, f.Overrides[0].PropertyAnnotations[0].Name, back.Overrides[0].PropertyAnnotations[0].Name)
	assert.Equal(t, f.Overrides[0].Annotations.Strings(), back.Overrides[0].Annotations.Strings())
	assert.Equal(t, f.Classes[0].Properties[1].Type.String(), back.Classes[0].Properties[1].Type.String())
}

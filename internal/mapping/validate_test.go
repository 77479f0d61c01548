package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/diagnostic"
	"typeforge/synth"
)

type Customer struct {
	ID   int64
	Name string
}

func universe() *synth.Universe {
	u := synth.NewUniverse()
	u.RegisterAs("example.com/shop.Customer", reflect.TypeFor[Customer]())

	return u
}

func codes(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}

	return out
}

func TestValidate(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(`
package: example.com/shop
classes:
  - name: Order
    parents: [example.com/base.Entity]
    properties:
      - name: Buyer
        type: "*example.com/shop.Customer"
      - name: Invoice
        type: example.com/billing.Invoice
  - name: Order
  - name: lower
overrides:
  - type: example.com/shop.Custmer
  - type: example.com/shop.Customer
    properties:
      - name: Order
        type: example.com/shop.Order
  - type: example.com/shop.Customer
    replace: example.com/shop.Gone
`))
	require.NoError(t, err)

	res := Validate(f, universe())

	assert.Equal(t, []string{"duplicate_class", "invalid_class", "unknown_type", "unknown_replacement"}, codes(res.Errors))
	assert.Equal(t, []string{"unresolved_parent", "unresolved_type"}, codes(res.Warnings))
	assert.Equal(t, []string{"merged_override"}, codes(res.Infos))

	unknown := res.Errors[2]
	assert.Equal(t, "example.com/shop.Custmer", unknown.Subject)
	assert.Contains(t, unknown.Suggestions, "example.com/shop.Customer")
}

func TestValidateClean(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(shopYAML))
	require.NoError(t, err)

	u := universe()
	u.RegisterAs("example.com/base.Entity", reflect.TypeFor[Customer]())

	res := Validate(f, u)
	assert.True(t, res.IsValid(), "%v", res.Error())
	assert.Empty(t, res.Warnings)

	assert.False(t, Validate(nil, u).IsValid())
}

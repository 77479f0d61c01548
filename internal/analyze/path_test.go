package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypePath(t *testing.T) {
	t.Parallel()

	order := NewTypePath("Order")
	items := order.Field("Items")

	assert.Equal(t, "Order", order.String())
	assert.Equal(t, "Order.Items", items.String())
	assert.Equal(t, "Order.Items[]", items.Slice().String())
	assert.Equal(t, "Order.Items[].ProductID", items.Slice().Field("ProductID").String())
	assert.Equal(t, "Customer.*Address", NewTypePath("Customer").Field("Address").Pointer().String())

	// deriving does not touch the parent
	assert.Equal(t, "Order.Items", items.String())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	analyzer := NewAnalyzer()
	analyzer.AddPackage(checkShapes(t))

	shape, err := analyzer.GetStruct("example.com/shapes", "Shape")
	require.NoError(t, err)

	assert.Equal(t, "Shape", Describe(shape))
	assert.Equal(t, "[]string", Describe(field(t, shape, "Tags").Type))
	assert.Equal(t, "map[string]*int", Describe(field(t, shape, "Extra").Type))
	assert.Equal(t, "[4]byte", Describe(field(t, shape, "Corners").Type))
	assert.Equal(t, "Status", Describe(field(t, shape, "State").Type))
	assert.Equal(t, "Stringer", Describe(field(t, shape, "Stringer").Type))
	assert.Equal(t, "<nil>", Describe(nil))
}

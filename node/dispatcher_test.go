package node_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"typeforge/node"
)

type point struct{ X, Y int }

type vector struct{ X, Y float64 }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst reflect.Type
		want     node.DispatcherEnum
		depth    [2]int
	}{
		{"primitive", reflect.TypeFor[int](), reflect.TypeFor[string](), node.DispatcherPrimitive, [2]int{}},
		{"time", reflect.TypeFor[string](), reflect.TypeFor[*time.Time](), node.DispatcherPrimitive, [2]int{0, 1}},
		{"struct", reflect.TypeFor[**point](), reflect.TypeFor[vector](), node.DispatcherStruct, [2]int{2, 0}},
		{"slice from array", reflect.TypeFor[[3]int](), reflect.TypeFor[[]int](), node.DispatcherSlice, [2]int{}},
		{"map", reflect.TypeFor[map[string]int](), reflect.TypeFor[map[string]string](), node.DispatcherMap, [2]int{}},
		{"interface", reflect.TypeFor[point](), reflect.TypeFor[any](), node.DispatcherInterface, [2]int{}},
		{"struct to int", reflect.TypeFor[point](), reflect.TypeFor[int](), node.DispatcherUnknown, [2]int{}},
		{"slice to map", reflect.TypeFor[[]int](), reflect.TypeFor[map[int]int](), node.DispatcherUnknown, [2]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			route := node.Classify(tt.src, tt.dst)
			assert.Equal(t, tt.want, route.Kind, route.Kind.String())
			assert.Equal(t, tt.depth, [2]int{route.SrcDepth, route.DstDepth})
		})
	}
}

func TestStructPairs(t *testing.T) {
	t.Parallel()

	pairs := node.StructPairs(reflect.TypeFor[map[point][]*point](), reflect.TypeFor[map[vector][]vector]())
	assert.Equal(t, []node.StructPair{
		{Src: reflect.TypeFor[point](), Dst: reflect.TypeFor[vector]()},
		{Src: reflect.TypeFor[point](), Dst: reflect.TypeFor[vector]()},
	}, pairs)

	assert.Empty(t, node.StructPairs(reflect.TypeFor[int](), reflect.TypeFor[int]()))
	assert.Equal(t, "typeforge/node_test.point -> typeforge/node_test.vector", pairs[0].String())
}

func TestDealerDrain(t *testing.T) {
	t.Parallel()

	var d node.Dealer
	d.Needs(reflect.TypeFor[point](), reflect.TypeFor[vector]())

	visits := 0
	dealt := d.Drain(func(src, dst reflect.Type) []node.StructPair {
		visits++
		// a self-referencing graph must terminate
		return []node.StructPair{{Src: src, Dst: dst}}
	})

	assert.Equal(t, 1, dealt)
	assert.Equal(t, 1, visits)
}

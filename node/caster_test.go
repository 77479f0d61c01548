package node_test

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/node"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleCaster() {
	desc, err := node.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = node.ParseCaster(empty)
	fmt.Println(err)

	_, err = node.ParseCaster(wrong)
	fmt.Println(err)

	// Output:
	// <nil> node_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> node_test customError int string false true
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
}

func TestCasterCall(t *testing.T) {
	t.Parallel()

	atoi, err := node.ParseCaster(strconv.Atoi)
	require.NoError(t, err)
	assert.True(t, atoi.Accepts(reflect.TypeFor[string](), reflect.TypeFor[int]()))
	assert.False(t, atoi.Accepts(reflect.TypeFor[int](), reflect.TypeFor[int]()))

	out, ok, err := atoi.Call(reflect.ValueOf("12"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12, out.Interface())

	_, ok, err = atoi.Call(reflect.ValueOf("x"))
	require.Error(t, err)
	assert.False(t, ok)

	positive, err := node.ParseCaster(func(i int) (uint, bool) { return uint(i), i >= 0 })
	require.NoError(t, err)

	_, ok, err = positive.Call(reflect.ValueOf(-1))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = node.ParseCasters(strconv.Itoa, 42)
	require.ErrorIs(t, err, node.ErrCasterIsNotAFunction)
}

package synth_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeforge/errdefs"
	"typeforge/synth"
	"typeforge/typeref"
)

func TestUniverseResolve(t *testing.T) {
	t.Parallel()

	u := synth.NewUniverse(reflect.TypeFor[Entity]())

	tests := []struct {
		expr string
		want reflect.Type
	}{
		{expr: "int", want: reflect.TypeFor[int]()},
		{expr: "*time.Time", want: reflect.TypeFor[*time.Time]()},
		{expr: "map[string][]time.Duration", want: reflect.TypeFor[map[string][]time.Duration]()},
		{expr: "[4]fmt.Stringer", want: reflect.TypeFor[[4]fmt.Stringer]()},
		{expr: "[]typeforge/synth_test.Entity", want: reflect.TypeFor[[]Entity]()},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			got, err := u.Resolve(typeref.MustParse(tt.expr))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := u.Resolve(typeref.MustParse("example.com/x.Unknown"))
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)

	attached, err := u.Resolve(typeref.For[chan int]())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[chan int](), attached)
}

func TestUniverseKeys(t *testing.T) {
	t.Parallel()

	u := synth.NewUniverse()
	assert.Contains(t, u.Names(), "time.Time")
	assert.Contains(t, u.Names(), "github.com/google/uuid.UUID")

	assert.Equal(t, "time.Duration", synth.Key(reflect.TypeFor[time.Duration]()))
	assert.Empty(t, synth.Key(reflect.TypeFor[[]int]()))
	assert.Empty(t, synth.Key(nil))

	u.Register(reflect.TypeFor[[]int]())
	assert.NotContains(t, u.Names(), "[]int")
}

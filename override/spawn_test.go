package override_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"typeforge/errdefs"
	"typeforge/inject"
	"typeforge/override"
	"typeforge/props"
	"typeforge/typeref"
)

type recorder struct {
	name      string
	instances []any
}

func (r *recorder) Inject(instance any) error {
	r.instances = append(r.instances, instance)
	return nil
}

type Clock struct{ Zone string }

type Service struct {
	Clock *Clock `inject:""`
	Name  string
}

type serviceMapper struct {
	override.For[Service]
}

func (serviceMapper) Configure(m *override.Mapping) error {
	m.AddProperty("Region", typeref.Basic("string"))
	m.OnSpawn(func(instance any) (any, error) {
		v := reflect.ValueOf(instance).Elem()
		v.FieldByName("Name").SetString("spawned")

		return instance, nil
	})

	return nil
}

func TestSpawnRunsHooksAndInjector(t *testing.T) {
	t.Parallel()

	c := dig.New()
	require.NoError(t, c.Provide(func() *Clock { return &Clock{Zone: "UTC"} }))

	r := newRegistry(t)
	require.NoError(t, r.Initialize(nil, inject.NewDig(c)))
	require.NoError(t, r.Merge(serviceMapper{}))

	instance, err := r.Spawn(reflect.TypeFor[*Service]())
	require.NoError(t, err)

	v := reflect.ValueOf(instance)
	require.Equal(t, reflect.Pointer, v.Kind())
	assert.Equal(t, []string{"Clock", "Name", "Region"}, props.Of(v.Type()).Names())
	assert.Equal(t, "spawned", v.Elem().FieldByName("Name").String())

	clock, ok := v.Elem().FieldByName("Clock").Interface().(*Clock)
	require.True(t, ok)
	assert.Equal(t, "UTC", clock.Zone)
}

func TestSpawnConstruction(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	_, err := r.Spawn(reflect.TypeFor[fmt.Stringer]())
	require.ErrorIs(t, err, errdefs.ErrConstruction)

	var ce *errdefs.ConstructionError
	require.ErrorAs(t, err, &ce)

	instance, err := r.Spawn(reflect.TypeFor[Customer]())
	require.NoError(t, err)
	assert.IsType(t, &Customer{}, instance)
}

func TestInjectCopiesObject(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, &addProperty[Customer]{name: "Segment", typ: typeref.Basic("string")})

	out, err := r.Inject(&Customer{ID: 7, Name: "Ada"})
	require.NoError(t, err)

	set := props.Of(reflect.TypeOf(out))
	v := reflect.ValueOf(out)

	id, _ := set.Lookup("ID")
	name, _ := set.Lookup("Name")
	segment, ok := set.Lookup("Segment")
	require.True(t, ok)

	assert.Equal(t, int64(7), id.Get(v).Int())
	assert.Equal(t, "Ada", name.Get(v).String())
	assert.Empty(t, segment.Get(v).String())

	_, err = r.Inject(nil)
	require.ErrorIs(t, err, errdefs.ErrUnsupportedDescription)
}

func TestWithProperty(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)

	out, err := r.WithProperty(Customer{ID: 3}, "Tags", typeref.MustParse("[]string"))
	require.NoError(t, err)

	set := props.Of(reflect.TypeOf(out))
	assert.Equal(t, []string{"ID", "Name", "Tags"}, set.Names())

	id, _ := set.Lookup("ID")
	assert.Equal(t, int64(3), id.Get(reflect.ValueOf(out)).Int())

	assert.False(t, r.HasOverride(reflect.TypeFor[Customer]()))

	_, err = r.WithProperty(Customer{}, "tags", typeref.Basic("string"))
	require.Error(t, err)
}

type auditor struct {
	override.For[Customer]
	models  []any
	actions []string
	fail    bool
}

func (a *auditor) Configure(*override.Mapping) error { return nil }

func (a *auditor) HandleAction(model any, action string, _ any) error {
	if a.fail {
		return errors.New("rejected")
	}

	a.models = append(a.models, model)
	a.actions = append(a.actions, action)

	return nil
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	a := &auditor{}
	r := newRegistry(t, a)

	require.NoError(t, r.Dispatch(&Customer{ID: 9}, "save", nil))
	require.Len(t, a.models, 1)
	assert.Equal(t, &Customer{ID: 9}, a.models[0])
	assert.Equal(t, []string{"save"}, a.actions)

	err := r.Dispatch(&Base{}, "save", nil)
	require.ErrorIs(t, err, override.ErrNoOverride)

	a.fail = true
	require.EqualError(t, r.Dispatch(Customer{}, "delete", nil), `dispatching "delete" to *override_test.auditor: rejected`)
}

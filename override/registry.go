package override

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"typeforge/copier"
	"typeforge/internal/match"
	"typeforge/synth"
)

// Registry maps original types to their merged override entries.
type Registry struct {
	synth  *synth.Synthesizer
	copier *copier.Engine
	logger zerolog.Logger

	mu          sync.RWMutex
	entries     map[reflect.Type]*Entry
	order       []reflect.Type
	initialized bool
	injector    Injector
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry returns an empty registry layering types with s and
// populating instances with c. A nil c uses a new copy engine.
func NewRegistry(s *synth.Synthesizer, c *copier.Engine, opts ...Option) *Registry {
	if c == nil {
		c = copier.New()
	}

	r := &Registry{
		synth:   s,
		copier:  c,
		logger:  zerolog.Nop(),
		entries: map[reflect.Type]*Entry{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type notification struct {
	mapper   InjectorAware
	injector Injector
}

// Initialize builds the table from catalog on the first call. Factories
// reporting ErrNoDefaultConstructor are skipped. Later calls do not rescan
// the catalog: they hand injector to every entry that has a different one.
// Mappers implementing InjectorAware are notified whenever their entry
// receives a non-nil injector.
func (r *Registry) Initialize(catalog *Catalog, injector Injector) error {
	notify, err := r.initialize(catalog, injector)
	if err != nil {
		return err
	}

	for _, n := range notify {
		n.mapper.OnInjectorLoaded(n.injector)
	}

	return nil
}

func (r *Registry) initialize(catalog *Catalog, injector Injector) ([]notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		if err := r.mergeCatalog(catalog); err != nil {
			return nil, err
		}

		r.initialized = true

		r.logger.Debug().
			Int("entries", len(r.entries)).
			Int("factories", catalog.Len()).
			Msg("override registry initialized")
	}

	r.injector = injector

	var notify []notification

	for _, t := range r.order {
		e := r.entries[t]
		if e.Injector == injector {
			continue
		}

		e.Injector = injector
		notify = append(notify, notifications(e.Mappers, injector)...)
	}

	return notify, nil
}

// mergeCatalog merges every factory's mapper or none of them: on a failure
// the table is restored so that a retry merges each mapper once.
func (r *Registry) mergeCatalog(catalog *Catalog) error {
	if catalog == nil {
		return nil
	}

	entries := make(map[reflect.Type]*Entry, len(r.entries))
	for t, e := range r.entries {
		entries[t] = e.clone()
	}

	order := slices.Clone(r.order)

	for i, factory := range catalog.factories {
		m, err := factory()
		if errors.Is(err, ErrNoDefaultConstructor) {
			r.logger.Debug().Int("factory", i).Msg("mapper skipped: no default constructor")
			continue
		}

		if err == nil {
			err = r.merge(m)
		} else {
			err = fmt.Errorf("mapper factory %d: %w", i, err)
		}

		if err != nil {
			r.entries, r.order = entries, order
			return err
		}
	}

	return nil
}

func notifications(mappers []Mapper, injector Injector) []notification {
	if injector == nil {
		return nil
	}

	var out []notification

	for _, m := range mappers {
		if aware, ok := m.(InjectorAware); ok {
			out = append(out, notification{mapper: aware, injector: injector})
		}
	}

	return out
}

// Initialized reports whether Initialize has run.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.initialized
}

// Merge adds m to the entry of its original type, creating the entry if
// needed. Once the registry holds an injector, the entry receives it.
func (r *Registry) Merge(m Mapper) error {
	r.mu.Lock()

	if err := r.merge(m); err != nil {
		r.mu.Unlock()
		return err
	}

	var notify []notification

	if r.injector != nil {
		e := r.entries[original(m)]
		e.Injector = r.injector
		notify = notifications([]Mapper{m}, r.injector)
	}

	r.mu.Unlock()

	for _, n := range notify {
		n.mapper.OnInjectorLoaded(n.injector)
	}

	return nil
}

func original(m Mapper) reflect.Type {
	t := m.Original()
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func (r *Registry) merge(m Mapper) error {
	if m == nil {
		return ErrNoOriginal
	}

	t := original(m)
	if t == nil {
		return fmt.Errorf("%T: %w", m, ErrNoOriginal)
	}

	mapping := newMapping(t)
	if err := m.Configure(mapping); err != nil {
		return fmt.Errorf("configuring %T for %s: %w", m, t, err)
	}

	if err := mapping.Err(); err != nil {
		return fmt.Errorf("configuring %T for %s: %w", m, t, err)
	}

	e, ok := r.entries[t]
	if !ok {
		e = &Entry{Original: t}
		r.entries[t] = e
		r.order = append(r.order, t)
	}

	for _, c := range e.merge(m, mapping) {
		ev := r.logger.Warn().
			Str("type", t.String()).
			Str("property", c.name).
			Str("kept", c.kept.String()).
			Str("ignored", c.lost.String())

		kept, okKept := c.kept.Reflect()
		lost, okLost := c.lost.Reflect()

		if okKept && okLost {
			ev = ev.Stringer("compatibility", match.ScoreTypeCompatibility(lost, kept).Compatibility)
		}

		ev.Msg("property added twice with different types, keeping the first")
	}

	r.logger.Debug().
		Str("type", t.String()).
		Str("mapper", fmt.Sprintf("%T", m)).
		Int("properties", len(e.Properties)).
		Msg("mapper merged")

	return nil
}

// Lookup returns a snapshot of the entry applying to t and whether it was
// registered for t itself.
func (r *Registry) Lookup(t reflect.Type) (entry Entry, exact, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exact := r.lookup(t)
	if e == nil {
		return Entry{}, false, false
	}

	return *e.clone(), exact, true
}

// HasOverride reports whether any entry applies to t.
func (r *Registry) HasOverride(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, _ := r.lookup(t)

	return e != nil
}

// Entries returns snapshots of all entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, *r.entries[t].clone())
	}

	return out
}

// lookup finds the entry for t: an exact match, then registered interfaces
// implemented by t or *t in registration order, then embedded structs
// breadth first in declaration order.
func (r *Registry) lookup(t reflect.Type) (*Entry, bool) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil {
		return nil, false
	}

	if e, ok := r.entries[t]; ok {
		return e, true
	}

	ptr := reflect.PointerTo(t)

	for _, o := range r.order {
		if o.Kind() != reflect.Interface {
			continue
		}

		if t.Implements(o) || ptr.Implements(o) {
			return r.entries[o], false
		}
	}

	if t.Kind() != reflect.Struct {
		return nil, false
	}

	seen := map[reflect.Type]bool{t: true}
	queue := embedded(t)

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if seen[next] {
			continue
		}

		seen[next] = true

		if e, ok := r.entries[next]; ok {
			return e, false
		}

		queue = append(queue, embedded(next)...)
	}

	return nil, false
}

// embedded returns the struct types t embeds, pointers dereferenced.
func embedded(t reflect.Type) []reflect.Type {
	var out []reflect.Type

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if ft.Kind() == reflect.Struct {
			out = append(out, ft)
		}
	}

	return out
}

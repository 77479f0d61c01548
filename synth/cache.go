package synth

import (
	"reflect"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes synthesis results by canonical key. Concurrent requests for
// one key share a single build; failed builds are not remembered.
type Cache[V any] struct {
	metrics *Metrics
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]V
}

// NewCache creates an empty cache reporting to m, which may be nil.
func NewCache[V any](m *Metrics) *Cache[V] {
	return &Cache[V]{metrics: m, entries: map[string]V{}}
}

// Get returns the value cached under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]

	return v, ok
}

// Len returns the number of cached values.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Do returns the value cached under key, calling build at most once per key
// to produce it. kind and strategy label the metrics. The boolean reports a
// cache hit.
func (c *Cache[V]) Do(key, kind, strategy string, build func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		c.observeHit(kind)
		return v, true, nil
	}

	built := false

	res, err, _ := c.group.Do(key, func() (any, error) {
		// a concurrent flight may have finished between Get and Do
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		built = true
		start := time.Now()

		v, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = v
		n := len(c.entries)
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.Duration.WithLabelValues(kind, strategy).Observe(time.Since(start).Seconds())
			c.metrics.Cached.Set(float64(n))
		}

		return v, nil
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.Errors.WithLabelValues(kind).Inc()
		}

		var zero V

		return zero, false, err
	}

	if built {
		if c.metrics != nil {
			c.metrics.Misses.WithLabelValues(kind).Inc()
		}
	} else {
		c.observeHit(kind)
	}

	return res.(V), !built, nil
}

func (c *Cache[V]) observeHit(kind string) {
	if c.metrics != nil {
		c.metrics.Hits.WithLabelValues(kind).Inc()
	}
}

// typeIDs hands out stable small identifiers for reflect types, used in
// layering keys where the type itself has no canonical name.
type typeIDs struct {
	mu  sync.Mutex
	ids map[reflect.Type]uint64
}

func (t *typeIDs) key(rt reflect.Type) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ids == nil {
		t.ids = map[reflect.Type]uint64{}
	}

	id, ok := t.ids[rt]
	if !ok {
		id = uint64(len(t.ids)) + 1
		t.ids[rt] = id
	}

	return strconv.FormatUint(id, 10)
}

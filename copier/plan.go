package copier

import (
	"reflect"

	"typeforge/node"
	"typeforge/options"
	"typeforge/props"
)

type planKey struct {
	src, dst reflect.Type
	private  bool
	fresh    bool
}

type fieldPair struct {
	src, dst props.Property
}

// plan is the matched property list of a struct pair: readable source
// properties with a same-named assignable target property.
type plan struct {
	fields []fieldPair
}

func (e *Engine) plan(src, dst reflect.Type, private, fresh bool) *plan {
	key := planKey{src: src, dst: dst, private: private, fresh: fresh}
	if cached, ok := e.plans.Load(key); ok {
		return cached.(*plan)
	}

	p := &plan{}
	targets := props.Of(dst)

	for _, sp := range props.Of(src).All() {
		if !sp.Exported && !private {
			continue
		}

		tp, ok := targets.Lookup(sp.Name)
		if !ok {
			continue
		}

		// a fresh instance is being populated, so read-only targets are set too
		if fresh {
			if !tp.Exported && !private {
				continue
			}
		} else if !tp.CanWrite(private) {
			continue
		}

		p.fields = append(p.fields, fieldPair{src: sp, dst: tp})
	}

	actual, _ := e.plans.LoadOrStore(key, p)

	return actual.(*plan)
}

// Prepare builds and caches the copy plans of every struct pair reachable
// from src and dst and returns how many pairs it visited.
func (e *Engine) Prepare(src, dst reflect.Type, opts ...options.Option) int {
	cfg := options.New(opts...)

	var d node.Dealer
	for _, pair := range node.StructPairs(src, dst) {
		d.Needs(pair.Src, pair.Dst)
	}

	return d.Drain(func(s, t reflect.Type) []node.StructPair {
		var next []node.StructPair

		for _, fresh := range []bool{false, true} {
			for _, f := range e.plan(s, t, cfg.IncludePrivate, fresh).fields {
				next = append(next, node.StructPairs(f.src.Type, f.dst.Type)...)
			}
		}

		return next
	})
}

// Prepare warms the shared engine.
func Prepare(src, dst reflect.Type, opts ...options.Option) int {
	return std.Prepare(src, dst, opts...)
}

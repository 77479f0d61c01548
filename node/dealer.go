package node

import "reflect"

// StructPair is a source and target struct type a copy descends into.
type StructPair struct{ Src, Dst reflect.Type }

func (p StructPair) String() string {
	return TypeString(p.Src) + " -> " + TypeString(p.Dst)
}

// Dealer hands out struct pairs in the order they were first needed, each
// pair at most once. The zero value is ready to use.
type Dealer struct {
	queue []StructPair
	seen  map[StructPair]struct{}
}

// Needs queues the pair unless it was queued or dealt before.
func (d *Dealer) Needs(src, dst reflect.Type) {
	pair := StructPair{Src: src, Dst: dst}
	if _, ok := d.seen[pair]; ok {
		return
	}

	if d.seen == nil {
		d.seen = map[StructPair]struct{}{}
	}

	d.seen[pair] = struct{}{}
	d.queue = append(d.queue, pair)
}

// NextNeeds dequeues the oldest pending pair.
func (d *Dealer) NextNeeds() (src, dst reflect.Type, ok bool) {
	if len(d.queue) == 0 {
		return nil, nil, false
	}

	pair := d.queue[0]
	d.queue = d.queue[1:]

	return pair.Src, pair.Dst, true
}

// Pending returns the number of queued pairs.
func (d *Dealer) Pending() int {
	return len(d.queue)
}

// Drain deals pairs until none are left. visit returns the pairs the
// visited one depends on.
func (d *Dealer) Drain(visit func(src, dst reflect.Type) []StructPair) int {
	dealt := 0

	for src, dst, ok := d.NextNeeds(); ok; src, dst, ok = d.NextNeeds() {
		dealt++

		for _, next := range visit(src, dst) {
			d.Needs(next.Src, next.Dst)
		}
	}

	return dealt
}

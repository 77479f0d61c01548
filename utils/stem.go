package utils

import "strconv"

// Stem hands out names made of a fixed prefix and a counter: unit1, unit2...
// Names the taken predicate reports as used are skipped. A Stem is not safe
// for concurrent use.
type Stem struct {
	prefix string
	taken  func(string) bool
	seen   map[string]struct{}
	n      int
}

// NewStem creates a Stem. A nil taken treats every name as free.
func NewStem(prefix string, taken func(string) bool) *Stem {
	return &Stem{prefix: prefix, taken: taken, seen: map[string]struct{}{}}
}

// Next returns a name neither handed out before nor taken.
func (s *Stem) Next() string {
	for {
		s.n++

		name := s.prefix + strconv.Itoa(s.n)
		if _, ok := s.seen[name]; ok {
			continue
		}

		if s.taken != nil && s.taken(name) {
			continue
		}

		s.seen[name] = struct{}{}

		return name
	}
}

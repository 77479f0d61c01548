package descriptor

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Normalize validates c and returns its canonical copy: a random name when
// none is set, DefaultPackage when no package is set, parents and imports
// sorted and de-duplicated. Property order is kept since it is the field
// order of the emitted struct.
func (c Class) Normalize() (Class, error) {
	if err := c.Validate(); err != nil {
		return Class{}, err
	}

	n := c.Clone()
	if n.Name == "" {
		n.Name = RandomName()
	}

	if n.Package == "" {
		n.Package = DefaultPackage
	}

	n.Parents = sortedSet(n.Parents)
	n.Imports = sortedSet(n.Imports)

	return n, nil
}

func sortedSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}

	out := slices.Clone(in)
	slices.Sort(out)

	return slices.Compact(out)
}

// RandomName returns a 32 letter exported identifier drawn from a random UUID.
func RandomName() string {
	id := uuid.New()

	var b strings.Builder
	b.Grow(2 * len(id))

	for _, x := range id {
		b.WriteByte('a' + x>>4)
		b.WriteByte('a' + x&0x0f)
	}

	name := []byte(b.String())
	name[0] -= 'a' - 'A'

	return string(name)
}

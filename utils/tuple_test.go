package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"typeforge/utils"
)

func TestUnpack2(t *testing.T) {
	t.Parallel()

	a, b := utils.Unpack2([]string{"pkg", "Func", "rest"})
	assert.Equal(t, "pkg", a)
	assert.Equal(t, "Func", b)

	a, b = utils.Unpack2([]string{"only"})
	assert.Equal(t, "only", a)
	assert.Empty(t, b)

	a, b = utils.Unpack2[[]string](nil)
	assert.Empty(t, a)
	assert.Empty(t, b)
}

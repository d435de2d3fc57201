package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntnStaysInRange(t *testing.T) {
	r := New()
	for range 500 {
		v := r.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestIntnNonPositive(t *testing.T) {
	assert.Equal(t, 0, New().Intn(0))
	assert.Equal(t, 0, New().Intn(-3))
}

func TestStringUsesAlphabet(t *testing.T) {
	s := New().String(40, AddressAlphabet)
	assert.Len(t, s, 40)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(AddressAlphabet, c), "unexpected rune %q", c)
	}
}

func TestStringEmptyInputs(t *testing.T) {
	assert.Empty(t, New().String(0, AddressAlphabet))
	assert.Empty(t, New().String(10, ""))
}

package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 100; i++ {
		key := g.Generate()
		assert.Len(t, key, DefaultLength)
		for _, r := range key {
			assert.True(t, strings.ContainsRune(DefaultAlphabet, r), "unexpected character %q in key %q", r, key)
		}
	}
}

func TestGenerateCustomLength(t *testing.T) {
	g := Generator{Length: 12, Alphabet: "ab"}
	key := g.Generate()
	assert.Len(t, key, 12)
	for _, r := range key {
		assert.Contains(t, "ab", string(r))
	}
}

func TestGenerateZeroValueFallsBackToDefaults(t *testing.T) {
	key := Generator{}.Generate()
	assert.Len(t, key, DefaultLength)
}

func TestGenerateVaries(t *testing.T) {
	// statistical: 20 independent 6-character draws from a 62-character
	// alphabet collide with negligible probability
	g := NewGenerator()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[g.Generate()] = true
	}
	assert.Greater(t, len(seen), 1)
}

// Package secret generates the shared gate keys. Keys are short codes
// relayed to players out of band (chat group, web page), so the generator
// aims for readability and uniformity, not cryptographic strength. Do not
// use it for security-critical secrets.
package secret

import "github.com/hotwindlibs/keyauth/internal/rng"

const (
	// DefaultLength is the number of characters players are asked to type.
	DefaultLength = 6

	// DefaultAlphabet is the 62-character alphanumeric set.
	DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type Generator struct {
	Length   int
	Alphabet string
}

func NewGenerator() Generator {
	return Generator{
		Length:   DefaultLength,
		Alphabet: DefaultAlphabet,
	}
}

// Generate draws Length characters independently and uniformly from
// Alphabet. Zero values fall back to the defaults.
func (g Generator) Generate() string {
	length, alphabet := g.Length, g.Alphabet
	if length <= 0 {
		length = DefaultLength
	}
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}

	key := make([]byte, length)
	for i := range key {
		key[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(key)
}

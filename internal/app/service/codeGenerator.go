// Package service provides URL shortening, management and resolution.
package service

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// DefaultCodeLength is the number of characters in a generated short code.
const DefaultCodeLength = 6

// alphabet holds the Base62 symbols (0-9, a-z, A-Z) codes are drawn from.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeGenerator produces random fixed-length short codes.
// It makes no uniqueness promise: callers check the store for collisions.
type CodeGenerator struct {
	length int      // The number of characters in each code.
	max    *big.Int // Alphabet size, the exclusive upper bound for each draw.
}

// NewCodeGenerator creates a generator for codes of the given length.
// A non-positive length falls back to DefaultCodeLength.
func NewCodeGenerator(length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{
		length: length,
		max:    big.NewInt(int64(len(alphabet))),
	}
}

// Generate draws every character independently and uniformly from the
// alphabet using the operating system's secure random source.
func (g *CodeGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, g.max)
		if err != nil {
			return "", errors.Wrap(err, "read random source failed")
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

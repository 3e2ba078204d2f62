package slug

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed size of every generated slug.
const Length = 8

// Generator produces random fixed-length slugs from a 62-character
// alphanumeric alphabet. It keeps no state between calls and is safe
// for concurrent use. Slugs are not guaranteed unique; the registry
// retries on collision.
type Generator struct{}

// New returns a slug generator backed by crypto/rand.
func New() Generator {
	return Generator{}
}

// Next returns a fresh random slug, each character drawn uniformly
// from the alphabet.
func (Generator) Next() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether s looks like a slug this generator could have
// produced: exactly Length alphanumeric characters.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, c := range []byte(s) {
		if !isAlphanumeric(c) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

package id

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const defaultTokenIDBytes = 16

// Generator creates opaque identifiers for issued tokens.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator encodes crypto/rand bytes as unpadded base64url so the
// result can sit in a JWT claim without escaping.
type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: defaultTokenIDBytes}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = defaultTokenIDBytes
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

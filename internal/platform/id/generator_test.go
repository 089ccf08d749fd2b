package id

import (
	"encoding/base64"
	"testing"
)

func TestRandomGeneratorProducesDistinctTokenIDs(t *testing.T) {
	g := NewRandomGenerator()

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(first)
	if err != nil {
		t.Fatalf("expected base64url id, got %q: %v", first, err)
	}
	if len(raw) != defaultTokenIDBytes {
		t.Fatalf("expected %d random bytes, got %d", defaultTokenIDBytes, len(raw))
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
}

func TestZeroValueGeneratorFallsBackToDefaultSize(t *testing.T) {
	var g RandomGenerator
	got, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != base64.RawURLEncoding.EncodedLen(defaultTokenIDBytes) {
		t.Fatalf("unexpected id length %d", len(got))
	}
}

package variants

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestShortCodeGeneratorDeterministic(t *testing.T) {
	gen := NewShortCodeGenerator(0)
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")

	first := gen(id, 0)
	if len(first) != DefaultShortCodeLength {
		t.Fatalf("expected length %d, got %d (%q)", DefaultShortCodeLength, len(first), first)
	}
	if again := gen(id, 0); again != first {
		t.Fatalf("expected deterministic code, got %q then %q", first, again)
	}
	if next := gen(id, 1); next == first {
		t.Fatalf("expected a new code on retry, got %q twice", next)
	}
	if !regexp.MustCompile(`^[0-9A-Za-z]+$`).MatchString(first) {
		t.Fatalf("expected base62 code, got %q", first)
	}
}

func TestShortCodeGeneratorClampsLength(t *testing.T) {
	code := NewShortCodeGenerator(100)(uuid.New(), 0)
	if len(code) != maxShortCodeLength {
		t.Fatalf("expected clamp to %d, got %d", maxShortCodeLength, len(code))
	}
}

func TestEncodeBase62(t *testing.T) {
	if got := encodeBase62([]byte{0}, 3); got != "000" {
		t.Fatalf("expected zero padding, got %q", got)
	}
	if got := encodeBase62([]byte{62}, 2); got != "01" {
		t.Fatalf("expected 62 to encode as 01 little-end first, got %q", got)
	}
}

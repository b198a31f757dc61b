package utils

import (
	"regexp"
	"testing"
)

func TestGenerateBookingReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateBookingReference()
		if !pattern.MatchString(ref) {
			t.Fatalf("reference %q does not match expected format", ref)
		}
		seen[ref] = true
	}

	// 100 draws from a 36^8 space should never collide
	if len(seen) < 100 {
		t.Fatalf("expected 100 distinct references, got %d", len(seen))
	}
}

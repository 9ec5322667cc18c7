package util

import (
	"strings"
	"testing"
)

func TestGenerateRandomUpperAlphaNumeric(t *testing.T) {
	const chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for _, length := range []int{1, 5, 16, 64} {
		s := GenerateRandomUpperAlphaNumeric(length)
		if len(s) != length {
			t.Errorf("expected length %d, got %d", length, len(s))
		}
		for _, c := range s {
			if !strings.ContainsRune(chars, c) {
				t.Errorf("unexpected character %q in %q", c, s)
			}
		}
	}
}

func TestGenerateRandomUpperAlphaNumericZeroLength(t *testing.T) {
	if s := GenerateRandomUpperAlphaNumeric(0); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
	if s := GenerateRandomUpperAlphaNumeric(-3); s != "" {
		t.Errorf("expected empty string for negative length, got %q", s)
	}
}

func TestGenerateRecordSuffix(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := GenerateRecordSuffix()
		if len(s) != RecordSuffixLength {
			t.Fatalf("expected suffix length %d, got %q", RecordSuffixLength, s)
		}
		seen[s] = true
	}
	// 36^5 space; 100 draws colliding down to a handful would mean a broken RNG.
	if len(seen) < 90 {
		t.Errorf("suspiciously many collisions: %d unique of 100", len(seen))
	}
}

package slug

import (
	"strings"
	"sync"
	"testing"
)

func TestNextLength(t *testing.T) {
	gen := New()
	for i := 0; i < 50; i++ {
		s, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if len(s) != Length {
			t.Errorf("Next() = %q (len=%d); want length %d", s, len(s), Length)
		}
	}
}

func TestNextAlphabet(t *testing.T) {
	gen := New()
	for i := 0; i < 50; i++ {
		s, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		for _, c := range s {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("Next() = %q contains %q, not in alphabet", s, c)
			}
		}
	}
}

func TestNextMostlyUnique(t *testing.T) {
	// 62^8 values; 1000 draws colliding would point at a broken source.
	gen := New()
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		s, err := gen.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if seen[s] {
			t.Fatalf("duplicate slug %q after %d draws", s, i)
		}
		seen[s] = true
	}
}

func TestNextConcurrent(t *testing.T) {
	gen := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := gen.Next(); err != nil {
					t.Errorf("Next() error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"generated shape", "Ab9ZxQ1c", true},
		{"all digits", "12345678", true},
		{"too short", "abc", false},
		{"too long", "abcdefghi", false},
		{"empty", "", false},
		{"punctuation", "abc-ef_h", false},
		{"slash", "abcd/fgh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}

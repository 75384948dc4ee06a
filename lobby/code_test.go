package lobby

import (
	"testing"
)

func TestGenerateRoomCode_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateRoomCode()

		if len(code) != 5 {
			t.Fatalf("Expected code length 5, got %d (%q)", len(code), code)
		}

		for _, r := range code {
			if r < 'A' || r > 'Z' {
				t.Fatalf("Code %q contains non-uppercase-letter %q", code, r)
			}
		}
	}
}

func TestGenerateRoomCode_Distribution(t *testing.T) {
	// With 10000 codes there are 50000 letter draws, ~1923 per letter.
	// A letter that never shows up, or dominates, means the sampling is broken.
	counts := make(map[rune]int)
	const codes = 10000

	for i := 0; i < codes; i++ {
		for _, r := range GenerateRoomCode() {
			counts[r]++
		}
	}

	if len(counts) != 26 {
		t.Errorf("Expected all 26 letters to appear, got %d", len(counts))
	}

	expected := codes * 5 / 26
	for r, n := range counts {
		if n < expected/2 || n > expected*2 {
			t.Errorf("Letter %q count %d is far from expected %d", r, n, expected)
		}
	}
}

func TestGenerateRoomCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateRoomCode()] = true
	}

	// 26^5 possibilities; 100 draws colliding down to a handful would be absurd.
	if len(seen) < 95 {
		t.Errorf("Expected nearly all of 100 codes to be distinct, got %d", len(seen))
	}
}

func TestSanitizeCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase mixed", "abcXY", "ABCXY"},
		{"already clean", "ABCXY", "ABCXY"},
		{"digits stripped", "ab1c2XY", "ABCXY"},
		{"whitespace stripped", " ab cXY\n", "ABCXY"},
		{"empty", "", ""},
		{"only junk", "123 !?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCode(tt.input); got != tt.want {
				t.Errorf("SanitizeCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

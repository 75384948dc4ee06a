package share

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		baseURL string
		code    string
		want    string
	}{
		{"http://localhost:8080", "ABCXY", "http://localhost:8080/menu.html?join=ABCXY"},
		{"http://localhost:8080/", "ABCXY", "http://localhost:8080/menu.html?join=ABCXY"},
		{"https://lobby.example.com", "ZZZZZ", "https://lobby.example.com/menu.html?join=ZZZZZ"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.baseURL, tt.code); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.baseURL, tt.code, got, tt.want)
		}
	}
}

func TestWriteQR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "join.png")

	if err := WriteQR(path, "http://localhost:8080/menu.html?join=ABCXY"); err != nil {
		t.Fatalf("WriteQR failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read QR file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Expected a PNG file")
	}
}

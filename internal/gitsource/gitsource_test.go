package gitsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsRemote(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"git@github.com:user/decks.git", true},
		{"https://github.com/user/decks", true},
		{"/home/user/decks.git", true},
		{"/home/user/decks", false},
		{"decks", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := IsRemote(tc.path); got != tc.expected {
			t.Errorf("IsRemote(%q) = %t, expected %t", tc.path, got, tc.expected)
		}
	}
}

func TestSyncRejectsNonRepository(t *testing.T) {
	target := filepath.Join(t.TempDir(), "decks")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Sync("https://example.invalid/decks.git", target, nil); err == nil {
		t.Error("Expected an error when the target exists but is not a git repository")
	}
}

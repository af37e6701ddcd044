// Package testsupport holds helpers shared by package tests: golden files,
// route fixtures and rendering shortcuts.
package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens reports whether golden files should be rewritten instead of
// compared. Set UPDATE_GOLDENS=1 to refresh them.
func UpdateGoldens() bool {
	return os.Getenv("UPDATE_GOLDENS") != ""
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if !UpdateGoldens() {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// AssertGoldenMarkup compares rendered markup against the golden at path.
// Goldens store one tag per line so diffs stay readable; the comparison
// ignores that formatting.
func AssertGoldenMarkup(t *testing.T, path, got string) {
	t.Helper()

	if WriteMaybeGolden(t, path, []byte(SplitTags(got)+"\n")) {
		return
	}
	want := JoinTags(MustReadGoldenString(t, path))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markup mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// SplitTags puts a line break before every tag.
func SplitTags(markup string) string {
	return strings.TrimPrefix(strings.ReplaceAll(markup, "<", "\n<"), "\n")
}

// JoinTags reverses SplitTags.
func JoinTags(golden string) string {
	return strings.ReplaceAll(strings.TrimRight(golden, "\n"), "\n<", "<")
}

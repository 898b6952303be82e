package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tfgraph/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.ErrorLevel,
		Output: &bytes.Buffer{},
	})
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"sandbox", "envs/legacy/"})

	tests := []struct {
		rel  string
		want bool
	}{
		{"sandbox", true},             // exact
		{"sandbox/app", true},         // nested under pattern
		{"envs/legacy", true},         // trailing slash stripped
		{"envs/legacy/app1", true},    // nested
		{"envs/prod/sandbox", true},   // basename match, any depth
		{"envs/prod", false},          //
		{"sandboxes", false},          // not a prefix match on names
		{".git", true},                // builtin
		{"app/.terraform", true},      // builtin by basename
		{"app/.terraform/mod", true},  // nested under builtin
	}
	for _, tt := range tests {
		if got := m.Match(tt.rel); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestLoadIgnoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tfgraphignore")
	writeFile(t, path, "# comment\n\nsandbox  scratch\nenvs/legacy\n")

	patterns, err := LoadIgnoreFile(path)
	if err != nil {
		t.Fatalf("LoadIgnoreFile: %v", err)
	}
	want := []string{"sandbox", "scratch", "envs/legacy"}
	if !reflect.DeepEqual(patterns, want) {
		t.Errorf("patterns = %v, want %v", patterns, want)
	}
}

func TestLoadIgnoreFileMissing(t *testing.T) {
	patterns, err := LoadIgnoreFile(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing ignore file should not error: %v", err)
	}
	if len(patterns) != 0 {
		t.Errorf("patterns = %v, want none", patterns)
	}
}

func TestDiscoverRoots(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "envs", "prod", "app1", ".terraform-version"), "1.9.0\n")
	writeFile(t, filepath.Join(ws, "envs", "prod", "app2", ".terraform-version"), "1.9.0\n")
	writeFile(t, filepath.Join(ws, "modules", "vpc", "main.tf"), "")
	writeFile(t, filepath.Join(ws, "sandbox", "app3", ".terraform-version"), "1.9.0\n")

	w := NewWalker(".terraform-version", NewMatcher([]string{"sandbox"}), testLogger())
	roots, err := w.DiscoverRoots(ws)
	if err != nil {
		t.Fatalf("DiscoverRoots: %v", err)
	}

	want := []string{"envs/prod/app1", "envs/prod/app2"}
	if !reflect.DeepEqual(roots, want) {
		t.Errorf("roots = %v, want %v", roots, want)
	}
}

func TestDiscoverRootsDoesNotNest(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "app1", ".terraform-version"), "1.9.0\n")
	// Marker below an existing root must not produce a second, nested root.
	writeFile(t, filepath.Join(ws, "app1", "inner", ".terraform-version"), "1.9.0\n")

	w := NewWalker(".terraform-version", nil, testLogger())
	roots, err := w.DiscoverRoots(ws)
	if err != nil {
		t.Fatalf("DiscoverRoots: %v", err)
	}
	if !reflect.DeepEqual(roots, []string{"app1"}) {
		t.Errorf("roots = %v, want [app1]", roots)
	}
}

func TestDiscoverRootsSkipsTerraformCache(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "app1", ".terraform-version"), "1.9.0\n")
	writeFile(t, filepath.Join(ws, ".terraform", "modules", "x", ".terraform-version"), "1.9.0\n")

	w := NewWalker(".terraform-version", nil, testLogger())
	roots, err := w.DiscoverRoots(ws)
	if err != nil {
		t.Fatalf("DiscoverRoots: %v", err)
	}
	if !reflect.DeepEqual(roots, []string{"app1"}) {
		t.Errorf("roots = %v, want [app1]", roots)
	}
}

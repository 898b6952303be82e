package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "modules", "vpc")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Canonicalize(sub, dir)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "modules/vpc" {
		t.Errorf("Canonicalize = %q, want modules/vpc", got)
	}
}

func TestCanonicalizeNonexistentPath(t *testing.T) {
	dir := t.TempDir()
	got, err := Canonicalize(filepath.Join(dir, "does", "not", "exist"), dir)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "does/not/exist" {
		t.Errorf("Canonicalize = %q, want does/not/exist", got)
	}
}

func TestIsWithinWorkspace(t *testing.T) {
	dir := t.TempDir()
	inside := filepath.Join(dir, "app1")
	if err := os.MkdirAll(inside, 0755); err != nil {
		t.Fatal(err)
	}

	if !IsWithinWorkspace(inside, dir) {
		t.Error("app1 should be inside the workspace")
	}
	if !IsWithinWorkspace(dir, dir) {
		t.Error("workspace root itself should be inside the workspace")
	}
	if IsWithinWorkspace(filepath.Dir(dir), dir) {
		t.Error("parent of workspace should be outside")
	}
	if IsWithinWorkspace(filepath.Join(dir, "..", "elsewhere"), dir) {
		t.Error("path escaping via .. should be outside")
	}
}

func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		file string
		dir  string
		want bool
	}{
		{"app1/main.tf", "app1", true},
		{"app1/sub/main.tf", "app1", true},
		{"app10/main.tf", "app1", false},
		{"app1", "app1", false},
		{"modules/m1/outputs.tf", "modules/m1", true},
		{"modules/m10/outputs.tf", "modules/m1", false},
	}
	for _, tt := range tests {
		if got := HasPathPrefix(tt.file, tt.dir); got != tt.want {
			t.Errorf("HasPathPrefix(%q, %q) = %v, want %v", tt.file, tt.dir, got, tt.want)
		}
	}
}

func TestJoinWorkspace(t *testing.T) {
	got := JoinWorkspace("/work", "modules/vpc")
	want := filepath.Join("/work", "modules", "vpc")
	if got != want {
		t.Errorf("JoinWorkspace = %q, want %q", got, want)
	}
}

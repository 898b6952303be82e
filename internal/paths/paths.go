package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a workspace-relative canonical
// path with forward slashes. Symlinks are resolved so that two spellings of
// the same directory compare equal as map keys.
func Canonicalize(absolutePath string, workspaceRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(workspaceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = workspaceRoot
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// IsWithinWorkspace checks if a path lies inside the workspace root. A path
// that escapes via ".." segments is outside.
func IsWithinWorkspace(path string, workspaceRoot string) bool {
	canonical, err := Canonicalize(path, workspaceRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize converts backslashes to forward slashes for paths that are
// already workspace-relative.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// JoinWorkspace joins the workspace root with a canonical relative path using
// OS-specific separators.
func JoinWorkspace(workspaceRoot string, canonicalPath string) string {
	parts := strings.Split(Normalize(canonicalPath), "/")
	return filepath.Join(append([]string{workspaceRoot}, parts...)...)
}

// HasPathPrefix reports whether file lies under dir in slash-separated,
// workspace-relative terms. A file equal to dir does not count; membership
// means "strictly inside".
func HasPathPrefix(file string, dir string) bool {
	return strings.HasPrefix(file, dir+"/")
}

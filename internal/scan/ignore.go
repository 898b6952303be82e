// Package scan discovers root configurations in a workspace.
package scan

import (
	"fmt"
	"os"
	"path"
	"strings"

	"tfgraph/internal/errors"
	"tfgraph/internal/paths"
)

// builtinIgnores are always skipped regardless of the ignore file. The
// .terraform cache in particular contains downloaded copies of modules that
// would otherwise be discovered as roots.
var builtinIgnores = []string{".git", ".terraform"}

// Matcher decides whether a scanned directory is excluded from discovery.
type Matcher struct {
	patterns []string
}

// NewMatcher builds a Matcher from literal ignore patterns. Patterns are
// normalized to forward slashes with any trailing separator dropped.
func NewMatcher(patterns []string) *Matcher {
	all := make([]string, 0, len(patterns)+len(builtinIgnores))
	all = append(all, builtinIgnores...)
	for _, p := range patterns {
		p = strings.TrimSuffix(paths.Normalize(p), "/")
		if p != "" {
			all = append(all, p)
		}
	}
	return &Matcher{patterns: all}
}

// Match reports whether relPath is excluded: it equals a pattern, is nested
// under a pattern, or its basename equals a pattern. Patterns are not
// anchored to any depth.
func (m *Matcher) Match(relPath string) bool {
	relPath = paths.Normalize(relPath)
	base := path.Base(relPath)
	for _, p := range m.patterns {
		if relPath == p || paths.HasPathPrefix(relPath, p) || base == p {
			return true
		}
	}
	return false
}

// LoadIgnoreFile reads ignore patterns from path. Patterns are separated by
// newlines or whitespace; blank lines and lines starting with '#' are
// skipped. A missing file yields no patterns.
func LoadIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.InternalError,
			fmt.Sprintf("failed to read ignore file: %s", path), err)
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.Fields(line)...)
	}
	return patterns, nil
}

package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"tfgraph/internal/errors"
	"tfgraph/internal/logging"
	"tfgraph/internal/paths"
)

// Walker discovers root configurations under a workspace.
type Walker struct {
	markerFile string
	ignore     *Matcher
	logger     *logging.Logger
}

// NewWalker creates a Walker. A directory containing markerFile is a root;
// directories matched by ignore are skipped along with all descendants.
func NewWalker(markerFile string, ignore *Matcher, logger *logging.Logger) *Walker {
	if ignore == nil {
		ignore = NewMatcher(nil)
	}
	return &Walker{markerFile: markerFile, ignore: ignore, logger: logger}
}

// DiscoverRoots walks workspaceRoot and returns the workspace-relative paths
// of all root configurations, sorted. The walk does not descend into a
// discovered root, so roots can never nest.
func (w *Walker) DiscoverRoots(workspaceRoot string) ([]string, error) {
	var roots []string

	err := filepath.WalkDir(workspaceRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(workspaceRoot, p)
		if err != nil {
			return err
		}
		rel = paths.Normalize(rel)
		if rel == "." {
			return nil
		}

		if w.ignore.Match(rel) {
			w.logger.Debug("Skipping ignored directory", logging.Fields{"dir": rel})
			return filepath.SkipDir
		}

		if _, err := os.Stat(filepath.Join(p, w.markerFile)); err == nil {
			roots = append(roots, rel)
			// A root's subtree belongs to that root alone.
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return nil, errors.New(errors.InternalError,
			fmt.Sprintf("failed to scan workspace: %s", workspaceRoot), err)
	}

	sort.Strings(roots)
	w.logger.Info("Discovered root configurations", logging.Fields{"count": len(roots)})
	return roots, nil
}

// Package targets validates operator-supplied root paths against the
// dependency graph.
package targets

import (
	"fmt"
	"sort"
	"strings"

	"tfgraph/internal/errors"
	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
	"tfgraph/internal/paths"
)

// Validator normalizes explicit target lists into matrix entries.
type Validator struct {
	logger *logging.Logger
}

// New creates a Validator.
func New(logger *logging.Logger) *Validator {
	return &Validator{logger: logger}
}

// Resolve validates every target against the graph's roots. A target matches
// on its exact path or with one trailing separator stripped. Validation is
// all-or-nothing: if any target is unresolved the whole call fails with one
// error naming every miss, and no partial matrix is returned.
func (v *Validator) Resolve(targetList []string, g *graph.DependencyGraph) ([]graph.MatrixEntry, error) {
	rootProviders := g.RootsByPath()

	var entries []graph.MatrixEntry
	var unresolved []string
	seen := make(map[string]struct{})

	for _, target := range targetList {
		path := paths.Normalize(target)
		providers, ok := rootProviders[path]
		if !ok {
			path = strings.TrimSuffix(path, "/")
			providers, ok = rootProviders[path]
		}
		if !ok {
			unresolved = append(unresolved, target)
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		entries = append(entries, graph.MatrixEntry{Path: path, Providers: providers})
	}

	if len(unresolved) > 0 {
		return nil, errors.New(errors.TargetUnresolved,
			fmt.Sprintf("targets not found in dependency graph: %s", strings.Join(unresolved, ", ")),
			nil).WithDetails(unresolved)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	v.logger.Info("Validated targets", logging.Fields{"targets": len(entries)})
	return entries, nil
}

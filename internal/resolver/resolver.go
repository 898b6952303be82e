// Package resolver computes which roots are affected by a set of changed
// files, one level of module indirection included.
package resolver

import (
	"context"
	"sort"

	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
	"tfgraph/internal/paths"
)

// ChangeLister produces the changed-file set between two commits.
type ChangeLister interface {
	ChangedFiles(ctx context.Context, base, head string) ([]string, error)
}

// Resolver maps change sets onto a dependency graph.
type Resolver struct {
	changes ChangeLister
	logger  *logging.Logger
}

// New creates a Resolver.
func New(changes ChangeLister, logger *logging.Logger) *Resolver {
	return &Resolver{changes: changes, logger: logger}
}

// Resolve diffs base..head and returns the affected roots as matrix entries
// sorted by path.
func (r *Resolver) Resolve(ctx context.Context, base, head string, g *graph.DependencyGraph) ([]graph.MatrixEntry, error) {
	files, err := r.changes.ChangedFiles(ctx, base, head)
	if err != nil {
		return nil, err
	}
	return r.ResolveFiles(files, g), nil
}

// ResolveFiles computes the affected roots for an already-known change set.
//
// For each file, membership in a root is decided first; a file under a root
// is that root's change even when a module source would also prefix-match it.
// Files not under any root are tested against module sources longest-first,
// so the most deeply nested module wins, and at most one module is recorded
// per file. Every changed module then pulls in its direct consumer roots.
// Module-to-module transitivity is not modeled.
func (r *Resolver) ResolveFiles(files []string, g *graph.DependencyGraph) []graph.MatrixEntry {
	rootProviders := g.RootsByPath()
	modulesByLen := g.ModulesBySourceLength()

	affected := make(map[string]struct{})
	changedModules := make(map[string]graph.Module)

	for _, file := range files {
		file = paths.Normalize(file)

		if root, ok := matchRoot(file, rootProviders); ok {
			affected[root] = struct{}{}
			continue
		}

		for _, m := range modulesByLen {
			if paths.HasPathPrefix(file, m.Source) {
				changedModules[m.Source] = m
				break
			}
		}
	}

	for _, m := range changedModules {
		for _, root := range m.UsedIn {
			affected[root] = struct{}{}
		}
	}

	entries := make([]graph.MatrixEntry, 0, len(affected))
	for root := range affected {
		entries = append(entries, graph.MatrixEntry{
			Path:      root,
			Providers: rootProviders[root],
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	r.logger.Info("Resolved change impact", logging.Fields{
		"changedFiles":   len(files),
		"changedModules": len(changedModules),
		"affectedRoots":  len(entries),
	})
	return entries
}

// matchRoot finds the root containing file, if any. Roots cannot nest (the
// scanner does not descend into a discovered root), so at most one root can
// contain a file.
func matchRoot(file string, rootProviders map[string][]string) (string, bool) {
	for root := range rootProviders {
		if paths.HasPathPrefix(file, root) {
			return root, true
		}
	}
	return "", false
}

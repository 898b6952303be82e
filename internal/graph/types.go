// Package graph defines the dependency graph model shared by the builder,
// the change impact resolver, and the target validator, plus the snapshot
// file it is persisted in.
package graph

import (
	"sort"
)

// Root is an independently-stateful Terraform configuration directory.
// Path is workspace-relative and unique within a graph.
type Root struct {
	Path      string   `json:"path" yaml:"path"`
	Providers []string `json:"providers" yaml:"providers"`
}

// Module is a shared configuration fragment referenced by one or more roots.
// Source is workspace-relative and unique within a graph. UsedIn lists the
// root paths that reference it; a module nobody references is never persisted.
type Module struct {
	Source string   `json:"source" yaml:"source"`
	UsedIn []string `json:"usedIn" yaml:"usedIn"`
}

// DependencyGraph is the aggregate persisted as the snapshot file. The JSON
// field name "dirs" is the snapshot's historical name for the root list.
type DependencyGraph struct {
	Dirs    []Root   `json:"dirs" yaml:"dirs"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// MatrixEntry is one unit of downstream parallel work: a root and its
// required providers.
type MatrixEntry struct {
	Path      string   `json:"path" yaml:"path"`
	Providers []string `json:"providers" yaml:"providers"`
}

// Matrix is the externally-visible output of both the resolver and the
// validator, shaped for direct consumption by a CI job matrix. Action is set
// only when the matrix was produced by an operator command, so the scheduler
// knows whether the entries are to be planned or applied.
type Matrix struct {
	RunID   string        `json:"runId,omitempty" yaml:"runId,omitempty"`
	Action  string        `json:"action,omitempty" yaml:"action,omitempty"`
	Include []MatrixEntry `json:"include" yaml:"include"`
}

// Sort orders roots by path and modules by source, and each root's providers
// and each module's consumers lexicographically. Serialization depends on
// this for byte-identical snapshots across builds.
func (g *DependencyGraph) Sort() {
	sort.Slice(g.Dirs, func(i, j int) bool { return g.Dirs[i].Path < g.Dirs[j].Path })
	for i := range g.Dirs {
		sort.Strings(g.Dirs[i].Providers)
	}
	sort.Slice(g.Modules, func(i, j int) bool { return g.Modules[i].Source < g.Modules[j].Source })
	for i := range g.Modules {
		sort.Strings(g.Modules[i].UsedIn)
	}
}

// RootsByPath returns a path-to-providers lookup over the graph's roots.
func (g *DependencyGraph) RootsByPath() map[string][]string {
	byPath := make(map[string][]string, len(g.Dirs))
	for _, r := range g.Dirs {
		byPath[r.Path] = r.Providers
	}
	return byPath
}

// ModulesBySourceLength returns the graph's modules ordered by descending
// source length, so that longest-prefix matching can scan front to back.
func (g *DependencyGraph) ModulesBySourceLength() []Module {
	ordered := make([]Module, len(g.Modules))
	copy(ordered, g.Modules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Source) > len(ordered[j].Source)
	})
	return ordered
}

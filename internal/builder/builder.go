// Package builder constructs the dependency graph: it discovers roots, fans
// out per-root analysis, resolves module sources to workspace-relative paths,
// and assembles the deterministic snapshot.
package builder

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"tfgraph/internal/errors"
	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
	"tfgraph/internal/paths"
	"tfgraph/internal/terraform"
)

// RootDiscoverer finds root configuration paths under a workspace.
type RootDiscoverer interface {
	DiscoverRoots(workspaceRoot string) ([]string, error)
}

// RemoteIdentifier reports the repository's own remote identity, used to
// recognize module sources that point back into this repository.
type RemoteIdentifier interface {
	RemoteIdentity(ctx context.Context) (string, error)
}

// Builder produces a DependencyGraph from a workspace.
type Builder struct {
	workspaceRoot string
	discoverer    RootDiscoverer
	analyzer      terraform.Analyzer
	remote        RemoteIdentifier
	concurrency   int
	logger        *logging.Logger
}

// Options configures a Builder.
type Options struct {
	WorkspaceRoot string
	Discoverer    RootDiscoverer
	Analyzer      terraform.Analyzer
	Remote        RemoteIdentifier
	// Concurrency bounds parallel root analyses. Values below 1 mean 1.
	Concurrency int
	Logger      *logging.Logger
}

// New creates a Builder.
func New(opts Options) *Builder {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{
		workspaceRoot: opts.WorkspaceRoot,
		discoverer:    opts.Discoverer,
		analyzer:      opts.Analyzer,
		remote:        opts.Remote,
		concurrency:   concurrency,
		logger:        opts.Logger,
	}
}

// rootResult carries one root's analysis across the aggregation barrier.
type rootResult struct {
	path     string
	analysis *terraform.RootAnalysis
	err      error
}

// Build scans the workspace and produces a sorted DependencyGraph. A failure
// in any single root does not disturb its siblings, but the overall build
// fails closed: if any root failed, no graph is returned. Detecting a
// regressed root beats silently truncating the snapshot.
func (b *Builder) Build(ctx context.Context) (*graph.DependencyGraph, error) {
	rootPaths, err := b.discoverer.DiscoverRoots(b.workspaceRoot)
	if err != nil {
		return nil, err
	}

	// Fetched once here; per-root tasks reuse the cached answer.
	remoteIdentity, err := b.remote.RemoteIdentity(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]rootResult, len(rootPaths))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, rootPath := range rootPaths {
		i, rootPath := i, rootPath
		g.Go(func() error {
			// Failures are collected, never returned: a sibling's
			// failure must not cancel tasks still in flight.
			analysis, err := b.analyzer.AnalyzeRoot(ctx, paths.JoinWorkspace(b.workspaceRoot, rootPath))
			results[i] = rootResult{path: rootPath, analysis: analysis, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return b.aggregate(results, remoteIdentity)
}

// aggregate assembles the graph from per-root results, failing closed when
// any root's analysis failed.
func (b *Builder) aggregate(results []rootResult, remoteIdentity string) (*graph.DependencyGraph, error) {
	var failed []string
	for _, res := range results {
		if res.err != nil {
			failed = append(failed, res.path)
			b.logger.Error("Root analysis failed", logging.Fields{
				"root":  res.path,
				"error": res.err.Error(),
			})
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return nil, errors.New(errors.RootAnalysisFailed,
			fmt.Sprintf("analysis failed for %d root(s): %v", len(failed), failed),
			nil).WithDetails(failed)
	}

	out := &graph.DependencyGraph{}
	moduleConsumers := make(map[string]map[string]struct{})

	for _, res := range results {
		out.Dirs = append(out.Dirs, graph.Root{
			Path:      res.path,
			Providers: res.analysis.Providers,
		})

		for _, ref := range res.analysis.Modules {
			source, ok := b.resolveModuleSource(res.path, ref, remoteIdentity)
			if !ok {
				b.logger.Debug("Module source not local to workspace", logging.Fields{
					"root":   res.path,
					"module": ref.Key,
					"source": ref.Source,
				})
				continue
			}
			if moduleConsumers[source] == nil {
				moduleConsumers[source] = make(map[string]struct{})
			}
			moduleConsumers[source][res.path] = struct{}{}
		}
	}

	for source, consumers := range moduleConsumers {
		usedIn := make([]string, 0, len(consumers))
		for root := range consumers {
			usedIn = append(usedIn, root)
		}
		out.Modules = append(out.Modules, graph.Module{Source: source, UsedIn: usedIn})
	}

	out.Sort()
	b.logger.Info("Dependency graph built", logging.Fields{
		"roots":   len(out.Dirs),
		"modules": len(out.Modules),
	})
	return out, nil
}

// Package terraform inspects root configurations, either by shelling out to
// the terraform binary or by parsing configuration files directly.
package terraform

import "context"

// ModuleRef is one module call declared by a root configuration.
type ModuleRef struct {
	// Key is the module call name.
	Key string
	// Source is the declared source string, verbatim.
	Source string
	// Dir is the concrete on-disk directory terraform resolved the module
	// to, relative to the root's directory. Empty when unknown.
	Dir string
}

// RootAnalysis is the result of inspecting one root configuration.
type RootAnalysis struct {
	// Modules lists the root's declared module calls.
	Modules []ModuleRef
	// Providers lists required provider local names (for example "aws").
	Providers []string
}

// Analyzer inspects a single root configuration directory. Implementations
// must be safe for concurrent use; the graph builder fans out one analysis
// per root.
type Analyzer interface {
	AnalyzeRoot(ctx context.Context, rootDir string) (*RootAnalysis, error)
}

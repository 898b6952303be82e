package builder

import (
	"os"
	"strings"

	"tfgraph/internal/gitrepo"
	"tfgraph/internal/paths"
	"tfgraph/internal/terraform"
)

// resolveModuleSource turns a module reference into a canonical
// workspace-relative path. Candidates are tried in order:
//
//  1. a remote reference into this same repository, resolved against the
//     workspace root;
//  2. the concrete directory the tool resolved the module to, relative to
//     the root's directory;
//  3. a source string that is itself a relative filesystem path, resolved
//     against the root's directory.
//
// A candidate counts only if it exists on disk and lies inside the
// workspace; anything else is discarded and the next candidate is tried.
func (b *Builder) resolveModuleSource(rootPath string, ref terraform.ModuleRef, remoteIdentity string) (string, bool) {
	if subpath, ok := gitrepo.SubpathIfSameRepo(ref.Source, remoteIdentity); ok {
		if resolved, ok := b.acceptCandidate(paths.JoinWorkspace(b.workspaceRoot, subpath)); ok {
			return resolved, true
		}
	}

	if ref.Dir != "" {
		rootDir := paths.JoinWorkspace(b.workspaceRoot, rootPath)
		if resolved, ok := b.acceptCandidate(paths.JoinWorkspace(rootDir, ref.Dir)); ok {
			return resolved, true
		}
	}

	if strings.HasPrefix(ref.Source, ".") {
		rootDir := paths.JoinWorkspace(b.workspaceRoot, rootPath)
		if resolved, ok := b.acceptCandidate(paths.JoinWorkspace(rootDir, ref.Source)); ok {
			return resolved, true
		}
	}

	return "", false
}

// acceptCandidate validates an absolute candidate path and returns its
// canonical workspace-relative form. Paths under a .terraform cache are
// vendored copies of remote modules, not workspace modules, and are
// rejected.
func (b *Builder) acceptCandidate(candidate string) (string, bool) {
	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return "", false
	}
	if !paths.IsWithinWorkspace(candidate, b.workspaceRoot) {
		return "", false
	}

	rel, err := paths.Canonicalize(candidate, b.workspaceRoot)
	if err != nil || rel == "." {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".terraform" {
			return "", false
		}
	}
	return rel, true
}

// Package gitrepo obtains repository facts from git: the repository's own
// remote identity and the file-level diff between two commits.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"

	godiff "github.com/sourcegraph/go-diff/diff"

	"tfgraph/internal/errors"
	"tfgraph/internal/logging"
)

// Repo wraps git invocations against one working copy.
type Repo struct {
	root   string
	logger *logging.Logger

	remoteOnce sync.Once
	remote     string
	remoteErr  error
}

// NewRepo creates a Repo rooted at the given working copy.
func NewRepo(root string, logger *logging.Logger) *Repo {
	return &Repo{root: root, logger: logger}
}

// RemoteIdentity returns the normalized identity of the repository's origin
// remote, for example "github.com/acme/infra". The answer is computed once
// and cached for the lifetime of the Repo. A repository with no origin
// remote yields an empty identity, not an error: same-repo module detection
// simply never matches.
func (r *Repo) RemoteIdentity(ctx context.Context) (string, error) {
	r.remoteOnce.Do(func() {
		out, err := r.git(ctx, "config", "--get", "remote.origin.url")
		if err != nil {
			r.logger.Debug("No origin remote configured", logging.Fields{"error": err.Error()})
			return
		}
		r.remote = NormalizeRemoteURL(strings.TrimSpace(string(out)))
	})
	return r.remote, r.remoteErr
}

// ChangedFiles returns the distinct workspace-relative paths touched between
// two commits. Both sides of a rename count as changed, and a deleted file's
// old path is included so the root that contained it is still re-evaluated.
func (r *Repo) ChangedFiles(ctx context.Context, base, head string) ([]string, error) {
	out, err := r.git(ctx, "diff", base, head)
	if err != nil {
		return nil, errors.New(errors.GitCommandFailed,
			fmt.Sprintf("git diff %s %s failed", base, head), err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff(out)
	if err != nil {
		return nil, errors.New(errors.GitCommandFailed,
			fmt.Sprintf("failed to parse git diff %s %s output", base, head), err)
	}

	seen := make(map[string]struct{})
	for _, fd := range fileDiffs {
		for _, name := range []string{fd.OrigName, fd.NewName} {
			if p := cleanDiffPath(name); p != "" {
				seen[p] = struct{}{}
			}
		}
	}

	files := make([]string, 0, len(seen))
	for p := range seen {
		files = append(files, p)
	}
	sort.Strings(files)

	r.logger.Debug("Computed change set", logging.Fields{
		"base":  base,
		"head":  head,
		"files": len(files),
	})
	return files, nil
}

// IsRepository reports whether the working copy is inside a git repository.
func (r *Repo) IsRepository(ctx context.Context) bool {
	_, err := r.git(ctx, "rev-parse", "--git-dir")
	return err == nil
}

func (r *Repo) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// cleanDiffPath strips the a/ or b/ prefix from a git diff path and drops
// the /dev/null placeholder used for creations and deletions.
func cleanDiffPath(path string) string {
	if path == "" || path == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// NormalizeRemoteURL reduces a git remote URL to a comparable identity of
// the form host/owner/repo. All of these normalize to the same identity:
//
//	https://github.com/acme/infra.git
//	git@github.com:acme/infra.git
//	ssh://git@github.com/acme/infra
func NormalizeRemoteURL(url string) string {
	s := strings.TrimSpace(url)
	s = strings.TrimPrefix(s, "git::")

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.Index(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	// scp-like syntax: host:owner/repo
	if i := strings.Index(s, ":"); i >= 0 && !strings.Contains(s[:i], "/") {
		s = s[:i] + "/" + s[i+1:]
	}
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	return s
}

// SubpathIfSameRepo reports whether a module source string is a remote
// reference into the repository identified by remoteIdentity. On a match it
// returns the repository-relative subpath (the part after "//", with any
// query suffix stripped), which may be empty for a reference to the
// repository root.
func SubpathIfSameRepo(source string, remoteIdentity string) (string, bool) {
	if remoteIdentity == "" {
		return "", false
	}

	s := strings.TrimPrefix(source, "git::")

	// Locate the "//" subpath separator, skipping the one in the scheme.
	searchFrom := 0
	if i := strings.Index(s, "://"); i >= 0 {
		searchFrom = i + 3
	}

	repoPart := s
	subpath := ""
	if i := strings.Index(s[searchFrom:], "//"); i >= 0 {
		repoPart = s[:searchFrom+i]
		subpath = s[searchFrom+i+2:]
	}
	if i := strings.Index(subpath, "?"); i >= 0 {
		subpath = subpath[:i]
	}
	if i := strings.Index(repoPart, "?"); i >= 0 {
		repoPart = repoPart[:i]
	}

	if NormalizeRemoteURL(repoPart) != remoteIdentity {
		return "", false
	}
	return subpath, true
}

package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tfgraph/internal/errors"
)

// LoadSnapshot reads a dependency graph from path. A nonexistent file and an
// undecodable file yield distinct error codes so callers can choose between
// warn-and-fall-back and hard failure.
func LoadSnapshot(path string) (*DependencyGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.SnapshotMissing,
				fmt.Sprintf("dependency snapshot not found: %s", path), err)
		}
		return nil, errors.New(errors.InternalError,
			fmt.Sprintf("failed to read dependency snapshot: %s", path), err)
	}

	var g DependencyGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.New(errors.SnapshotMalformed,
			fmt.Sprintf("dependency snapshot is not valid JSON: %s", path), err)
	}

	return &g, nil
}

// SaveSnapshot writes the graph to path as indented JSON, sorted for stable
// diffs of the committed file. The write goes through a temp file and rename
// so a concurrent reader never observes a torn snapshot.
func SaveSnapshot(g *DependencyGraph, path string) error {
	g.Sort()
	if g.Dirs == nil {
		g.Dirs = []Root{}
	}
	if g.Modules == nil {
		g.Modules = []Module{}
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.New(errors.InternalError, "failed to encode dependency snapshot", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.New(errors.InternalError,
			fmt.Sprintf("failed to create snapshot directory: %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".tfgraph-snapshot-*")
	if err != nil {
		return errors.New(errors.InternalError, "failed to create temporary snapshot file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.New(errors.InternalError, "failed to write dependency snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.New(errors.InternalError, "failed to write dependency snapshot", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.New(errors.InternalError,
			fmt.Sprintf("failed to replace dependency snapshot: %s", path), err)
	}

	return nil
}

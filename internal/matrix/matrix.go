// Package matrix shapes resolver and validator results into the output
// consumed by the CI scheduler.
package matrix

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tfgraph/internal/errors"
	"tfgraph/internal/graph"
)

// Format is an output encoding.
type Format string

const (
	// JSON is the default matrix encoding.
	JSON Format = "json"
	// YAML is an alternative encoding for human inspection.
	YAML Format = "yaml"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, YAML:
		return Format(s), nil
	default:
		return "", errors.New(errors.InvalidArgument,
			fmt.Sprintf("unknown output format %q (json or yaml)", s), nil)
	}
}

// Build wraps matrix entries with the run identifier. Empty results encode
// as an empty include list, never null, so the scheduler can feed the matrix
// to a job strategy unconditionally.
func Build(entries []graph.MatrixEntry, runID string) graph.Matrix {
	include := make([]graph.MatrixEntry, len(entries))
	for i, e := range entries {
		include[i] = e
		if include[i].Providers == nil {
			include[i].Providers = []string{}
		}
	}
	return graph.Matrix{RunID: runID, Include: include}
}

// Encode serializes a matrix in the given format.
func Encode(m graph.Matrix, format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(m)
	default:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Write encodes the matrix to the output path, or to stdout when the path
// is empty or "-".
func Write(m graph.Matrix, format Format, outputPath string) error {
	data, err := Encode(m, format)
	if err != nil {
		return errors.New(errors.InternalError, "failed to encode matrix output", err)
	}

	if outputPath == "" || outputPath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return errors.New(errors.InternalError,
			fmt.Sprintf("failed to write matrix output: %s", outputPath), err)
	}
	return nil
}

package terraform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"tfgraph/internal/errors"
	"tfgraph/internal/logging"
)

// modulesManifest is the manifest terraform writes after init, at
// .terraform/modules/modules.json inside the root directory.
const modulesManifest = ".terraform/modules/modules.json"

// Runner analyzes roots by invoking the terraform binary.
type Runner struct {
	bin    string
	logger *logging.Logger
}

// NewRunner creates a Runner using the given terraform binary name or path.
func NewRunner(bin string, logger *logging.Logger) *Runner {
	if bin == "" {
		bin = "terraform"
	}
	return &Runner{bin: bin, logger: logger}
}

// CheckTool verifies the terraform binary is present and reports a version.
// Absence is an environment error and fatal for every caller.
func (r *Runner) CheckTool(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "", "version", "-json")
	if err != nil {
		return "", errors.New(errors.ToolMissing,
			fmt.Sprintf("terraform binary %q not found or not runnable", r.bin), err)
	}

	var v struct {
		TerraformVersion string `json:"terraform_version"`
	}
	if err := json.Unmarshal(out, &v); err != nil || v.TerraformVersion == "" {
		return "", errors.New(errors.ToolMissing,
			fmt.Sprintf("terraform binary %q did not report a version", r.bin), err)
	}
	return v.TerraformVersion, nil
}

// AnalyzeRoot inspects one root: ensures it has been initialized, reads its
// module manifest, and queries its provider schema.
func (r *Runner) AnalyzeRoot(ctx context.Context, rootDir string) (*RootAnalysis, error) {
	if err := r.ensureInit(ctx, rootDir); err != nil {
		return nil, err
	}

	modules, err := readModulesManifest(filepath.Join(rootDir, modulesManifest))
	if err != nil {
		return nil, err
	}

	providers, err := r.providerNames(ctx, rootDir)
	if err != nil {
		return nil, err
	}

	return &RootAnalysis{Modules: modules, Providers: providers}, nil
}

// ensureInit runs a lightweight, backend-less init when the module manifest
// is absent. Workspaces checked out fresh in CI hit this path for every root.
func (r *Runner) ensureInit(ctx context.Context, rootDir string) error {
	if _, err := os.Stat(filepath.Join(rootDir, modulesManifest)); err == nil {
		return nil
	}

	r.logger.Debug("Initializing root", logging.Fields{"dir": rootDir})
	if _, err := r.run(ctx, rootDir, "init", "-backend=false", "-input=false", "-no-color"); err != nil {
		return fmt.Errorf("terraform init failed in %s: %w", rootDir, err)
	}
	return nil
}

// providerNames queries the provider schema and reduces each provider
// address to its registry local name.
func (r *Runner) providerNames(ctx context.Context, rootDir string) ([]string, error) {
	out, err := r.run(ctx, rootDir, "providers", "schema", "-json")
	if err != nil {
		return nil, fmt.Errorf("terraform providers schema failed in %s: %w", rootDir, err)
	}
	return parseProviderSchemas(out)
}

func (r *Runner) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", r.bin, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", r.bin, strings.Join(args, " "), err)
	}
	return out, nil
}

// readModulesManifest parses terraform's module manifest. The root module
// itself appears with an empty key and is not a module call.
func readModulesManifest(path string) ([]ModuleRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module manifest %s: %w", path, err)
	}

	var manifest struct {
		Modules []struct {
			Key    string `json:"Key"`
			Source string `json:"Source"`
			Dir    string `json:"Dir"`
		} `json:"Modules"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding module manifest %s: %w", path, err)
	}

	var refs []ModuleRef
	for _, m := range manifest.Modules {
		if m.Key == "" {
			continue
		}
		refs = append(refs, ModuleRef{Key: m.Key, Source: m.Source, Dir: m.Dir})
	}
	return refs, nil
}

// parseProviderSchemas extracts sorted provider local names from
// `terraform providers schema -json` output.
func parseProviderSchemas(data []byte) ([]string, error) {
	var schema struct {
		ProviderSchemas map[string]json.RawMessage `json:"provider_schemas"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decoding provider schema output: %w", err)
	}

	names := make([]string, 0, len(schema.ProviderSchemas))
	for addr := range schema.ProviderSchemas {
		names = append(names, providerLocalName(addr))
	}
	sort.Strings(names)
	return names, nil
}

// providerLocalName reduces a provider source address to its local name:
// registry.terraform.io/hashicorp/aws -> aws.
func providerLocalName(addr string) string {
	if i := strings.LastIndex(addr, "/"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

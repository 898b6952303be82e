package terraform

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"tfgraph/internal/logging"
)

// StaticAnalyzer inspects roots by parsing their *.tf files directly, with
// no terraform invocation. Module calls report no resolved directory, so the
// builder falls back to relative-path resolution for local sources. Remote
// sources that are not same-repo references stay unresolved, which matches
// their treatment by the graph.
type StaticAnalyzer struct {
	logger *logging.Logger
}

// NewStaticAnalyzer creates a StaticAnalyzer.
func NewStaticAnalyzer(logger *logging.Logger) *StaticAnalyzer {
	return &StaticAnalyzer{logger: logger}
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "terraform"},
		{Type: "module", LabelNames: []string{"name"}},
	},
}

var terraformSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "required_providers"},
	},
}

// AnalyzeRoot parses every *.tf file in rootDir (top level only, matching
// terraform's own treatment of a module directory).
func (a *StaticAnalyzer) AnalyzeRoot(ctx context.Context, rootDir string) (*RootAnalysis, error) {
	files, err := filepath.Glob(filepath.Join(rootDir, "*.tf"))
	if err != nil {
		return nil, fmt.Errorf("listing configuration files in %s: %w", rootDir, err)
	}
	sort.Strings(files)

	parser := hclparse.NewParser()
	providerSet := make(map[string]struct{})
	var modules []ModuleRef

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %s", file, diags.Error())
		}

		content, _, diags := f.Body.PartialContent(rootSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("reading %s: %s", file, diags.Error())
		}

		for _, block := range content.Blocks {
			switch block.Type {
			case "module":
				ref, ok := moduleRefFromBlock(block)
				if !ok {
					a.logger.Warn("Module call has no literal source", logging.Fields{
						"file":   file,
						"module": block.Labels[0],
					})
					continue
				}
				modules = append(modules, ref)
			case "terraform":
				for _, name := range requiredProviderNames(block) {
					providerSet[name] = struct{}{}
				}
			}
		}
	}

	providers := make([]string, 0, len(providerSet))
	for name := range providerSet {
		providers = append(providers, name)
	}
	sort.Strings(providers)

	return &RootAnalysis{Modules: modules, Providers: providers}, nil
}

// moduleRefFromBlock extracts the module call name and its literal source.
func moduleRefFromBlock(block *hcl.Block) (ModuleRef, bool) {
	attrs, _ := block.Body.JustAttributes()
	sourceAttr, ok := attrs["source"]
	if !ok {
		return ModuleRef{}, false
	}

	val, diags := sourceAttr.Expr.Value(nil)
	if diags.HasErrors() || val.Type().FriendlyName() != "string" {
		return ModuleRef{}, false
	}

	return ModuleRef{Key: block.Labels[0], Source: val.AsString()}, true
}

// requiredProviderNames extracts provider local names from a terraform block:
// terraform { required_providers { aws = { source = "hashicorp/aws" } } }.
// When a source address is present its local name wins over the attribute
// name, matching how terraform resolves provider references.
func requiredProviderNames(block *hcl.Block) []string {
	content, _, diags := block.Body.PartialContent(terraformSchema)
	if diags.HasErrors() {
		return nil
	}

	var names []string
	for _, rp := range content.Blocks {
		attrs, _ := rp.Body.JustAttributes()
		for attrName, attr := range attrs {
			name := attrName
			if val, diags := attr.Expr.Value(nil); !diags.HasErrors() && val.Type().IsObjectType() {
				if val.Type().HasAttribute("source") {
					src := val.GetAttr("source")
					if src.Type().FriendlyName() == "string" {
						name = providerLocalName(src.AsString())
					}
				}
			}
			names = append(names, name)
		}
	}
	return names
}

// Available reports whether rootDir contains any terraform configuration at
// all. Roots with a marker file but no *.tf files analyze to an empty result
// rather than an error.
func (a *StaticAnalyzer) Available(rootDir string) bool {
	files, err := filepath.Glob(filepath.Join(rootDir, "*.tf"))
	return err == nil && len(files) > 0
}

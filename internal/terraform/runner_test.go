package terraform

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadModulesManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "Modules": [
    {"Key": "", "Source": "", "Dir": "."},
    {"Key": "network", "Source": "../../modules/network", "Dir": "../../modules/network"},
    {"Key": "dns", "Source": "git::https://github.com/acme/infra.git//modules/dns?ref=v2", "Dir": ".terraform/modules/dns/modules/dns"}
  ]
}`
	path := filepath.Join(dir, "modules.json")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	refs, err := readModulesManifest(path)
	if err != nil {
		t.Fatalf("readModulesManifest: %v", err)
	}

	want := []ModuleRef{
		{Key: "network", Source: "../../modules/network", Dir: "../../modules/network"},
		{Key: "dns", Source: "git::https://github.com/acme/infra.git//modules/dns?ref=v2", Dir: ".terraform/modules/dns/modules/dns"},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %+v, want %+v", refs, want)
	}
}

func TestReadModulesManifestMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readModulesManifest(path); err == nil {
		t.Error("malformed manifest should fail")
	}
}

func TestParseProviderSchemas(t *testing.T) {
	out := `{
  "format_version": "1.0",
  "provider_schemas": {
    "registry.terraform.io/hashicorp/google": {},
    "registry.terraform.io/hashicorp/aws": {}
  }
}`
	names, err := parseProviderSchemas([]byte(out))
	if err != nil {
		t.Fatalf("parseProviderSchemas: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"aws", "google"}) {
		t.Errorf("names = %v, want [aws google] (sorted)", names)
	}
}

func TestProviderLocalName(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"registry.terraform.io/hashicorp/aws", "aws"},
		{"hashicorp/google", "google"},
		{"null", "null"},
	}
	for _, tt := range tests {
		if got := providerLocalName(tt.addr); got != tt.want {
			t.Errorf("providerLocalName(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

package version

import (
	"strings"
	"testing"
)

func TestInfoShortCommit(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "1.2.3"
	Commit = "0123456789abcdef"
	if got := Info(); got != "1.2.3 (0123456)" {
		t.Errorf("Info() = %q, want %q", got, "1.2.3 (0123456)")
	}

	Commit = "unknown"
	if got := Info(); got != "1.2.3" {
		t.Errorf("Info() = %q, want %q", got, "1.2.3")
	}
}

func TestFullContainsAllFields(t *testing.T) {
	full := Full()
	for _, want := range []string{"tfgraph version", "Commit:", "Built:"} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() missing %q: %q", want, full)
		}
	}
}

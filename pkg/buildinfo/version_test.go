package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	got := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: abc123", "built: 2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
	if UserAgent() != "kgview/v1.2.3" {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
	Resolve()
	if Version != "v1.2.3" {
		t.Error("Resolve must not override an ldflags version")
	}
}

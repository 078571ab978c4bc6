package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEntry(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadReadsEntriesInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "10-ripgrep.json", `{"name":"ripgrep","binaryName":"rg","installMethod":"auto",
		"availableMethods":[{"method":"cargo","priority":1},{"method":"apt","priority":2}]}`)
	writeEntry(t, dir, "20-fd.json", `{"name":"fd","installMethod":"auto",
		"availableMethods":[{"method":"cargo","priority":1}],"requires":["ripgrep"]}`)
	writeEntry(t, dir, "notes.txt", "ignored")

	cat, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cat.Names(); len(got) != 2 || got[0] != "ripgrep" || got[1] != "fd" {
		t.Fatalf("Names() = %v", got)
	}

	rg, ok := cat.Get("ripgrep")
	if !ok {
		t.Fatal("ripgrep not found")
	}
	if rg.Binary() != "rg" {
		t.Fatalf("Binary() = %q, want rg", rg.Binary())
	}
	if len(rg.AvailableMethods) != 2 || rg.AvailableMethods[0].Method != "cargo" {
		t.Fatalf("methods = %+v", rg.AvailableMethods)
	}
}

func TestLoadRejectsDuplicateTool(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.json", `{"name":"jq","installMethod":"auto","availableMethods":[{"method":"apt","priority":1}]}`)
	writeEntry(t, dir, "b.json", `{"name":"jq","installMethod":"auto","availableMethods":[{"method":"brew","priority":1}]}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected duplicate-tool error")
	}
}

func TestBinaryDefaultsToName(t *testing.T) {
	d := Descriptor{Name: "jq"}
	if d.Binary() != "jq" {
		t.Fatalf("Binary() = %q", d.Binary())
	}
}

func TestPinnedNever(t *testing.T) {
	cases := []struct {
		name string
		desc Descriptor
		want bool
	}{
		{"plain never", Descriptor{PinnedVersion: "never"}, true},
		{"concrete pin", Descriptor{PinnedVersion: "1.2.3"}, false},
		{"no pin", Descriptor{}, false},
		{"cycle pin never", Descriptor{PinnedVersions: map[string]string{"3.12": "never"}}, true},
		{"cycle pin concrete", Descriptor{PinnedVersions: map[string]string{"3.12": "3.12.4"}}, false},
	}
	for _, tc := range cases {
		if got := tc.desc.PinnedNever(); got != tc.want {
			t.Fatalf("%s: PinnedNever() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateFindsBrokenEntries(t *testing.T) {
	cat, err := New([]Descriptor{
		{Name: "a", InstallMethod: "auto", AvailableMethods: []MethodSpec{{Method: "snap", Priority: 1}}},
		{Name: "b", InstallMethod: "auto", AvailableMethods: []MethodSpec{{Method: "apt", Priority: 0}}, Requires: []string{"ghost"}},
		{Name: "c", InstallMethod: "auto"},
	})
	if err != nil {
		t.Fatal(err)
	}

	results := cat.Validate()
	var errors int
	for _, r := range results {
		if r.Level == "error" {
			errors++
		}
	}
	// unknown method, non-positive priority, missing dependency, no methods
	if errors != 4 {
		t.Fatalf("expected 4 errors, got %d: %+v", errors, results)
	}
}

func TestValidateCleanCatalog(t *testing.T) {
	cat, err := New([]Descriptor{
		{Name: "a", InstallMethod: "auto", AvailableMethods: []MethodSpec{{Method: "cargo", Priority: 1}}},
		{Name: "b", InstallMethod: "rustup"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if results := cat.Validate(); len(results) != 0 {
		t.Fatalf("expected no findings, got %+v", results)
	}
}

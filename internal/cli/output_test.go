package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"toolchest/internal/catalog"
	"toolchest/internal/method"
	"toolchest/internal/reconcile"
)

func captureCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestWriteOutcomeLineChanged(t *testing.T) {
	cmd, buf := captureCmd()
	writeOutcomeLine(cmd, reconcile.Outcome{
		Tool:    "rg",
		Action:  reconcile.ActionReconcile,
		Best:    method.Cargo,
		Changed: true,
	})
	got := buf.String()
	if got != "[rg] done: now installed via cargo\n" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestWriteOutcomeLineSkipped(t *testing.T) {
	cmd, buf := captureCmd()
	writeOutcomeLine(cmd, reconcile.Outcome{
		Tool:       "terraform",
		Skipped:    true,
		SkipReason: "version pinned",
	})
	if !strings.Contains(buf.String(), "skipped (version pinned)") {
		t.Fatalf("unexpected line: %q", buf.String())
	}
}

func TestWriteOutcomeLineFailedStaysQuiet(t *testing.T) {
	cmd, buf := captureCmd()
	writeOutcomeLine(cmd, reconcile.Outcome{Tool: "rg", Err: errors.New("boom")})
	if buf.Len() != 0 {
		t.Fatalf("failed outcome should not print a done line, got %q", buf.String())
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	summary := reconcile.Summary{
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Outcomes: []reconcile.Outcome{
			{Tool: "rg", Changed: true},
			{Tool: "fd", Err: errors.New("no viable method")},
		},
	}

	var buf bytes.Buffer
	if err := writeSummaryJSON(&buf, summary); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Total    int `json:"total"`
		Failed   int `json:"failed"`
		Outcomes []struct {
			Tool  string `json:"tool"`
			Error string `json:"error"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Total != 2 || decoded.Failed != 1 {
		t.Fatalf("counts not preserved: %+v", decoded)
	}
	if decoded.Outcomes[1].Error != "no viable method" {
		t.Fatalf("error text not serialized: %+v", decoded.Outcomes[1])
	}
}

func TestDeprecationNote(t *testing.T) {
	plain := catalog.Descriptor{Name: "exa", Deprecated: true}
	if got := deprecationNote(plain); got != "deprecated" {
		t.Fatalf("got %q", got)
	}

	pointed := catalog.Descriptor{Name: "exa", Deprecated: true, SupersededBy: "eza"}
	if got := deprecationNote(pointed); got != "deprecated (use eza)" {
		t.Fatalf("got %q", got)
	}
}

func TestDescriptorNotesSurfacePins(t *testing.T) {
	cases := []struct {
		name string
		desc catalog.Descriptor
		want string
	}{
		{"concrete pin", catalog.Descriptor{Name: "terraform", PinnedVersion: "1.5.7"}, "pinned to 1.5.7"},
		{"never pin", catalog.Descriptor{Name: "python", PinnedVersion: "never"}, `pinned "never"`},
		{"cycle never pin", catalog.Descriptor{Name: "python", PinnedVersions: map[string]string{"3.12": "never"}}, `pinned "never"`},
		{"pin plus deprecation", catalog.Descriptor{Name: "exa", PinnedVersion: "0.10.1", Deprecated: true, SupersededBy: "eza"}, "pinned to 0.10.1; deprecated (use eza)"},
		{"nothing to note", catalog.Descriptor{Name: "jq"}, ""},
	}
	for _, tc := range cases {
		if got := descriptorNotes(tc.desc); got != tc.want {
			t.Fatalf("%s: notes = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStatusRowShowsPinnedTool(t *testing.T) {
	row := statusRow{
		Tool:    "terraform",
		Current: "github-release",
		Best:    "github-release",
		Verdict: "already-optimal",
		Pinned:  "1.5.7",
		Notes:   "pinned to 1.5.7",
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"pinnedVersion":"1.5.7"`) {
		t.Fatalf("json row missing pin: %s", data)
	}

	cmd, buf := captureCmd()
	writeStatusTable(cmd, []statusRow{row})
	if !strings.Contains(buf.String(), "pinned to 1.5.7") {
		t.Fatalf("table row missing pin note:\n%s", buf.String())
	}
}

func TestStatusTableIncludesMissingDeps(t *testing.T) {
	cmd, buf := captureCmd()
	writeStatusTable(cmd, []statusRow{
		{Tool: "delta", Current: "cargo", Best: "cargo", Verdict: "already-optimal", Missing: "git"},
	})
	got := buf.String()
	if !strings.Contains(got, "missing deps: git") {
		t.Fatalf("missing-deps note absent:\n%s", got)
	}
	if !strings.Contains(got, "TOOL") {
		t.Fatalf("header absent:\n%s", got)
	}
}

package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestStepFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf, nil)
	tr.Step("ripgrep", "detect", "current method %s at %s", "apt", "/usr/bin/rg")

	got := buf.String()
	want := "[ripgrep] detect: current method apt at /usr/bin/rg\n"
	if got != want {
		t.Fatalf("trace line = %q, want %q", got, want)
	}
}

func TestNilTracerIsSafe(t *testing.T) {
	var tr *Tracer
	tr.Step("x", "y", "z")
}

func TestStepTeesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logged := []string{}
	tr := New(&buf, printfFunc(func(format string, v ...any) {
		logged = append(logged, format)
	}))
	tr.Step("fd", "resolve", "chose cargo")

	if len(logged) != 1 {
		t.Fatalf("expected 1 logged line, got %d", len(logged))
	}
	if !strings.Contains(buf.String(), "[fd] resolve: chose cargo") {
		t.Fatalf("stdout line missing: %q", buf.String())
	}
}

type printfFunc func(format string, v ...any)

func (f printfFunc) Printf(format string, v ...any) { f(format, v...) }

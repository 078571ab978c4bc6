package trace

import (
	"fmt"
	"io"
)

// Logger mirrors the subset of log.Logger the tracer tees into.
type Logger interface {
	Printf(format string, v ...any)
}

// Tracer writes the per-tool audit trail as "[tool] step: detail" lines.
// These lines are the operator's record of why a method was chosen or a
// removal happened, so every detection outcome and decision emits one.
type Tracer struct {
	Out    io.Writer
	Logger Logger
}

func New(out io.Writer, logger Logger) *Tracer {
	return &Tracer{Out: out, Logger: logger}
}

// Step records one audit line for the named tool.
func (t *Tracer) Step(tool, step, format string, v ...any) {
	if t == nil {
		return
	}
	detail := fmt.Sprintf(format, v...)
	if t.Out != nil {
		fmt.Fprintf(t.Out, "[%s] %s: %s\n", tool, step, detail)
	}
	if t.Logger != nil {
		t.Logger.Printf("[%s] %s: %s", tool, step, detail)
	}
}

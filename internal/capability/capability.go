package capability

import (
	"context"

	"toolchest/internal/envx"
	"toolchest/internal/method"
)

// Capabilities is the per-run snapshot of which methods are usable on
// this host. Derived once at the entrypoint and threaded explicitly;
// never persisted.
type Capabilities struct {
	Available map[method.Method]bool
}

// Has reports whether a method is usable.
func (c Capabilities) Has(m method.Method) bool {
	return c.Available[m]
}

// Methods returns the usable methods in registry order.
func (c Capabilities) Methods() []method.Method {
	var out []method.Method
	for _, m := range method.Installable() {
		if c.Available[m] {
			out = append(out, m)
		}
	}
	return out
}

// Detector answers read-only questions about the host: which methods are
// usable, and how a given binary got installed. No detector call has
// side effects, and every probe degrades to unknown/none rather than
// failing.
type Detector struct {
	Env    envx.Environment
	Runner envx.Runner
}

func NewDetector(env envx.Environment, runner envx.Runner) *Detector {
	return &Detector{Env: env, Runner: runner}
}

// IsMethodAvailable reports whether the method's manager binary is on
// PATH. apt additionally requires root identity or a cached
// non-interactive sudo grant; the check never prompts.
func (d *Detector) IsMethodAvailable(ctx context.Context, m method.Method) bool {
	h, ok := method.HandlerFor(m)
	if !ok {
		return false
	}
	if _, err := d.Env.LookPath(h.Manager); err != nil {
		return false
	}
	if h.NeedsElevation && !d.Env.IsRoot() && !d.sudoCached(ctx) {
		return false
	}
	return true
}

// Snapshot probes every installable method once.
func (d *Detector) Snapshot(ctx context.Context) Capabilities {
	caps := Capabilities{Available: make(map[method.Method]bool)}
	for _, m := range method.Installable() {
		caps.Available[m] = d.IsMethodAvailable(ctx, m)
	}
	return caps
}

// sudoCached reports whether sudo can run without a password prompt.
// Absence of a grant is "unavailable", never an error.
func (d *Detector) sudoCached(ctx context.Context) bool {
	if _, err := d.Env.LookPath("sudo"); err != nil {
		return false
	}
	if d.Runner == nil {
		return false
	}
	_, err := d.Runner.Run(ctx, "sudo", []string{"-n", "true"}, envx.RunOptions{})
	return err == nil
}

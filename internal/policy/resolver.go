package policy

import (
	"fmt"

	"toolchest/internal/capability"
	"toolchest/internal/catalog"
	"toolchest/internal/method"
	"toolchest/internal/trace"
)

// ResolutionError is fatal for the tool it names. It is never silently
// downgraded: a misconfigured override or an empty candidate set must
// surface to the operator.
type ResolutionError struct {
	Tool   string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, e.Reason)
}

// Resolver computes the single best installation method for a tool from
// the catalog, the capability snapshot, and the user policy. It is a
// pure query: identical inputs always yield the identical method.
type Resolver struct {
	Catalog *catalog.Catalog
	Caps    capability.Capabilities
	Policy  Policy
	Trace   *trace.Tracer
}

// BestMethod resolves the method that should install a tool.
func (r *Resolver) BestMethod(tool string) (method.Method, error) {
	desc, ok := r.Catalog.Get(tool)
	if !ok {
		return method.None, &ResolutionError{Tool: tool, Reason: "not in catalog"}
	}
	if !desc.AutoManaged() {
		return method.None, &ResolutionError{
			Tool:   tool,
			Reason: fmt.Sprintf("uses dedicated installer %q, not policy-based resolution", desc.InstallMethod),
		}
	}

	if forced, ok := r.Policy.Override(tool); ok {
		return r.resolveOverride(desc, forced)
	}

	strategy := r.Policy.Strategy()
	best := method.None
	bestPriority := 0
	for _, spec := range desc.AvailableMethods {
		m, err := method.Parse(spec.Method)
		if err != nil {
			r.Trace.Step(tool, "resolve", "skip %s: %v", spec.Method, err)
			continue
		}
		if !r.Caps.Has(m) {
			r.Trace.Step(tool, "resolve", "drop %s: unavailable on this host", m)
			continue
		}
		if m == method.Apt && !r.Policy.AllowApt {
			r.Trace.Step(tool, "resolve", "drop apt: elevated-privilege installs disallowed by policy")
			continue
		}
		adjusted := AdjustPriority(m, spec.Priority, strategy)
		if adjusted != spec.Priority {
			r.Trace.Step(tool, "resolve", "strategy %s adjusts %s priority %d -> %d", strategy, m, spec.Priority, adjusted)
		}
		// Strict less-than keeps the first-declared method on ties.
		if best == method.None || adjusted < bestPriority {
			best = m
			bestPriority = adjusted
		}
	}

	if best == method.None {
		return method.None, &ResolutionError{Tool: tool, Reason: "no available method survives policy filtering"}
	}
	r.Trace.Step(tool, "resolve", "chose %s (priority %d, strategy %s)", best, bestPriority, strategy)
	return best, nil
}

// resolveOverride applies a forced method. An available override wins
// unconditionally; an unavailable or undeclared one fails loudly rather
// than falling through to catalog ordering.
func (r *Resolver) resolveOverride(desc catalog.Descriptor, forced method.Method) (method.Method, error) {
	declared := false
	for _, spec := range desc.AvailableMethods {
		if spec.Method == string(forced) {
			declared = true
			break
		}
	}
	if !declared {
		return method.None, &ResolutionError{
			Tool:   desc.Name,
			Reason: fmt.Sprintf("override %s is not a declared method for this tool", forced),
		}
	}
	if !r.Caps.Has(forced) {
		return method.None, &ResolutionError{
			Tool:   desc.Name,
			Reason: fmt.Sprintf("override %s is not available on this host", forced),
		}
	}
	if forced == method.Apt && !r.Policy.AllowApt {
		return method.None, &ResolutionError{
			Tool:   desc.Name,
			Reason: "override apt conflicts with policy: elevated-privilege installs disallowed",
		}
	}
	r.Trace.Step(desc.Name, "resolve", "override forces %s", forced)
	return forced, nil
}

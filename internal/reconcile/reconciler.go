package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toolchest/internal/capability"
	"toolchest/internal/catalog"
	"toolchest/internal/envx"
	"toolchest/internal/method"
	"toolchest/internal/policy"
	"toolchest/internal/trace"
)

const defaultTimeout = 10 * time.Minute

type Logger interface {
	Printf(format string, v ...any)
}

// Service converges a tool's actual installation method to its
// policy-chosen best method. It is the only component with side
// effects: detection and resolution stay read-only queries over the
// snapshot taken at construction time.
type Service struct {
	Catalog  *catalog.Catalog
	Policy   policy.Policy
	Detector *capability.Detector
	Resolver *policy.Resolver
	Runner   envx.Runner
	Env      envx.Environment
	Trace    *trace.Tracer
	Logger   Logger

	// Timeout bounds each external executor invocation. A hung package
	// manager fails that tool instead of stalling the batch.
	Timeout time.Duration
}

func NewService(cat *catalog.Catalog, pol policy.Policy, caps capability.Capabilities,
	det *capability.Detector, runner envx.Runner, env envx.Environment,
	tr *trace.Tracer, logger Logger) *Service {
	return &Service{
		Catalog:  cat,
		Policy:   pol,
		Detector: det,
		Resolver: &policy.Resolver{Catalog: cat, Caps: caps, Policy: pol, Trace: tr},
		Runner:   runner,
		Env:      env,
		Trace:    tr,
		Logger:   logger,
	}
}

func (s *Service) logf(format string, v ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, v...)
	}
}

// Run executes one action for one tool. Every failure is scoped to the
// returned Outcome; callers decide whether it ends the process.
func (s *Service) Run(ctx context.Context, tool string, action Action) Outcome {
	out := Outcome{Tool: tool, Action: action, Current: method.None}

	desc, ok := s.Catalog.Get(tool)
	if !ok {
		out.Err = fmt.Errorf("tool %q not in catalog", tool)
		return out
	}
	if !desc.AutoManaged() {
		out.Err = &policy.ResolutionError{
			Tool:   tool,
			Reason: fmt.Sprintf("uses dedicated installer %q, not policy-based resolution", desc.InstallMethod),
		}
		return out
	}

	if action.Mutating() && action != ActionUninstall && desc.PinnedNever() {
		s.Trace.Step(tool, "pin", "pinned \"never\"; install paths disabled")
		out.Skipped = true
		out.SkipReason = `pinned "never"`
		return out
	}

	out.Current = s.Detector.DetectInstallMethod(ctx, tool, desc.Binary())
	s.Trace.Step(tool, "detect", "current method %s", out.Current)

	if action == ActionUninstall {
		return s.uninstall(ctx, desc, out)
	}

	best, err := s.Resolver.BestMethod(tool)
	if err != nil {
		out.Err = err
		return out
	}
	out.Best = best
	out.Verdict = verdict(out.Current, best)

	switch action {
	case ActionStatus:
		s.Trace.Step(tool, "status", "current=%s best=%s verdict=%s", out.Current, best, out.Verdict)
		return out

	case ActionReconcile:
		if out.Current == best {
			s.Trace.Step(tool, "reconcile", "already installed via %s; nothing to do", best)
			return out
		}
		return s.converge(ctx, desc, out)

	case ActionInstall, ActionUpdate:
		if out.Current == best {
			// Same method: refresh through its install path to pick up
			// a newer version.
			s.Trace.Step(tool, "refresh", "reinstalling via %s", best)
			if err := s.install(ctx, desc, best); err != nil {
				out.Err = err
				return out
			}
			out.Changed = true
			return out
		}
		return s.converge(ctx, desc, out)
	}

	out.Err = fmt.Errorf("unhandled action %q", action)
	return out
}

// converge installs via the best method first and removes the
// superseded method only after the new installation verifies, so the
// tool is never left without a usable binary.
func (s *Service) converge(ctx context.Context, desc catalog.Descriptor, out Outcome) Outcome {
	tool := desc.Name

	if missing := depsMissing(s.Env, s.Catalog, desc); len(missing) > 0 {
		s.Trace.Step(tool, "deps", "missing dependencies: %s", strings.Join(missing, ", "))
	}

	if err := s.install(ctx, desc, out.Best); err != nil {
		out.Err = err
		return out
	}
	if err := s.verifyInstalled(ctx, desc, out.Best); err != nil {
		out.Err = err
		return out
	}
	out.Changed = true

	if out.Current != method.None && out.Current != out.Best {
		if err := s.remove(ctx, desc, out.Current); err != nil {
			// Non-fatal: the verified install supersedes the old copy.
			remErr := &RemovalError{Tool: tool, Method: out.Current, Err: err}
			out.RemovalFailure = remErr.Error()
			s.Trace.Step(tool, "remove", "failed (non-fatal): %v", err)
			s.logf("%v", remErr)
		}
	}
	return out
}

func (s *Service) uninstall(ctx context.Context, desc catalog.Descriptor, out Outcome) Outcome {
	tool := desc.Name
	if out.Current == method.None {
		s.Trace.Step(tool, "uninstall", "not installed; nothing to remove")
		return out
	}
	if err := s.remove(ctx, desc, out.Current); err != nil {
		out.Err = &RemovalError{Tool: tool, Method: out.Current, Err: err}
		return out
	}
	if m := s.Detector.DetectInstallMethod(ctx, tool, desc.Binary()); m != method.None {
		out.Err = fmt.Errorf("%s: binary still present after uninstall via %s", tool, out.Current)
		return out
	}
	out.Changed = true
	s.Trace.Step(tool, "uninstall", "removed via %s", out.Current)
	return out
}

func (s *Service) install(ctx context.Context, desc catalog.Descriptor, m method.Method) error {
	return s.invoke(ctx, desc, m, "install")
}

func (s *Service) remove(ctx context.Context, desc catalog.Descriptor, m method.Method) error {
	return s.invoke(ctx, desc, m, "remove")
}

func (s *Service) invoke(ctx context.Context, desc catalog.Descriptor, m method.Method, step string) error {
	h, ok := method.HandlerFor(m)
	if !ok {
		return fmt.Errorf("%s: no executor for method %s", desc.Name, m)
	}

	var argv []string
	if step == "install" {
		argv = h.InstallArgv(desc.Name, desc.MethodConfig(m))
	} else {
		argv = h.RemoveArgv(desc.Name, desc.MethodConfig(m))
	}
	if len(argv) == 0 {
		return fmt.Errorf("%s: method %s has no %s command configured", desc.Name, m, step)
	}
	if h.NeedsElevation && !s.Env.IsRoot() {
		argv = append([]string{"sudo", "-n"}, argv...)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.Trace.Step(desc.Name, step, "exec %s", strings.Join(argv, " "))
	res, err := s.Runner.Run(runCtx, argv[0], argv[1:], envx.RunOptions{})
	if err != nil {
		detail := firstLine(strings.TrimSpace(string(res.Stderr)))
		if detail != "" {
			return fmt.Errorf("%s via %s: %w (%s)", step, m, err, detail)
		}
		return fmt.Errorf("%s via %s: %w", step, m, err)
	}
	return nil
}

// verifyInstalled re-probes the binary after an install. The installer's
// exit status is not trusted on its own: absence here is a hard failure
// for the tool.
func (s *Service) verifyInstalled(ctx context.Context, desc catalog.Descriptor, m method.Method) error {
	detected := s.Detector.DetectInstallMethod(ctx, desc.Name, desc.Binary())
	if detected == method.None {
		return &VerificationError{Tool: desc.Name, Method: m}
	}
	s.Trace.Step(desc.Name, "verify", "binary present, classified as %s", detected)
	return nil
}

func verdict(current, best method.Method) Verdict {
	switch {
	case current == best:
		return VerdictOptimal
	case current == method.None:
		return VerdictWouldInstall
	default:
		return VerdictNeedsReconcile
	}
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

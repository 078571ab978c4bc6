package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"toolchest/internal/capability"
	"toolchest/internal/catalog"
	"toolchest/internal/envx"
	"toolchest/internal/method"
	"toolchest/internal/policy"
)

type fakeEnv struct {
	binaries map[string]string
	real     map[string]string
	dirs     map[string]bool
	home     string
	root     bool
}

func (f *fakeEnv) LookPath(name string) (string, error) {
	if path, ok := f.binaries[name]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

func (f *fakeEnv) RealPath(path string) (string, error) {
	if real, ok := f.real[path]; ok {
		return real, nil
	}
	return path, nil
}

func (f *fakeEnv) HomeDir() string         { return f.home }
func (f *fakeEnv) IsRoot() bool            { return f.root }
func (f *fakeEnv) DirExists(p string) bool { return f.dirs[p] }
func (f *fakeEnv) Getenv(string) string    { return "" }

// scriptedRunner records every invocation and lets tests mutate the
// fake host in response, mimicking what a real executor does to PATH.
type scriptedRunner struct {
	calls []string
	onRun func(line string) error
}

func (r *scriptedRunner) Run(_ context.Context, command string, args []string, _ envx.RunOptions) (envx.RunResult, error) {
	line := strings.Join(append([]string{command}, args...), " ")
	r.calls = append(r.calls, line)
	if r.onRun != nil {
		return envx.RunResult{}, r.onRun(line)
	}
	return envx.RunResult{}, nil
}

func (r *scriptedRunner) executorCalls() []string {
	var out []string
	for _, line := range r.calls {
		if strings.Contains(line, "install") || strings.Contains(line, "remove") ||
			strings.Contains(line, "uninstall") {
			out = append(out, line)
		}
	}
	return out
}

func ripgrep() catalog.Descriptor {
	return catalog.Descriptor{
		Name:          "ripgrep",
		BinaryName:    "rg",
		InstallMethod: "auto",
		AvailableMethods: []catalog.MethodSpec{
			{Method: "cargo", Priority: 1},
			{Method: "apt", Priority: 2},
		},
	}
}

type harness struct {
	env    *fakeEnv
	runner *scriptedRunner
	svc    *Service
}

func newHarness(t *testing.T, env *fakeEnv, runner *scriptedRunner, pol policy.Policy, tools ...catalog.Descriptor) *harness {
	t.Helper()
	cat, err := catalog.New(tools)
	if err != nil {
		t.Fatal(err)
	}
	det := capability.NewDetector(env, runner)
	caps := det.Snapshot(context.Background())
	svc := NewService(cat, pol, caps, det, runner, env, nil, nil)
	return &harness{env: env, runner: runner, svc: svc}
}

// aptHost models a host where rg came from apt and cargo is usable.
func aptHost() (*fakeEnv, *scriptedRunner) {
	env := &fakeEnv{
		home: "/home/dev",
		binaries: map[string]string{
			"rg":      "/usr/bin/rg",
			"cargo":   "/home/dev/.cargo/bin/cargo",
			"apt-get": "/usr/bin/apt-get",
			"sudo":    "/usr/bin/sudo",
			"dpkg":    "/usr/bin/dpkg",
		},
	}
	runner := &scriptedRunner{}
	runner.onRun = func(line string) error {
		switch {
		case strings.HasPrefix(line, "cargo install"):
			env.binaries["rg"] = "/home/dev/.cargo/bin/rg"
		case strings.HasPrefix(line, "cargo uninstall"):
			delete(env.binaries, "rg")
		case strings.HasPrefix(line, "sudo -n apt-get remove"):
			if env.binaries["rg"] == "/usr/bin/rg" {
				delete(env.binaries, "rg")
			}
		}
		return nil
	}
	return env, runner
}

func allowApt() policy.Policy {
	pol := policy.Default()
	pol.AllowApt = true
	return pol
}

func TestConvergenceInstallsBeforeRemoving(t *testing.T) {
	env, runner := aptHost()
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionReconcile)
	if out.Failed() {
		t.Fatalf("reconcile failed: %v", out.Err)
	}
	if out.Current != method.Apt || out.Best != method.Cargo {
		t.Fatalf("current=%s best=%s", out.Current, out.Best)
	}
	if !out.Changed {
		t.Fatal("expected a converging change")
	}

	execs := runner.executorCalls()
	if len(execs) != 2 {
		t.Fatalf("executor calls = %v", execs)
	}
	if !strings.HasPrefix(execs[0], "cargo install") {
		t.Fatalf("first executor call = %q, want cargo install", execs[0])
	}
	if !strings.HasPrefix(execs[1], "sudo -n apt-get remove") {
		t.Fatalf("second executor call = %q, want apt removal", execs[1])
	}

	// A follow-up detection reports the best method.
	det := capability.NewDetector(env, runner)
	if m := det.DetectInstallMethod(context.Background(), "ripgrep", "rg"); m != method.Cargo {
		t.Fatalf("post-reconcile method = %s, want cargo", m)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	env, runner := aptHost()
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	first := h.svc.Run(context.Background(), "ripgrep", ActionReconcile)
	if first.Failed() || !first.Changed {
		t.Fatalf("first reconcile: %+v", first)
	}

	before := len(runner.executorCalls())
	second := h.svc.Run(context.Background(), "ripgrep", ActionReconcile)
	if second.Failed() {
		t.Fatalf("second reconcile: %v", second.Err)
	}
	if second.Changed {
		t.Fatal("second reconcile should be a no-op")
	}
	if got := len(runner.executorCalls()); got != before {
		t.Fatalf("second reconcile ran executors: %v", runner.calls)
	}
}

func TestStatusHasNoSideEffects(t *testing.T) {
	env, runner := aptHost()
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionStatus)
	if out.Failed() {
		t.Fatal(out.Err)
	}
	if out.Verdict != VerdictNeedsReconcile {
		t.Fatalf("verdict = %s", out.Verdict)
	}
	if execs := runner.executorCalls(); len(execs) != 0 {
		t.Fatalf("status ran executors: %v", execs)
	}
}

func TestInstallRefreshesWhenAlreadyBest(t *testing.T) {
	env, runner := aptHost()
	env.binaries["rg"] = "/home/dev/.cargo/bin/rg"
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionInstall)
	if out.Failed() {
		t.Fatal(out.Err)
	}
	if !out.Changed {
		t.Fatal("refresh should report a change")
	}
	execs := runner.executorCalls()
	if len(execs) != 1 || !strings.HasPrefix(execs[0], "cargo install") {
		t.Fatalf("executor calls = %v", execs)
	}
}

func TestPinnedNeverNeverReachesExecutors(t *testing.T) {
	python := catalog.Descriptor{
		Name:             "python",
		InstallMethod:    "auto",
		PinnedVersion:    "never",
		AvailableMethods: []catalog.MethodSpec{{Method: "apt", Priority: 1}},
	}
	env, runner := aptHost()
	h := newHarness(t, env, runner, allowApt(), python)

	out := h.svc.Run(context.Background(), "python", ActionInstall)
	if !out.Skipped {
		t.Fatalf("outcome = %+v, want skipped", out)
	}
	if execs := runner.executorCalls(); len(execs) != 0 {
		t.Fatalf("pinned tool reached executors: %v", execs)
	}
}

func TestVerificationFailureIsHard(t *testing.T) {
	env, runner := aptHost()
	// The installer exits 0 but never produces a binary.
	runner.onRun = func(line string) error { return nil }
	delete(env.binaries, "rg")
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionInstall)
	var verErr *VerificationError
	if !errors.As(out.Err, &verErr) {
		t.Fatalf("expected VerificationError, got %v", out.Err)
	}
	if out.Changed {
		t.Fatal("failed install must not report a change")
	}
}

func TestRemovalFailureIsNonFatal(t *testing.T) {
	env, runner := aptHost()
	inner := runner.onRun
	runner.onRun = func(line string) error {
		if strings.HasPrefix(line, "sudo -n apt-get remove") {
			return errors.New("exit status 100")
		}
		return inner(line)
	}
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionReconcile)
	if out.Failed() {
		t.Fatalf("removal failure should not fail the tool: %v", out.Err)
	}
	if !out.Changed {
		t.Fatal("tool should still converge")
	}
	if out.RemovalFailure == "" {
		t.Fatal("removal failure should be reported")
	}
}

func TestUninstallRemovesCurrentMethod(t *testing.T) {
	env, runner := aptHost()
	env.binaries["rg"] = "/home/dev/.cargo/bin/rg"
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionUninstall)
	if out.Failed() {
		t.Fatal(out.Err)
	}
	if !out.Changed {
		t.Fatal("uninstall should report a change")
	}
	if _, err := env.LookPath("rg"); err == nil {
		t.Fatal("binary should be gone")
	}

	// Uninstalling again is a confirmed no-op.
	again := h.svc.Run(context.Background(), "ripgrep", ActionUninstall)
	if again.Failed() || again.Changed {
		t.Fatalf("second uninstall = %+v", again)
	}
}

func TestResolutionFailureIsScopedToTool(t *testing.T) {
	env, runner := aptHost()
	delete(env.binaries, "cargo")
	delete(env.binaries, "apt-get")
	h := newHarness(t, env, runner, allowApt(), ripgrep())

	out := h.svc.Run(context.Background(), "ripgrep", ActionReconcile)
	var resErr *policy.ResolutionError
	if !errors.As(out.Err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", out.Err)
	}
}

package capability

import (
	"context"
	"strings"

	"toolchest/internal/envx"
	"toolchest/internal/method"
)

// Details is extended diagnostics for status reporting. Every field is
// best-effort: a failed sub-probe leaves that field empty rather than
// raising.
type Details struct {
	Method  method.Method `json:"method"`
	Path    string        `json:"path,omitempty"`
	Owner   string        `json:"owner,omitempty"`
	Version string        `json:"version,omitempty"`
}

// CurrentDetails reports how a tool is installed right now, with the
// resolved path, owning package where a registry can name one, and the
// installed version where cheaply obtainable.
func (d *Detector) CurrentDetails(ctx context.Context, tool, binary string) Details {
	path, err := d.Env.LookPath(binary)
	if err != nil {
		return Details{Method: method.None}
	}
	real, _ := d.Env.RealPath(path)

	details := Details{
		Method: d.classify(ctx, tool, real),
		Path:   real,
	}
	details.Owner = d.probeOwner(ctx, details.Method, tool, real)
	details.Version = d.probeVersion(ctx, path)
	return details
}

func (d *Detector) probeOwner(ctx context.Context, m method.Method, tool, path string) string {
	switch m {
	case method.Apt:
		// dpkg -S prints "package: /path"; the prefix names the owner.
		out := d.queryOutput(ctx, "dpkg", []string{"-S", path})
		if idx := strings.IndexByte(out, ':'); idx > 0 {
			return strings.TrimSpace(out[:idx])
		}
		return ""
	case method.Cargo, method.Npm, method.Gem, method.Pip, method.Pipx, method.Brew:
		return tool
	default:
		return ""
	}
}

// probeVersion runs `binary --version` and keeps the first output line.
func (d *Detector) probeVersion(ctx context.Context, path string) string {
	out := d.queryOutput(ctx, path, []string{"--version"})
	return firstLine(out)
}

func (d *Detector) queryOutput(ctx context.Context, command string, args []string) string {
	if d.Runner == nil {
		return ""
	}
	res, err := d.Runner.Run(ctx, command, args, envx.RunOptions{})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(res.Stdout))
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

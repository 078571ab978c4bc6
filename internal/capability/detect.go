package capability

import (
	"context"
	"path/filepath"
	"strings"

	"toolchest/internal/envx"
	"toolchest/internal/method"
)

// DetectInstallMethod classifies how a tool's binary is currently
// installed. Returns none when the binary is not on the search path and
// unknown when it is but its origin cannot be classified confidently.
func (d *Detector) DetectInstallMethod(ctx context.Context, tool, binary string) method.Method {
	path, err := d.Env.LookPath(binary)
	if err != nil {
		return method.None
	}
	real, _ := d.Env.RealPath(path)
	return d.classify(ctx, tool, real)
}

func (d *Detector) classify(ctx context.Context, tool, path string) method.Method {
	home := d.Env.HomeDir()

	// Vendor-owned homes map directly to their method.
	if m, ok := vendorDirMatch(home, path); ok {
		return m
	}

	// Homebrew symlinks out of a Cellar regardless of prefix.
	if strings.Contains(path, "/Cellar/") {
		return method.Brew
	}

	// Generic user-local bin: several managers drop binaries here, so
	// disambiguate by asking each manager's own registry.
	if home != "" && underDir(path, filepath.Join(home, ".local", "bin")) {
		if d.Env.DirExists(filepath.Join(home, ".local", "share", "pipx", "venvs", tool)) {
			return method.Pipx
		}
		if d.managerOwns(ctx, "pip", []string{"show", tool}) {
			return method.Pip
		}
		// An opaque drop into ~/.local/bin is how release binaries land.
		return method.GithubRelease
	}

	// System directories: the OS package database decides first. npm
	// links global binaries into /usr/local/bin, so its registry gets
	// asked before giving up.
	if isSystemDir(path) {
		if d.managerOwns(ctx, "dpkg", []string{"-S", path}) {
			return method.Apt
		}
		if d.managerOwns(ctx, "npm", []string{"ls", "-g", tool}) {
			return method.Npm
		}
		return method.Unknown
	}

	return method.Unknown
}

// vendorDirMatch checks the handler table's per-method directory prefixes.
func vendorDirMatch(home, path string) (method.Method, bool) {
	for _, m := range method.Installable() {
		h, _ := method.HandlerFor(m)
		for _, dir := range h.AbsBinDirs {
			if m == method.Apt {
				// apt's system dirs need the dpkg cross-check instead.
				continue
			}
			if underDir(path, dir) {
				return m, true
			}
		}
		if home == "" {
			continue
		}
		for _, dir := range h.HomeBinDirs {
			if underDir(path, filepath.Join(home, dir)) {
				return m, true
			}
		}
	}
	return method.Unknown, false
}

// managerOwns runs a manager registry query; a zero exit means the
// manager claims the entry. Probe failure degrades to "does not own".
func (d *Detector) managerOwns(ctx context.Context, manager string, args []string) bool {
	if d.Runner == nil {
		return false
	}
	if _, err := d.Env.LookPath(manager); err != nil {
		return false
	}
	_, err := d.Runner.Run(ctx, manager, args, envx.RunOptions{})
	return err == nil
}

func isSystemDir(path string) bool {
	for _, dir := range []string{"/usr/bin", "/usr/sbin", "/usr/local/bin", "/bin", "/sbin"} {
		if underDir(path, dir) {
			return true
		}
	}
	return false
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

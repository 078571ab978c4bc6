package method

import "fmt"

// Handler describes how one method is probed and invoked. Install and
// remove mechanics stay opaque command lines handed to a Runner; this
// table only knows how to build them.
type Handler struct {
	// Manager is the binary whose presence on PATH makes the method usable.
	Manager string

	// NeedsElevation marks methods that mutate system-owned paths and so
	// additionally require root or a cached non-interactive sudo grant.
	NeedsElevation bool

	// HomeBinDirs are home-relative directories whose binaries belong to
	// this method. AbsBinDirs are absolute equivalents.
	HomeBinDirs []string
	AbsBinDirs  []string

	// InstallArgv and RemoveArgv build the executor command line for a
	// tool. Config is the catalog entry's per-method config block.
	InstallArgv func(tool string, cfg map[string]string) []string
	RemoveArgv  func(tool string, cfg map[string]string) []string
}

func pkgName(tool string, cfg map[string]string) string {
	if cfg != nil && cfg["package"] != "" {
		return cfg["package"]
	}
	return tool
}

var handlers = map[Method]Handler{
	Apt: {
		Manager:        "apt-get",
		NeedsElevation: true,
		AbsBinDirs:     []string{"/usr/bin", "/usr/sbin", "/bin", "/sbin"},
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"apt-get", "install", "-y", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"apt-get", "remove", "-y", pkgName(tool, cfg)}
		},
	},
	Cargo: {
		Manager:     "cargo",
		HomeBinDirs: []string{".cargo/bin"},
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"cargo", "install", "--locked", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"cargo", "uninstall", pkgName(tool, cfg)}
		},
	},
	Npm: {
		Manager:     "npm",
		HomeBinDirs: []string{".npm-global/bin"},
		AbsBinDirs:  []string{"/usr/local/lib/node_modules", "/usr/lib/node_modules"},
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"npm", "install", "-g", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"npm", "uninstall", "-g", pkgName(tool, cfg)}
		},
	},
	Gem: {
		Manager:     "gem",
		HomeBinDirs: []string{".local/share/gem/ruby", ".gem/ruby"},
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"gem", "install", "--user-install", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"gem", "uninstall", "-x", pkgName(tool, cfg)}
		},
	},
	Pip: {
		Manager: "pip",
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"pip", "install", "--user", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"pip", "uninstall", "-y", pkgName(tool, cfg)}
		},
	},
	Pipx: {
		Manager: "pipx",
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"pipx", "install", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"pipx", "uninstall", pkgName(tool, cfg)}
		},
	},
	Brew: {
		Manager:     "brew",
		AbsBinDirs:  []string{"/opt/homebrew", "/home/linuxbrew/.linuxbrew"},
		HomeBinDirs: []string{".linuxbrew"},
		InstallArgv: func(tool string, cfg map[string]string) []string {
			return []string{"brew", "install", pkgName(tool, cfg)}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			return []string{"brew", "uninstall", pkgName(tool, cfg)}
		},
	},
	GithubRelease: {
		// Release binaries are fetched over HTTPS; curl is the executor's
		// transport and doubles as the availability probe.
		Manager: "curl",
		InstallArgv: func(tool string, cfg map[string]string) []string {
			if cfg != nil && cfg["installCmd"] != "" {
				return []string{"sh", "-c", cfg["installCmd"]}
			}
			repo := ""
			if cfg != nil {
				repo = cfg["repo"]
			}
			bin := tool
			if cfg != nil && cfg["binary"] != "" {
				bin = cfg["binary"]
			}
			script := fmt.Sprintf(
				"set -e; mkdir -p \"$HOME/.local/bin\"; "+
					"curl -fsSL \"https://github.com/%s/releases/latest/download/%s\" -o \"$HOME/.local/bin/%s\"; "+
					"chmod +x \"$HOME/.local/bin/%s\"",
				repo, bin, bin, bin)
			return []string{"sh", "-c", script}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			bin := tool
			if cfg != nil && cfg["binary"] != "" {
				bin = cfg["binary"]
			}
			return []string{"sh", "-c", fmt.Sprintf("rm -f \"$HOME/.local/bin/%s\"", bin)}
		},
	},
	DedicatedScript: {
		Manager: "sh",
		InstallArgv: func(tool string, cfg map[string]string) []string {
			if cfg == nil || cfg["install"] == "" {
				return nil
			}
			return []string{"sh", "-c", cfg["install"]}
		},
		RemoveArgv: func(tool string, cfg map[string]string) []string {
			if cfg == nil || cfg["uninstall"] == "" {
				return nil
			}
			return []string{"sh", "-c", cfg["uninstall"]}
		},
	},
}

// HandlerFor returns the handler table entry for an installable method.
func HandlerFor(m Method) (Handler, bool) {
	h, ok := handlers[m]
	return h, ok
}

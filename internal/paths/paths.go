package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppPaths captures the canonical on-host locations for a run: where the
// catalog lives, where the user policy document sits, and where state
// and logs go.
type AppPaths struct {
	CatalogDir string
	PolicyFile string
	StateDir   string
	LogsDir    string
}

// Resolve determines the effective locations from flags, environment
// overrides, and XDG-style defaults, in that order.
func Resolve(catalogFlag, policyFlag string) (AppPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("resolve home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "toolchest")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "toolchest")
	}
	stateDir := filepath.Join(home, ".local", "state", "toolchest")
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		stateDir = filepath.Join(xdg, "toolchest")
	}

	catalogDir := filepath.Join(configDir, "catalog")
	if env := os.Getenv("TOOLCHEST_CATALOG"); env != "" {
		catalogDir = env
	}
	if catalogFlag != "" {
		catalogDir, err = filepath.Abs(catalogFlag)
		if err != nil {
			return AppPaths{}, fmt.Errorf("resolve catalog dir: %w", err)
		}
	}

	policyFile := filepath.Join(configDir, "policy.yaml")
	if policyFlag != "" {
		policyFile, err = filepath.Abs(policyFlag)
		if err != nil {
			return AppPaths{}, fmt.Errorf("resolve policy file: %w", err)
		}
	}

	return AppPaths{
		CatalogDir: catalogDir,
		PolicyFile: policyFile,
		StateDir:   stateDir,
		LogsDir:    filepath.Join(stateDir, "logs"),
	}, nil
}

// EnsureStateDirs creates the state and logs directories.
func (p AppPaths) EnsureStateDirs() error {
	for _, dir := range []string{p.StateDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure state dir: %w", err)
		}
	}
	return nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

package envx

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Environment abstracts the host queries that method detection and
// dependency checking rely on, so resolution logic can be exercised
// against a fake host in tests.
type Environment interface {
	// LookPath resolves an executable name via the search path.
	LookPath(name string) (string, error)
	// RealPath resolves symlinks to the binary's realized location.
	RealPath(path string) (string, error)
	// HomeDir returns the current user's home directory, or "" if unknown.
	HomeDir() string
	// IsRoot reports whether the process runs with root identity.
	IsRoot() bool
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool
	Getenv(key string) string
}

// OS is the live-host Environment.
type OS struct{}

func (OS) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (OS) RealPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, err
	}
	return resolved, nil
}

func (OS) HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (OS) IsRoot() bool {
	return os.Geteuid() == 0
}

func (OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OS) Getenv(key string) string {
	return os.Getenv(key)
}

var _ Environment = OS{}

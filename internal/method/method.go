package method

import "fmt"

// Method identifies one installation technique. The set is closed: catalog
// entries naming anything else are rejected at load time.
type Method string

const (
	Apt             Method = "apt"
	Cargo           Method = "cargo"
	Npm             Method = "npm"
	Gem             Method = "gem"
	Pip             Method = "pip"
	Pipx            Method = "pipx"
	Brew            Method = "brew"
	GithubRelease   Method = "github-release"
	DedicatedScript Method = "dedicated-script"

	// Unknown means a binary is installed but its origin could not be
	// classified. None means the binary is not installed at all.
	Unknown Method = "unknown"
	None    Method = "none"
)

// installable lists every method an executor exists for, in a stable order.
var installable = []Method{
	Apt, Cargo, Npm, Gem, Pip, Pipx, Brew, GithubRelease, DedicatedScript,
}

// Installable returns the methods that can appear in a catalog entry.
func Installable() []Method {
	out := make([]Method, len(installable))
	copy(out, installable)
	return out
}

// Parse validates a catalog or policy method tag.
func Parse(s string) (Method, error) {
	for _, m := range installable {
		if string(m) == s {
			return m, nil
		}
	}
	return Unknown, fmt.Errorf("unknown installation method %q", s)
}

// Installable reports whether m has a registered executor.
func (m Method) Installable() bool {
	for _, candidate := range installable {
		if m == candidate {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"toolchest/internal/method"
)

// Policy is the host-local user policy document. It is loaded once at
// the entrypoint and threaded explicitly through every call; nothing
// re-reads it mid-run.
type Policy struct {
	PreferredStrategy string            `yaml:"preferredStrategy"`
	AllowApt          bool              `yaml:"allowApt"`
	Overrides         map[string]string `yaml:"overrides"`
}

// Default returns the policy used when no document exists: catalog
// priorities unchanged, no elevated-privilege installs, no overrides.
func Default() Policy {
	return Policy{PreferredStrategy: string(StrategyAuto)}
}

// Load reads the policy document. A missing file is not an error; the
// defaults apply.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	pol := Default()
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	if pol.PreferredStrategy == "" {
		pol.PreferredStrategy = string(StrategyAuto)
	}
	if _, err := ParseStrategy(pol.PreferredStrategy); err != nil {
		return Policy{}, err
	}
	for tool, tag := range pol.Overrides {
		if _, err := method.Parse(tag); err != nil {
			return Policy{}, fmt.Errorf("override for %s: %w", tool, err)
		}
	}
	return pol, nil
}

// Strategy returns the validated strategy tag.
func (p Policy) Strategy() Strategy {
	s, err := ParseStrategy(p.PreferredStrategy)
	if err != nil {
		return StrategyAuto
	}
	return s
}

// Override returns the forced method for a tool, if one is configured.
func (p Policy) Override(tool string) (method.Method, bool) {
	tag, ok := p.Overrides[tool]
	if !ok {
		return method.None, false
	}
	m, err := method.Parse(tag)
	if err != nil {
		return method.None, false
	}
	return m, true
}

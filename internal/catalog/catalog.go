package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog holds every tool descriptor for a run, in catalog listing order
// (lexical by file name, matching on-disk browsing order).
type Catalog struct {
	Tools  []Descriptor
	byName map[string]int
}

// Load reads one JSON descriptor per file from dir.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	cat := &Catalog{byName: make(map[string]int)}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog entry %s: %w", name, err)
		}
		var desc Descriptor
		if err := json.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("parse catalog entry %s: %w", name, err)
		}
		if desc.Name == "" {
			return nil, fmt.Errorf("catalog entry %s: missing name", name)
		}
		if prev, dup := cat.byName[desc.Name]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate tool %q (already declared by %s)",
				name, desc.Name, cat.Tools[prev].Name)
		}
		cat.byName[desc.Name] = len(cat.Tools)
		cat.Tools = append(cat.Tools, desc)
	}

	return cat, nil
}

// New builds an in-memory catalog, preserving the given order. Used by
// tests and anywhere descriptors arrive without a backing directory.
func New(tools []Descriptor) (*Catalog, error) {
	cat := &Catalog{byName: make(map[string]int, len(tools))}
	for _, desc := range tools {
		if desc.Name == "" {
			return nil, fmt.Errorf("descriptor with empty name")
		}
		if _, dup := cat.byName[desc.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", desc.Name)
		}
		cat.byName[desc.Name] = len(cat.Tools)
		cat.Tools = append(cat.Tools, desc)
	}
	return cat, nil
}

// Get returns the descriptor for a tool name.
func (c *Catalog) Get(name string) (Descriptor, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.Tools[idx], true
}

// Names returns tool names in catalog listing order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Tools))
	for i, desc := range c.Tools {
		out[i] = desc.Name
	}
	return out
}

// AutoManaged returns the descriptors opted into reconciliation, in
// catalog listing order.
func (c *Catalog) AutoManaged() []Descriptor {
	var out []Descriptor
	for _, desc := range c.Tools {
		if desc.AutoManaged() {
			out = append(out, desc)
		}
	}
	return out
}

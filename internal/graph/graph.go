package graph

import (
	"fmt"
	"sort"
	"strings"

	"toolchest/internal/catalog"
)

// CycleError names every tool participating in a dependency cycle, not
// just the first one encountered.
type CycleError struct {
	Tools []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving: %s", strings.Join(e.Tools, ", "))
}

// Graph is the directed dependency graph over a catalog's requires
// edges. Edges point from a tool to what it requires; ordering puts
// requirements first.
type Graph struct {
	order      []string            // catalog listing order
	requires   map[string][]string // tool -> its dependencies
	dependents map[string][]string // dependency -> tools requiring it
}

// Build derives the graph from every descriptor's requires list. Edges
// to tools absent from the catalog are dropped; catalog validation
// reports those separately.
func Build(cat *catalog.Catalog) *Graph {
	g := &Graph{
		requires:   make(map[string][]string),
		dependents: make(map[string][]string),
	}
	for _, desc := range cat.Tools {
		g.order = append(g.order, desc.Name)
	}
	for _, desc := range cat.Tools {
		for _, dep := range desc.Requires {
			if _, ok := cat.Get(dep); !ok || dep == desc.Name {
				continue
			}
			g.requires[desc.Name] = append(g.requires[desc.Name], dep)
			g.dependents[dep] = append(g.dependents[dep], desc.Name)
		}
	}
	return g
}

// Requires returns a tool's direct dependencies.
func (g *Graph) Requires(tool string) []string {
	return g.requires[tool]
}

// TopoSort orders every tool so each occurs strictly after all of its
// dependencies (Kahn's algorithm). Ties resolve by catalog listing
// order so the result is stable across runs.
func (g *Graph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	for _, tool := range g.order {
		inDegree[tool] = len(g.requires[tool])
	}

	var queue []string
	for _, tool := range g.order {
		if inDegree[tool] == 0 {
			queue = append(queue, tool)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		tool := queue[0]
		queue = queue[1:]
		sorted = append(sorted, tool)
		for _, dependent := range g.dependents[tool] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) < len(g.order) {
		// Everything never removed sits on a cycle (or depends on one).
		var cycle []string
		for _, tool := range g.order {
			if inDegree[tool] > 0 {
				cycle = append(cycle, tool)
			}
		}
		sort.Strings(cycle)
		return nil, &CycleError{Tools: cycle}
	}
	return sorted, nil
}

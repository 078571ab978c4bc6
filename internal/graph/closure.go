package graph

import "fmt"

// InstallOrder returns the requested tools plus their transitive
// dependency closure, ordered so dependencies come first. The closure
// is collected breadth-first over requires edges and then filtered
// through the full topological order, which keeps a single globally
// valid ordering instead of sorting twice.
func (g *Graph) InstallOrder(requested []string) ([]string, error) {
	known := make(map[string]bool, len(g.order))
	for _, tool := range g.order {
		known[tool] = true
	}

	closure := make(map[string]bool)
	var queue []string
	for _, tool := range requested {
		if !known[tool] {
			return nil, fmt.Errorf("unknown tool %q", tool)
		}
		if !closure[tool] {
			closure[tool] = true
			queue = append(queue, tool)
		}
	}
	for len(queue) > 0 {
		tool := queue[0]
		queue = queue[1:]
		for _, dep := range g.requires[tool] {
			if !closure[dep] {
				closure[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	sorted, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, tool := range sorted {
		if closure[tool] {
			out = append(out, tool)
		}
	}
	return out, nil
}

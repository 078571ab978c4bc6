package reconcile

import (
	"context"

	"toolchest/internal/catalog"
	"toolchest/internal/envx"
	"toolchest/internal/graph"
)

// RunAll applies an action to every auto-managed tool. Tools are
// processed independently: a failure lands in the summary and the loop
// moves on. The default iteration is catalog listing order; ordered
// mode runs the dependency grapher's topological order instead and
// fails up front on a cycle. started fires before each tool's run so
// progress renderers can mark the row active.
func (s *Service) RunAll(ctx context.Context, action Action, ordered bool, started func(tool string), report func(Outcome)) (Summary, error) {
	var summary Summary

	tools, err := s.batchOrder(ordered)
	if err != nil {
		return summary, err
	}

	for _, tool := range tools {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if started != nil {
			started(tool)
		}
		out := s.Run(ctx, tool, action)
		summary.add(out)
		if report != nil {
			report(out)
		}
	}
	return summary, nil
}

func (s *Service) batchOrder(ordered bool) ([]string, error) {
	auto := make(map[string]bool)
	var listing []string
	for _, desc := range s.Catalog.AutoManaged() {
		auto[desc.Name] = true
		listing = append(listing, desc.Name)
	}
	if !ordered {
		return listing, nil
	}

	sorted, err := graph.Build(s.Catalog).TopoSort()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, tool := range sorted {
		if auto[tool] {
			out = append(out, tool)
		}
	}
	return out, nil
}

func depsMissing(env envx.Environment, cat *catalog.Catalog, desc catalog.Descriptor) []string {
	return graph.CheckDependencies(env, cat, desc.Name)
}

package graph

import (
	"toolchest/internal/catalog"
	"toolchest/internal/envx"
)

// CheckDependencies verifies that every declared dependency of a tool is
// currently resolvable on the search path. This is a present-day
// executability check, not a transitive install-state check: only the
// direct requires list is probed.
func CheckDependencies(env envx.Environment, cat *catalog.Catalog, tool string) (missing []string) {
	desc, ok := cat.Get(tool)
	if !ok {
		return nil
	}
	for _, dep := range desc.Requires {
		binary := dep
		if depDesc, ok := cat.Get(dep); ok {
			binary = depDesc.Binary()
		}
		if _, err := env.LookPath(binary); err != nil {
			missing = append(missing, dep)
		}
	}
	return missing
}

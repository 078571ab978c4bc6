package graph

import (
	"fmt"

	"toolchest/internal/catalog"
)

// OrderFinding is one display-order inconsistency. The display order is
// a human-authored presentation hint; disagreeing with the dependency
// edges is worth flagging but never fatal.
type OrderFinding struct {
	Tool       string
	Dependency string
	Message    string
}

// ValidateOrderConsistency cross-checks displayOrder hints against the
// requires edges: a dependency's number should be strictly less than
// its dependent's. Tools without a hint are skipped.
func ValidateOrderConsistency(cat *catalog.Catalog) []OrderFinding {
	var findings []OrderFinding
	for _, desc := range cat.Tools {
		if desc.DisplayOrder == 0 {
			continue
		}
		for _, dep := range desc.Requires {
			depDesc, ok := cat.Get(dep)
			if !ok || depDesc.DisplayOrder == 0 {
				continue
			}
			if depDesc.DisplayOrder >= desc.DisplayOrder {
				findings = append(findings, OrderFinding{
					Tool:       desc.Name,
					Dependency: dep,
					Message: fmt.Sprintf("%s (displayOrder %d) requires %s (displayOrder %d); dependency should come first",
						desc.Name, desc.DisplayOrder, dep, depDesc.DisplayOrder),
				})
			}
		}
	}
	return findings
}

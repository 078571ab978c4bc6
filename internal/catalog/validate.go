package catalog

import (
	"fmt"

	"toolchest/internal/method"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate runs structural checks over the whole catalog and returns
// findings. Errors make the catalog unusable for ordered operations;
// warnings are advisory.
func (c *Catalog) Validate() []ValidationResult {
	var results []ValidationResult
	for _, desc := range c.Tools {
		results = append(results, c.validateMethods(desc)...)
		results = append(results, c.validateRequires(desc)...)
		results = append(results, validatePins(desc)...)
	}
	return results
}

func (c *Catalog) validateMethods(desc Descriptor) []ValidationResult {
	var results []ValidationResult
	if desc.AutoManaged() && len(desc.AvailableMethods) == 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("tool %q is auto-managed but declares no methods", desc.Name),
		})
	}
	seen := map[string]bool{}
	for _, spec := range desc.AvailableMethods {
		if _, err := method.Parse(spec.Method); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q: %v", desc.Name, err),
			})
		}
		if spec.Priority < 1 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q: method %s has non-positive priority %d", desc.Name, spec.Method, spec.Priority),
			})
		}
		if seen[spec.Method] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("tool %q declares method %s more than once", desc.Name, spec.Method),
			})
		}
		seen[spec.Method] = true
	}
	return results
}

func (c *Catalog) validateRequires(desc Descriptor) []ValidationResult {
	var results []ValidationResult
	for _, dep := range desc.Requires {
		if dep == desc.Name {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q requires itself", desc.Name),
			})
			continue
		}
		if _, ok := c.Get(dep); !ok {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q requires %q, which is not in the catalog", desc.Name, dep),
			})
		}
	}
	return results
}

func validatePins(desc Descriptor) []ValidationResult {
	var results []ValidationResult
	if desc.PinnedVersion != "" && len(desc.PinnedVersions) > 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("tool %q sets both pinnedVersion and pinnedVersions; pinnedVersion wins", desc.Name),
		})
	}
	if desc.SupersededBy != "" && !desc.Deprecated {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("tool %q names a successor but is not marked deprecated", desc.Name),
		})
	}
	return results
}

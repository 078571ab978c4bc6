package catalog

import "toolchest/internal/method"

// PinNever excludes a tool from every install path.
const PinNever = "never"

// AutoMethod is the installMethod value that opts a tool into
// policy-based reconciliation. Any other value routes the tool to a
// dedicated installer outside this program.
const AutoMethod = "auto"

// MethodSpec is one catalog-declared way of installing a tool. Lower
// priority numbers are more preferred.
type MethodSpec struct {
	Method   string            `json:"method"`
	Priority int               `json:"priority"`
	Config   map[string]string `json:"config,omitempty"`
}

// Descriptor is the immutable per-tool catalog entry, loaded once per run.
type Descriptor struct {
	Name             string            `json:"name"`
	BinaryName       string            `json:"binaryName,omitempty"`
	InstallMethod    string            `json:"installMethod"`
	AvailableMethods []MethodSpec      `json:"availableMethods,omitempty"`
	Requires         []string          `json:"requires,omitempty"`
	PinnedVersion    string            `json:"pinnedVersion,omitempty"`
	PinnedVersions   map[string]string `json:"pinnedVersions,omitempty"`
	Deprecated       bool              `json:"deprecated,omitempty"`
	SupersededBy     string            `json:"supersededBy,omitempty"`
	DisplayOrder     int               `json:"displayOrder,omitempty"`
}

// Binary returns the executable name, defaulting to the tool name.
func (d Descriptor) Binary() string {
	if d.BinaryName != "" {
		return d.BinaryName
	}
	return d.Name
}

// AutoManaged reports whether the tool is reconciled by this program.
func (d Descriptor) AutoManaged() bool {
	return d.InstallMethod == AutoMethod
}

// PinnedNever reports whether the tool is excluded from all installs,
// either via pinnedVersion or via any per-cycle pin.
func (d Descriptor) PinnedNever() bool {
	if d.PinnedVersion == PinNever {
		return true
	}
	for _, v := range d.PinnedVersions {
		if v == PinNever {
			return true
		}
	}
	return false
}

// Pin returns the concrete pinned version, if any. "never" is not a
// version; callers check PinnedNever first.
func (d Descriptor) Pin() (string, bool) {
	if d.PinnedVersion != "" && d.PinnedVersion != PinNever {
		return d.PinnedVersion, true
	}
	return "", false
}

// MethodConfig returns the config block for a declared method.
func (d Descriptor) MethodConfig(m method.Method) map[string]string {
	for _, spec := range d.AvailableMethods {
		if spec.Method == string(m) {
			return spec.Config
		}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package syspkg

type (
	// LogicalPackage identifies a dependency by what it provides, independent
	// of any package manager's naming.
	LogicalPackage string

	// PackageNameMap translates logical packages to manager-specific names.
	PackageNameMap map[LogicalPackage]map[ManagerType]string
)

const (
	// PackageGit provides the git CLI.
	PackageGit LogicalPackage = "git"
	// PackagePython provides the python3 interpreter.
	PackagePython LogicalPackage = "python3"
	// PackageVenvModule provides the python3 venv module. Debian splits it
	// out of the interpreter package; Fedora and Homebrew bundle it.
	PackageVenvModule LogicalPackage = "python3-venv"
)

// String returns the string representation of the LogicalPackage.
func (p LogicalPackage) String() string { return string(p) }

// DefaultPackageNames returns the built-in translation table.
// Logical packages absent from the table resolve to their own name.
func DefaultPackageNames() PackageNameMap {
	return PackageNameMap{
		PackagePython: {
			ManagerAptGet: "python3",
			ManagerDnf:    "python3",
			ManagerBrew:   "python",
		},
		PackageVenvModule: {
			ManagerAptGet: "python3-venv",
			ManagerDnf:    "python3",
			ManagerBrew:   "python",
		},
	}
}

// Resolve returns the package name for a manager, falling back to the
// logical name when no translation exists.
func (m PackageNameMap) Resolve(pkg LogicalPackage, manager ManagerType) string {
	if names, ok := m[pkg]; ok {
		if name, ok := names[manager]; ok {
			return name
		}
	}
	return string(pkg)
}

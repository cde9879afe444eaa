package snapshot

import "stackline.dev/spm/pkg/pkgid"

// RawBuildPlan is the decoded snapshot document (spec.md §6): the
// compiler version and the core packages it ships, plus every user-land
// package the snapshot pins, each with optional flag overrides.
type RawBuildPlan struct {
	SystemInfo SystemInfo           `yaml:"system-info"`
	Packages   map[string]RawEntry `yaml:"packages"`
}

type SystemInfo struct {
	CompilerVersion string            `yaml:"compiler-version"`
	CorePackages    map[string]string `yaml:"core-packages"`
}

type RawEntry struct {
	Version     string                 `yaml:"version"`
	Constraints RawConstraints         `yaml:"constraints"`
}

type RawConstraints struct {
	FlagOverrides map[string]bool `yaml:"flag-overrides"`
}

// CorePackageIdentifiers returns the compiler-shipped package set as
// PackageIdentifiers, for handoff to the package index's allow-missing
// resolution (spec.md §4.3 step 1).
func (b *RawBuildPlan) CorePackageIdentifiers() (map[pkgid.PackageName]pkgid.Version, error) {
	out := make(map[pkgid.PackageName]pkgid.Version, len(b.SystemInfo.CorePackages))
	for name, raw := range b.SystemInfo.CorePackages {
		v, err := pkgid.NewVersion(raw)
		if err != nil {
			return nil, err
		}
		out[pkgid.PackageName(name)] = v
	}
	return out, nil
}

// UserPackages returns the user-land pins as (version, flag overrides),
// for handoff to the package index's fatal-on-missing resolution (spec.md
// §4.3 step 2).
func (b *RawBuildPlan) UserPackages() (map[pkgid.PackageName]pkgid.Version, map[pkgid.PackageName]pkgid.FlagAssignment, error) {
	versions := make(map[pkgid.PackageName]pkgid.Version, len(b.Packages))
	flags := make(map[pkgid.PackageName]pkgid.FlagAssignment, len(b.Packages))
	for name, entry := range b.Packages {
		v, err := pkgid.NewVersion(entry.Version)
		if err != nil {
			return nil, nil, err
		}
		versions[pkgid.PackageName(name)] = v
		if len(entry.Constraints.FlagOverrides) > 0 {
			fa := make(pkgid.FlagAssignment, len(entry.Constraints.FlagOverrides))
			for flagName, v := range entry.Constraints.FlagOverrides {
				fa[pkgid.FlagName(flagName)] = v
			}
			flags[pkgid.PackageName(name)] = fa
		}
	}
	return versions, flags, nil
}

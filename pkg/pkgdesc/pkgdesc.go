// Package pkgdesc declares the package-description oracle the resolution
// core treats as an external collaborator (spec.md §6): parsing package
// metadata and resolving its conditional dependency/executable/flag
// sections under a given configuration is explicitly out of scope for this
// module, and is consumed through this interface instead.
package pkgdesc

import (
	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
)

// Config enumerates the context under which a description is resolved.
type Config struct {
	EnableTests      bool
	EnableBenchmarks bool
	Flags            pkgid.FlagAssignment
	CompilerVersion  compiler.Version
	Platform         platform.Platform
}

// FlagSpec describes one conditional flag a package declares.
type FlagSpec struct {
	Name    pkgid.FlagName
	Default bool
	Manual  bool
}

// Unresolved is a parsed-but-unconfigured package description: enough to
// enumerate its declared flags, but not yet evaluated against a Config.
type Unresolved interface {
	Name() pkgid.PackageName
	Version() pkgid.Version
	Flags() []FlagSpec
}

// Resolved is a package description evaluated under a Config: §6's
// queryable packageDependencies / packageToolDependencies / executables /
// library.buildInfo.buildable.
type Resolved interface {
	PackageDependencies() map[pkgid.PackageName]pkgid.VersionRange
	PackageToolDependencies() []pkgid.ToolName
	Executables() []pkgid.ExeName
	HasLibrary() bool
}

// Warning is a non-fatal note emitted while parsing a description's raw
// bytes, surfaced for logging but never fatal to resolution.
type Warning string

// Oracle is the package-description oracle: parse raw cabal-file bytes,
// then resolve the parsed description under a Config.
type Oracle interface {
	ReadUnresolved(raw []byte) ([]Warning, Unresolved, error)
	Resolve(cfg Config, desc Unresolved) (Resolved, error)
}

// ResolvedDeps projects a Resolved description's dependency constraints as
// a DepErrors-ready map, used by §4.7's checkPackageBuildPlan. It always
// drops the description's own (self) entry per spec.md §4.7.
func ResolvedDeps(self pkgid.PackageName, r Resolved) map[pkgid.PackageName]pkgid.VersionRange {
	out := make(map[pkgid.PackageName]pkgid.VersionRange, len(r.PackageDependencies()))
	for name, rng := range r.PackageDependencies() {
		if name == self {
			continue
		}
		out[name] = rng
	}
	return out
}

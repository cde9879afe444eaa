package materializer

import (
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
)

// fixes is the closed set of build-plan fixes from spec.md §6: deterministic
// flag overrides for packages whose default configuration doesn't build
// cleanly against a materialized snapshot.
var fixes = map[pkgid.PackageName]pkgid.FlagAssignment{
	"persistent-sqlite": {"systemlib": false},
	"yaml":              {"system-libyaml": false},
}

// applyFixes overwrites the fixed flags on every package the closed set
// names, if present in the plan.
func applyFixes(packages map[pkgid.PackageName]*miniplan.PackageInfo) {
	for name, override := range fixes {
		info, ok := packages[name]
		if !ok {
			continue
		}
		if info.Flags == nil {
			info.Flags = pkgid.FlagAssignment{}
		}
		for flag, v := range override {
			info.Flags[flag] = v
		}
	}
}

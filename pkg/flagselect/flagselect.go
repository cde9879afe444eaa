// Package flagselect implements the per-package flag selector and checker
// (spec.md §4.6/§4.7): enumerating bounded flag-assignment combinations and
// scoring each against a version pool via the package-description oracle.
package flagselect

import (
	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/deperror"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
)

// MaxCombinations bounds the flag-assignment search (spec.md §4.6).
const MaxCombinations = 128

// Result is one candidate's outcome: the flags tried and the errors found
// against the pool.
type Result struct {
	Flags  pkgid.FlagAssignment
	Errors deperror.DepErrors
}

// CheckPackageBuildPlan is checkPackageBuildPlan (spec.md §4.7): resolve
// desc under flags with tests and benchmarks enabled, drop the self-entry,
// and diff every remaining dependency against the pool.
func CheckPackageBuildPlan(oracle pkgdesc.Oracle, plat platform.Platform, cv compiler.Version, pool map[pkgid.PackageName]pkgid.Version, flags pkgid.FlagAssignment, desc pkgdesc.Unresolved) (deperror.DepErrors, error) {
	cfg := pkgdesc.Config{
		EnableTests:      true,
		EnableBenchmarks: true,
		Flags:            flags,
		CompilerVersion:  cv,
		Platform:         plat,
	}

	resolved, err := oracle.Resolve(cfg, desc)
	if err != nil {
		return nil, err
	}

	errs := deperror.NewErrors()
	for name, rng := range pkgdesc.ResolvedDeps(desc.Name(), resolved) {
		observed, present := pool[name]
		switch {
		case !present:
			errs.Add(name, deperror.Identity().WithRequirer(desc.Name(), rng))
		case !rng.WithinRange(observed):
			d := deperror.DepError{Observed: &observed, NeededBy: map[pkgid.PackageName]pkgid.VersionRange{desc.Name(): rng}}
			errs.Add(name, d)
		}
	}
	return errs, nil
}

// SelectPackageBuildPlan is selectPackageBuildPlan (spec.md §4.6): enumerate
// flag combinations (all-defaults first), evaluate each via
// CheckPackageBuildPlan, and keep the one with the fewest errors — ties
// favor the earlier-enumerated combination, with a short-circuit on zero
// errors.
func SelectPackageBuildPlan(oracle pkgdesc.Oracle, plat platform.Platform, cv compiler.Version, pool map[pkgid.PackageName]pkgid.Version, desc pkgdesc.Unresolved) (Result, error) {
	combos := enumerate(desc.Flags())

	var best Result
	haveBest := false

	for _, flags := range combos {
		errs, err := CheckPackageBuildPlan(oracle, plat, cv, pool, flags, desc)
		if err != nil {
			return Result{}, err
		}
		if !haveBest || len(errs) < len(best.Errors) {
			best = Result{Flags: flags, Errors: errs}
			haveBest = true
		}
		if len(errs) == 0 {
			break
		}
	}

	return best, nil
}

// enumerate produces the Cartesian product of per-flag options, "all
// defaults" first, truncated at MaxCombinations. Manual flags contribute a
// singleton; non-manual flags contribute [default, !default].
func enumerate(specs []pkgdesc.FlagSpec) []pkgid.FlagAssignment {
	options := make([][]bool, len(specs))
	for i, spec := range specs {
		if spec.Manual {
			options[i] = []bool{spec.Default}
			continue
		}
		options[i] = []bool{spec.Default, !spec.Default}
	}

	combos := []pkgid.FlagAssignment{{}}
	for i, spec := range specs {
		var next []pkgid.FlagAssignment
		for _, combo := range combos {
			for _, opt := range options[i] {
				if len(next) >= MaxCombinations {
					break
				}
				extended := make(pkgid.FlagAssignment, len(combo)+1)
				for k, v := range combo {
					extended[k] = v
				}
				extended[spec.Name] = opt
				next = append(next, extended)
			}
		}
		combos = next
		if len(combos) >= MaxCombinations {
			combos = combos[:MaxCombinations]
			break
		}
	}

	if len(combos) == 0 {
		combos = []pkgid.FlagAssignment{{}}
	}
	return combos
}

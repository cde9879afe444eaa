// Package bundlecheck implements checkBundleBuildPlan (spec.md §4.8): flag
// selection/checking across every local package at once, with locals
// satisfying each other via a synthetic pool extension.
package bundlecheck

import (
	"fmt"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/deperror"
	"stackline.dev/spm/pkg/flagselect"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
	"stackline.dev/spm/pkg/spmerr"
)

// Local is one local package participating in the bundle check: its
// unresolved description and an optional externally-fixed flag map (a nil
// map means "run the selector instead of checking a fixed assignment").
type Local struct {
	Desc  pkgdesc.Unresolved
	Flags pkgid.FlagAssignment
}

// Result is the combined outcome across every local package.
type Result struct {
	Flags  map[pkgid.PackageName]pkgid.FlagAssignment
	Errors deperror.DepErrors
}

// DuplicateLocalPackageError is a programmer error: two local packages
// declared the same name.
type DuplicateLocalPackageError struct {
	Name pkgid.PackageName
}

func (e *DuplicateLocalPackageError) Error() string {
	return fmt.Sprintf("bundlecheck: duplicate local package name %q", e.Name)
}

// CheckBundleBuildPlan runs §4.8's algorithm: extend pool with a synthetic
// self-entry per local, reject duplicate local names, check or select each
// local's flags, then union the flag maps and monoid-merge the dep-error
// maps.
func CheckBundleBuildPlan(oracle pkgdesc.Oracle, plat platform.Platform, cv compiler.Version, pool map[pkgid.PackageName]pkgid.Version, locals []Local) (Result, error) {
	extended := make(map[pkgid.PackageName]pkgid.Version, len(pool)+len(locals))
	for name, v := range pool {
		extended[name] = v
	}

	seen := map[pkgid.PackageName]bool{}
	for _, local := range locals {
		name := local.Desc.Name()
		if seen[name] {
			spmerr.Panic(&DuplicateLocalPackageError{Name: name})
		}
		seen[name] = true
		extended[name] = local.Desc.Version()
	}

	flags := map[pkgid.PackageName]pkgid.FlagAssignment{}
	errs := deperror.NewErrors()

	for _, local := range locals {
		name := local.Desc.Name()

		var localFlags pkgid.FlagAssignment
		var localErrs deperror.DepErrors
		var err error

		if local.Flags != nil {
			localFlags = local.Flags
			localErrs, err = flagselect.CheckPackageBuildPlan(oracle, plat, cv, extended, localFlags, local.Desc)
		} else {
			var result flagselect.Result
			result, err = flagselect.SelectPackageBuildPlan(oracle, plat, cv, extended, local.Desc)
			localFlags = result.Flags
			localErrs = result.Errors
		}
		if err != nil {
			return Result{}, fmt.Errorf("bundlecheck: checking %s: %w", name, err)
		}

		flags[name] = localFlags
		errs = deperror.Merge(errs, localErrs)
	}

	return Result{Flags: flags, Errors: errs}, nil
}

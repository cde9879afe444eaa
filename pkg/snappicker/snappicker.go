// Package snappicker implements findBuildPlan and checkSnapBuildPlan
// (spec.md §4.9): iterating candidate snapshots, classifying each bundle
// check as Ok/Partial/Fail, and keeping the best Partial seen so far.
package snappicker

import (
	"stackline.dev/spm/pkg/bundlecheck"
	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/deperror"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
)

// WiredIn is the fixed set of compiler-wired-in packages consulted when
// classifying dep-error severity (spec.md §9): a conflict touching one of
// these can never be worked around by picking a different snapshot, so it
// is fatal for the candidate rather than merely partial.
var WiredIn = map[pkgid.PackageName]bool{
	"ghc":       true,
	"base":      true,
	"ghc-prim":  true,
	"integer-gmp": true,
	"template-haskell": true,
}

// Check is BuildPlanCheck: the tagged union {Ok, Partial, Fail}.
type Check struct {
	Kind     Kind
	Flags    map[pkgid.PackageName]pkgid.FlagAssignment
	Errors   deperror.DepErrors
	Compiler compiler.Version
}

type Kind int

const (
	Ok Kind = iota
	Partial
	Fail
)

// CheckSnapBuildPlan runs a bundle check and classifies it: nonempty
// compiler-wired-in errors is Fail, else nonempty errors is Partial, else
// Ok.
func CheckSnapBuildPlan(oracle pkgdesc.Oracle, plat platform.Platform, cv compiler.Version, pool map[pkgid.PackageName]pkgid.Version, locals []bundlecheck.Local) (Check, error) {
	result, err := bundlecheck.CheckBundleBuildPlan(oracle, plat, cv, pool, locals)
	if err != nil {
		return Check{}, err
	}

	compilerErrs := deperror.NewErrors()
	rest := deperror.NewErrors()
	for name, e := range result.Errors {
		if WiredIn[name] {
			compilerErrs.Add(name, e)
		} else {
			rest.Add(name, e)
		}
	}

	switch {
	case len(compilerErrs) > 0:
		return Check{Kind: Fail, Compiler: cv, Errors: compilerErrs}, nil
	case len(rest) > 0:
		return Check{Kind: Partial, Flags: result.Flags, Errors: rest}, nil
	default:
		return Check{Kind: Ok, Flags: result.Flags}, nil
	}
}

// Candidate is one snapshot under consideration: its identity (opaque to
// this package — callers can use a snapname.Name or any comparable key)
// plus the inputs CheckSnapBuildPlan needs to evaluate it.
type Candidate[T any] struct {
	Snapshot T
	Compiler compiler.Version
	Pool     map[pkgid.PackageName]pkgid.Version
	Locals   []bundlecheck.Local
}

// Progress reports one candidate's outcome as findBuildPlan iterates, for
// caller-side rendering (spec.md §4.9's "report progress per candidate").
type Progress[T any] struct {
	Snapshot T
	Check    Check
}

// FindBuildPlan iterates candidates in order, stopping at the first Ok
// without evaluating any candidate after it, otherwise remembering the
// strictly-best Partial seen so far (ties favor the first seen) and
// skipping every Fail entirely.
func FindBuildPlan[T any](oracle pkgdesc.Oracle, plat platform.Platform, candidates []Candidate[T], onProgress func(Progress[T])) (T, Check, bool, error) {
	snaps := make([]T, 0, len(candidates))
	checks := make([]Check, 0, len(candidates))

	for _, c := range candidates {
		check, err := CheckSnapBuildPlan(oracle, plat, c.Compiler, c.Pool, c.Locals)
		if err != nil {
			var zero T
			return zero, Check{}, false, err
		}
		if onProgress != nil {
			onProgress(Progress[T]{Snapshot: c.Snapshot, Check: check})
		}
		snaps = append(snaps, c.Snapshot)
		checks = append(checks, check)

		if check.Kind == Ok {
			break
		}
	}

	return pickBest(snaps, checks)
}

// pickBest is FindBuildPlan's selection rule in isolation, over
// already-computed checks — the piece spec.md's S5 scenario exercises
// directly, including the degenerate "Partial with zero errors" case the
// classifier itself never produces but the selection rule must still
// handle correctly for symmetry with Ok.
func pickBest[T any](snaps []T, checks []Check) (T, Check, bool, error) {
	var best T
	var bestCheck Check
	haveBest := false

	for i, check := range checks {
		switch check.Kind {
		case Ok:
			return snaps[i], check, true, nil
		case Partial:
			if !haveBest || len(check.Errors) < len(bestCheck.Errors) {
				best = snaps[i]
				bestCheck = check
				haveBest = true
			}
		case Fail:
			continue
		}
	}

	if haveBest && len(bestCheck.Errors) == 0 {
		return best, bestCheck, true, nil
	}

	var zero T
	return zero, Check{}, false, nil
}

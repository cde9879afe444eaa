// Package shadow implements shadowMiniBuildPlan (spec.md §4.10): projecting
// a MiniPlan to exclude shadowed packages and anything whose transitive
// dependency closure is broken as a result.
package shadow

import (
	mapset "github.com/deckarep/golang-set/v2"

	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/spmerr"
)

// CycleError is the fatal internal error raised when a package is observed
// twice on the current DFS path — the input MiniPlan is malformed
// (spec.md §4.10).
type CycleError struct {
	Path []pkgid.PackageName
}

func (e *CycleError) Error() string {
	return "shadow: cycle detected in MiniPlan packageDeps"
}

// Project is shadowMiniBuildPlan: it removes shadowed names from the
// package map, then DFS-walks packageDeps with memoization to decide
// whether each remaining package's closure is clean. Retained packages are
// returned in the first map; rejected packages (shadowed, or broken via a
// shadowed transitive dependency) in the second.
func Project(plan *miniplan.Plan, shadowed mapset.Set[pkgid.PackageName]) (*miniplan.Plan, map[pkgid.PackageName]*miniplan.PackageInfo) {
	remaining := make(map[pkgid.PackageName]*miniplan.PackageInfo, len(plan.Packages))
	removed := map[pkgid.PackageName]*miniplan.PackageInfo{}

	for name, info := range plan.Packages {
		if shadowed.Contains(name) {
			removed[name] = info
			continue
		}
		remaining[name] = info
	}

	w := &walker{
		remaining: remaining,
		shadowed:  shadowed,
		memo:      map[pkgid.PackageName]bool{},
		onPath:    map[pkgid.PackageName]bool{},
	}

	out := miniplan.New(plan.CompilerVersion)
	for name, info := range remaining {
		if w.clean(name) {
			out.Packages[name] = info
		} else {
			removed[name] = info
		}
	}

	return out, removed
}

type walker struct {
	remaining map[pkgid.PackageName]*miniplan.PackageInfo
	shadowed  mapset.Set[pkgid.PackageName]
	memo      map[pkgid.PackageName]bool
	onPath    map[pkgid.PackageName]bool
}

// clean reports whether name's transitive packageDeps closure touches
// neither a shadowed package nor a broken dependency.
func (w *walker) clean(name pkgid.PackageName) bool {
	if v, ok := w.memo[name]; ok {
		return v
	}
	if w.onPath[name] {
		spmerr.Panic(&CycleError{Path: []pkgid.PackageName{name}})
	}
	w.onPath[name] = true
	defer delete(w.onPath, name)

	info, ok := w.remaining[name]
	if !ok {
		// Absent from the post-removal map: true unless it was
		// removed for being shadowed (spec.md's open-question
		// heuristic — a legitimately platform-absent dependency is
		// assumed clean).
		result := !w.shadowed.Contains(name)
		w.memo[name] = result
		return result
	}

	result := true
	for dep := range info.PackageDeps.Iter() {
		if !w.clean(dep) {
			result = false
		}
	}
	w.memo[name] = result
	return result
}

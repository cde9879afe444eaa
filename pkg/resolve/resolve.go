// Package resolve implements the target resolver (spec.md §4.5):
// resolveBuildPlan / getDeps, a memoized depth-first closure over a
// MiniPlan that accumulates install decisions, usage edges, unknown names,
// and shadow taint.
package resolve

import (
	mapset "github.com/deckarep/golang-set/v2"

	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/toolmap"
)

// Install is the per-package decision a target closure resolves to.
type Install struct {
	Version pkgid.Version
	Flags   pkgid.FlagAssignment
}

// State is ResolveState (spec.md §3): the mutable record threaded through
// the recursive closure.
type State struct {
	plan    *miniplan.Plan
	tools   toolmap.Map
	shadow  func(pkgid.PackageName) bool

	visited  map[pkgid.PackageName]mapset.Set[pkgid.PackageName]
	unknown  map[pkgid.PackageName]mapset.Set[pkgid.PackageName]
	shadowed map[pkgid.PackageName]mapset.Set[pkgid.PackageIdentifier]
	toInstall map[pkgid.PackageName]Install
	usedBy    map[pkgid.PackageName]mapset.Set[pkgid.PackageName]
}

func newState(plan *miniplan.Plan, isShadowed func(pkgid.PackageName) bool) *State {
	return &State{
		plan:      plan,
		tools:     toolmap.Build(plan),
		shadow:    isShadowed,
		visited:   map[pkgid.PackageName]mapset.Set[pkgid.PackageName]{},
		unknown:   map[pkgid.PackageName]mapset.Set[pkgid.PackageName]{},
		shadowed:  map[pkgid.PackageName]mapset.Set[pkgid.PackageIdentifier]{},
		toInstall: map[pkgid.PackageName]Install{},
		usedBy:    map[pkgid.PackageName]mapset.Set[pkgid.PackageName]{},
	}
}

// UnknownPackages is the fatal result of a closure that touched absent or
// shadowed names (spec.md §7).
type UnknownPackages struct {
	// Unknown maps an absent target name to its best-known version (if
	// any index has ever heard of it) and the requirers that reached it.
	Unknown map[pkgid.PackageName]UnknownEntry
	// Shadowed maps a shadowed name to every requirer identifier that
	// reached it — spec.md's "shadowing taints every transitive
	// requirer".
	Shadowed map[pkgid.PackageName]mapset.Set[pkgid.PackageIdentifier]
}

type UnknownEntry struct {
	BestVersion *pkgid.Version
	Requirers   mapset.Set[pkgid.PackageName]
}

func (e *UnknownPackages) Error() string {
	return "resolve: target closure touched unknown or shadowed packages"
}

// ResolveBuildPlan computes the target closure (spec.md §4.5). targets maps
// a target package name to its requirer set (usually the local packages
// that mention it). knownVersions supplies the "best-known version" lookup
// for unknown-name diagnostics (spec.md's open question: max across known
// indexes — callers pass pkgid.Max-folded results here).
func ResolveBuildPlan(plan *miniplan.Plan, isShadowed func(pkgid.PackageName) bool, targets map[pkgid.PackageName]mapset.Set[pkgid.PackageName], knownVersions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]Install, map[pkgid.PackageName]mapset.Set[pkgid.PackageName], error) {
	st := newState(plan, isShadowed)

	for name, requirers := range targets {
		st.getDeps(name, requirers)
	}

	if len(st.unknown) == 0 && len(st.shadowed) == 0 {
		return st.toInstall, st.usedBy, nil
	}

	unknown := make(map[pkgid.PackageName]UnknownEntry, len(st.unknown))
	for name, requirers := range st.unknown {
		entry := UnknownEntry{Requirers: requirers}
		if v, ok := knownVersions[name]; ok {
			entry.BestVersion = &v
		}
		unknown[name] = entry
	}

	return nil, nil, &UnknownPackages{Unknown: unknown, Shadowed: st.shadowed}
}

// getDeps is the per-node recursive step. It returns the set of names this
// node's subtree has discovered to be shadowed, for the caller to taint its
// own requirer chain with.
func (st *State) getDeps(name pkgid.PackageName, requirers mapset.Set[pkgid.PackageName]) mapset.Set[pkgid.PackageName] {
	st.mergeUsedBy(name, requirers)

	info, ok := st.plan.Packages[name]
	if !ok {
		st.mergeUnknown(name, requirers)
		return mapset.NewThreadUnsafeSet[pkgid.PackageName]()
	}

	if closure, ok := st.visited[name]; ok {
		return closure
	}

	// Placeholder to break cycles: a re-entrant call before this frame
	// returns sees an empty closure rather than recursing forever.
	st.visited[name] = mapset.NewThreadUnsafeSet[pkgid.PackageName]()

	self := pkgid.PackageIdentifier{Name: name, Version: info.Version}
	deps := info.PackageDeps.Union(st.tools.Expand(info.ToolDeps))
	deps.Remove(name)

	childShadowed := mapset.NewThreadUnsafeSet[pkgid.PackageName]()
	for dep := range deps.Iter() {
		if st.shadow(dep) {
			st.addShadowed(dep, self)
			childShadowed.Add(dep)
			continue
		}
		reportedShadowed := st.getDeps(dep, mapset.NewThreadUnsafeSet(name))
		for tainted := range reportedShadowed.Iter() {
			st.addShadowed(tainted, self)
			childShadowed.Add(tainted)
		}
	}

	st.toInstall[name] = Install{Version: info.Version, Flags: info.Flags}
	st.visited[name] = childShadowed
	return childShadowed
}

func (st *State) mergeUsedBy(name pkgid.PackageName, requirers mapset.Set[pkgid.PackageName]) {
	if existing, ok := st.usedBy[name]; ok {
		st.usedBy[name] = existing.Union(requirers)
	} else {
		st.usedBy[name] = requirers.Clone()
	}
}

func (st *State) mergeUnknown(name pkgid.PackageName, requirers mapset.Set[pkgid.PackageName]) {
	if existing, ok := st.unknown[name]; ok {
		st.unknown[name] = existing.Union(requirers)
	} else {
		st.unknown[name] = requirers.Clone()
	}
}

func (st *State) addShadowed(name pkgid.PackageName, requirer pkgid.PackageIdentifier) {
	if _, ok := st.shadowed[name]; !ok {
		st.shadowed[name] = mapset.NewThreadUnsafeSet[pkgid.PackageIdentifier]()
	}
	st.shadowed[name].Add(requirer)
}

// Package deperror implements the DepError/DepErrors monoid described in
// spec.md §3: an accumulating record of why a dependency is unsatisfied,
// mergeable across multiple requirers without losing information.
package deperror

import (
	"sort"

	"stackline.dev/spm/pkg/pkgid"
)

// DepError records one package's unsatisfied state: the version observed
// in the pool (if any) and every requirer's range intersected so far.
type DepError struct {
	Observed  *pkgid.Version
	NeededBy  map[pkgid.PackageName]pkgid.VersionRange
}

func New() DepError {
	return DepError{NeededBy: map[pkgid.PackageName]pkgid.VersionRange{}}
}

// Combine is the monoid operation: observed takes the right-hand side when
// present (later observations dominate, so repeated merges can enrich a
// diagnostic with a concrete version once any requirer encounters one),
// and neededBy merges by range intersection per requirer.
func Combine(a, b DepError) DepError {
	out := DepError{Observed: a.Observed, NeededBy: make(map[pkgid.PackageName]pkgid.VersionRange, len(a.NeededBy)+len(b.NeededBy))}
	if b.Observed != nil {
		out.Observed = b.Observed
	}
	for name, r := range a.NeededBy {
		out.NeededBy[name] = r
	}
	for name, r := range b.NeededBy {
		if existing, ok := out.NeededBy[name]; ok {
			out.NeededBy[name] = existing.Intersect(r)
		} else {
			out.NeededBy[name] = r
		}
	}
	return out
}

// Identity is the DepError monoid identity: no observation, no requirers.
func Identity() DepError { return New() }

// WithRequirer returns a copy of d with requirer added at range r,
// intersected with any existing range recorded for that requirer.
func (d DepError) WithRequirer(requirer pkgid.PackageName, r pkgid.VersionRange) DepError {
	return Combine(d, DepError{NeededBy: map[pkgid.PackageName]pkgid.VersionRange{requirer: r}})
}

// DepErrors is a package name -> DepError map, the per-check result of
// §4.6/§4.7/§4.8/§4.9.
type DepErrors map[pkgid.PackageName]DepError

func NewErrors() DepErrors { return DepErrors{} }

// Add merges err into the entry for name.
func (es DepErrors) Add(name pkgid.PackageName, err DepError) {
	if existing, ok := es[name]; ok {
		es[name] = Combine(existing, err)
	} else {
		es[name] = err
	}
}

// Merge combines two DepErrors maps per-key via the DepError monoid,
// mutating neither argument.
func Merge(a, b DepErrors) DepErrors {
	out := make(DepErrors, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out.Add(k, v)
	}
	return out
}

// Names returns the error package names in deterministic (sorted) order,
// for stable diagnostic rendering.
func (es DepErrors) Names() []pkgid.PackageName {
	names := make([]pkgid.PackageName, 0, len(es))
	for n := range es {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Package toolmap implements spec.md §4.4: getToolMap, a reverse index
// from executable name to the packages that provide it.
package toolmap

import (
	mapset "github.com/deckarep/golang-set/v2"

	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
)

// Map is ToolName -> Set<PackageName>. It deliberately has no identity
// entry mapping a package's own name to itself — a tool dependency on
// name N resolves only via declared executables (spec.md §4.4, tested by
// property 4, "tool-map exclusivity").
type Map map[pkgid.ToolName]mapset.Set[pkgid.PackageName]

// Build projects a MiniPlan into its tool map: for each package, every
// exe it provides contributes {exe: {package}}, merged by set union.
func Build(plan *miniplan.Plan) Map {
	m := Map{}
	for name, info := range plan.Packages {
		for exe := range info.Exes.Iter() {
			tool := pkgid.ToolName(exe)
			if _, ok := m[tool]; !ok {
				m[tool] = mapset.NewThreadUnsafeSet[pkgid.PackageName]()
			}
			m[tool].Add(name)
		}
	}
	return m
}

// Providers returns the packages that provide tool, or an empty set.
func (m Map) Providers(tool pkgid.ToolName) mapset.Set[pkgid.PackageName] {
	if s, ok := m[tool]; ok {
		return s
	}
	return mapset.NewThreadUnsafeSet[pkgid.PackageName]()
}

// Expand resolves a set of tool dependencies into the union of their
// providing packages (spec.md §4.5's "expand(toolDeps via tool map)").
func (m Map) Expand(tools mapset.Set[pkgid.ToolName]) mapset.Set[pkgid.PackageName] {
	out := mapset.NewThreadUnsafeSet[pkgid.PackageName]()
	for t := range tools.Iter() {
		out = out.Union(m.Providers(t))
	}
	return out
}

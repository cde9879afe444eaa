// Package miniplan implements the materialized snapshot: MiniPackageInfo
// and MiniPlan from spec.md §3.
package miniplan

import (
	"bytes"
	"encoding/gob"

	mapset "github.com/deckarep/golang-set/v2"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/pkgid"
)

// PackageInfo is MiniPackageInfo: the per-package summary a MiniPlan keeps.
type PackageInfo struct {
	Version     pkgid.Version
	Flags       pkgid.FlagAssignment
	PackageDeps mapset.Set[pkgid.PackageName]
	ToolDeps    mapset.Set[pkgid.ToolName]
	Exes        mapset.Set[pkgid.ExeName]
	HasLibrary  bool
}

func NewPackageInfo(version pkgid.Version, flags pkgid.FlagAssignment) *PackageInfo {
	return &PackageInfo{
		Version:     version,
		Flags:       flags,
		PackageDeps: mapset.NewThreadUnsafeSet[pkgid.PackageName](),
		ToolDeps:    mapset.NewThreadUnsafeSet[pkgid.ToolName](),
		Exes:        mapset.NewThreadUnsafeSet[pkgid.ExeName](),
	}
}

// gobPackageInfo is PackageInfo's wire shape: mapset.Set is an interface,
// which gob cannot encode directly, so the binary cache round-trips
// through plain slices instead.
type gobPackageInfo struct {
	Version     pkgid.Version
	Flags       pkgid.FlagAssignment
	PackageDeps []pkgid.PackageName
	ToolDeps    []pkgid.ToolName
	Exes        []pkgid.ExeName
	HasLibrary  bool
}

func (info *PackageInfo) GobEncode() ([]byte, error) {
	g := gobPackageInfo{
		Version:     info.Version,
		Flags:       info.Flags,
		PackageDeps: info.PackageDeps.ToSlice(),
		ToolDeps:    info.ToolDeps.ToSlice(),
		Exes:        info.Exes.ToSlice(),
		HasLibrary:  info.HasLibrary,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (info *PackageInfo) GobDecode(data []byte) error {
	var g gobPackageInfo
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	info.Version = g.Version
	info.Flags = g.Flags
	info.PackageDeps = mapset.NewThreadUnsafeSet(g.PackageDeps...)
	info.ToolDeps = mapset.NewThreadUnsafeSet(g.ToolDeps...)
	info.Exes = mapset.NewThreadUnsafeSet(g.Exes...)
	info.HasLibrary = g.HasLibrary
	return nil
}

// Plan is MiniPlan: the fully materialized snapshot.
type Plan struct {
	CompilerVersion compiler.Version
	Packages        map[pkgid.PackageName]*PackageInfo
}

func New(cv compiler.Version) *Plan {
	return &Plan{CompilerVersion: cv, Packages: map[pkgid.PackageName]*PackageInfo{}}
}

// StripSelfEdge removes name from info's own PackageDeps, enforcing the
// "no self-edge" invariant (spec.md §3).
func StripSelfEdge(name pkgid.PackageName, info *PackageInfo) {
	info.PackageDeps.Remove(name)
}

// Clone deep-copies a Plan; a change to the copy leaves the original
// untouched.
func (p *Plan) Clone() *Plan {
	out := New(p.CompilerVersion)
	for name, info := range p.Packages {
		clone := &PackageInfo{
			Version:     info.Version,
			Flags:       make(pkgid.FlagAssignment, len(info.Flags)),
			PackageDeps: info.PackageDeps.Clone(),
			ToolDeps:    info.ToolDeps.Clone(),
			Exes:        info.Exes.Clone(),
			HasLibrary:  info.HasLibrary,
		}
		for k, v := range info.Flags {
			clone.Flags[k] = v
		}
		out.Packages[name] = clone
	}
	return out
}

// Equal reports deep equality, used by tests and by the materializer's
// cache-equivalence checks; hand-rolled because mapset.Set's Equal already
// does the right thing per-field and a generic deep-equal library would
// need to special-case it anyway.
func (p *Plan) Equal(other *Plan) bool {
	if !p.CompilerVersion.Equal(other.CompilerVersion) {
		return false
	}
	if len(p.Packages) != len(other.Packages) {
		return false
	}
	for name, info := range p.Packages {
		oi, ok := other.Packages[name]
		if !ok {
			return false
		}
		if !info.Version.Equal(oi.Version) ||
			!info.Flags.Equal(oi.Flags) ||
			info.HasLibrary != oi.HasLibrary ||
			!info.PackageDeps.Equal(oi.PackageDeps) ||
			!info.ToolDeps.Equal(oi.ToolDeps) ||
			!info.Exes.Equal(oi.Exes) {
			return false
		}
	}
	return true
}

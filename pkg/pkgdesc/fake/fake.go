// Package fake provides an in-memory pkgdesc.Oracle for tests, standing in
// for the real cabal-file parser the way pkg/assembler/fake.go stands in
// for the teacher's OCI puller.
package fake

import (
	"fmt"

	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
)

// Desc is a canned unresolved description: its dependency/exe/tool sets
// are fixed rather than flag-conditional, except for entries listed in
// Conditional, which are included only when the matching flag is true.
type Desc struct {
	DescName    pkgid.PackageName
	DescVersion pkgid.Version
	DescFlags   []pkgdesc.FlagSpec

	Deps        map[pkgid.PackageName]string // name -> version range string
	ToolDeps    []pkgid.ToolName
	Exes        []pkgid.ExeName
	Library     bool
	Conditional map[pkgid.FlagName]map[pkgid.PackageName]string // extra deps gated on flag=true
}

func (d *Desc) Name() pkgid.PackageName  { return d.DescName }
func (d *Desc) Version() pkgid.Version   { return d.DescVersion }
func (d *Desc) Flags() []pkgdesc.FlagSpec { return d.DescFlags }

type resolved struct {
	deps    map[pkgid.PackageName]pkgid.VersionRange
	tools   []pkgid.ToolName
	exes    []pkgid.ExeName
	library bool
}

func (r *resolved) PackageDependencies() map[pkgid.PackageName]pkgid.VersionRange { return r.deps }
func (r *resolved) PackageToolDependencies() []pkgid.ToolName                     { return r.tools }
func (r *resolved) Executables() []pkgid.ExeName                                  { return r.exes }
func (r *resolved) HasLibrary() bool                                             { return r.library }

// Oracle resolves Desc values registered by raw-byte key (the byte slice
// a description was "parsed" from, in these tests just its name).
type Oracle struct {
	ByBytes map[string]*Desc
}

func New() *Oracle { return &Oracle{ByBytes: map[string]*Desc{}} }

func (o *Oracle) Register(raw string, d *Desc) { o.ByBytes[raw] = d }

func (o *Oracle) ReadUnresolved(raw []byte) ([]pkgdesc.Warning, pkgdesc.Unresolved, error) {
	d, ok := o.ByBytes[string(raw)]
	if !ok {
		return nil, nil, fmt.Errorf("fake oracle: no description registered for %q", string(raw))
	}
	return nil, d, nil
}

func (o *Oracle) Resolve(cfg pkgdesc.Config, desc pkgdesc.Unresolved) (pkgdesc.Resolved, error) {
	d, ok := desc.(*Desc)
	if !ok {
		return nil, fmt.Errorf("fake oracle: not a *Desc")
	}

	deps := make(map[pkgid.PackageName]pkgid.VersionRange, len(d.Deps))
	for name, raw := range d.Deps {
		r, err := pkgid.ParseVersionRange(raw)
		if err != nil {
			return nil, err
		}
		deps[name] = r
	}
	for flag, extra := range d.Conditional {
		if !cfg.Flags[flag] {
			continue
		}
		for name, raw := range extra {
			r, err := pkgid.ParseVersionRange(raw)
			if err != nil {
				return nil, err
			}
			deps[name] = r
		}
	}

	return &resolved{deps: deps, tools: d.ToolDeps, exes: d.Exes, library: d.Library}, nil
}

var _ pkgdesc.Oracle = (*Oracle)(nil)
var _ pkgdesc.Unresolved = (*Desc)(nil)

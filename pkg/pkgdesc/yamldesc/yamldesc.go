// Package yamldesc is a real, non-fake pkgdesc.Oracle: package
// descriptions are YAML documents rather than cabal files (parsing actual
// cabal syntax is explicitly out of scope, per pkgdesc's package doc), in
// the same schema-versioned-YAML idiom the teacher uses for every one of
// its own manifest formats (pkg/component, pkg/sdkmanifest).
package yamldesc

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
)

// document is the on-disk shape of one package description.
type document struct {
	Name    pkgid.PackageName `yaml:"name"`
	Version string            `yaml:"version"`
	Flags   []flagSpec        `yaml:"flags"`

	Library      bool             `yaml:"library"`
	Executables  []pkgid.ExeName  `yaml:"executables"`
	Dependencies map[string]string `yaml:"dependencies"`
	ToolDeps     []pkgid.ToolName `yaml:"toolDependencies"`

	TestDependencies      map[string]string `yaml:"testDependencies"`
	BenchmarkDependencies map[string]string `yaml:"benchmarkDependencies"`

	Conditional []conditionalBlock `yaml:"conditional"`
}

type flagSpec struct {
	Name    pkgid.FlagName `yaml:"name"`
	Default bool           `yaml:"default"`
	Manual  bool           `yaml:"manual"`
}

// conditionalBlock is the YAML analogue of a cabal "if flag(name)"
// stanza: its contributions are folded into the resolved description only
// when the named flag evaluates true under a Config.
type conditionalBlock struct {
	Flag         pkgid.FlagName    `yaml:"flag"`
	Dependencies map[string]string `yaml:"dependencies"`
	ToolDeps     []pkgid.ToolName  `yaml:"toolDependencies"`
	Executables  []pkgid.ExeName   `yaml:"executables"`
}

// Desc is a parsed-but-unconfigured description: pkgdesc.Unresolved.
type Desc struct {
	doc *document
}

func (d *Desc) Name() pkgid.PackageName { return d.doc.Name }

func (d *Desc) Version() pkgid.Version { return pkgid.MustVersion(d.doc.Version) }

func (d *Desc) Flags() []pkgdesc.FlagSpec {
	specs := make([]pkgdesc.FlagSpec, len(d.doc.Flags))
	for i, f := range d.doc.Flags {
		specs[i] = pkgdesc.FlagSpec{Name: f.Name, Default: f.Default, Manual: f.Manual}
	}
	return specs
}

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

// Oracle parses YAML package descriptions and resolves them under a
// pkgdesc.Config.
type Oracle struct{}

func New() *Oracle { return &Oracle{} }

var _ pkgdesc.Oracle = (*Oracle)(nil)
var _ pkgdesc.Unresolved = (*Desc)(nil)

func (o *Oracle) ReadUnresolved(raw []byte) ([]pkgdesc.Warning, pkgdesc.Unresolved, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(raw, &doc, yaml.Strict()); err != nil {
		return nil, nil, fmt.Errorf("yamldesc: %w", err)
	}
	if doc.Name == "" {
		return nil, nil, fmt.Errorf("yamldesc: missing required field %q", "name")
	}
	if _, err := pkgid.NewVersion(doc.Version); err != nil {
		return nil, nil, fmt.Errorf("yamldesc: %w", err)
	}

	var warnings []pkgdesc.Warning
	for _, block := range doc.Conditional {
		if !knownFlag(doc.Flags, block.Flag) {
			warnings = append(warnings, pkgdesc.Warning(fmt.Sprintf("conditional block references undeclared flag %q", block.Flag)))
		}
	}

	return warnings, &Desc{doc: &doc}, nil
}

func (o *Oracle) Resolve(cfg pkgdesc.Config, desc pkgdesc.Unresolved) (pkgdesc.Resolved, error) {
	d, ok := desc.(*Desc)
	if !ok {
		return nil, fmt.Errorf("yamldesc: not a description this oracle parsed")
	}

	deps := make(map[pkgid.PackageName]pkgid.VersionRange, len(d.doc.Dependencies))
	if err := mergeRanges(deps, d.doc.Dependencies); err != nil {
		return nil, err
	}
	if cfg.EnableTests {
		if err := mergeRanges(deps, d.doc.TestDependencies); err != nil {
			return nil, err
		}
	}
	if cfg.EnableBenchmarks {
		if err := mergeRanges(deps, d.doc.BenchmarkDependencies); err != nil {
			return nil, err
		}
	}

	tools := append([]pkgid.ToolName{}, d.doc.ToolDeps...)
	exes := append([]pkgid.ExeName{}, d.doc.Executables...)

	for _, block := range d.doc.Conditional {
		if !cfg.Flags[block.Flag] {
			continue
		}
		if err := mergeRanges(deps, block.Dependencies); err != nil {
			return nil, err
		}
		tools = append(tools, block.ToolDeps...)
		exes = append(exes, block.Executables...)
	}

	return &resolved{deps: deps, tools: tools, exes: exes, library: d.doc.Library}, nil
}

func mergeRanges(into map[pkgid.PackageName]pkgid.VersionRange, raw map[string]string) error {
	for name, rawRange := range raw {
		r, err := pkgid.ParseVersionRange(rawRange)
		if err != nil {
			return fmt.Errorf("yamldesc: dependency %q: %w", name, err)
		}
		into[pkgid.PackageName(name)] = r
	}
	return nil
}

func knownFlag(flags []flagSpec, name pkgid.FlagName) bool {
	for _, f := range flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

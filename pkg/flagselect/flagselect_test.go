package flagselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgdesc/fake"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
)

func v(t *testing.T, s string) pkgid.Version {
	ver, err := pkgid.NewVersion(s)
	require.NoError(t, err)
	return ver
}

// S4: one non-manual default-true flag, one manual flag -> exactly two
// combinations considered, the first all-defaults. The dependency is absent
// from the pool, so every combination has an error and none stops the
// search early.
func TestSelectPackageBuildPlan_S4(t *testing.T) {
	desc := &fake.Desc{
		DescName:    "pkg",
		DescVersion: v(t, "1.0.0"),
		DescFlags: []pkgdesc.FlagSpec{
			{Name: "network", Default: true, Manual: false},
			{Name: "static", Default: false, Manual: true},
		},
		Deps:    map[pkgid.PackageName]string{"missing": ">=1.0"},
		Library: true,
	}

	seen := 0
	var firstFlags pkgid.FlagAssignment
	oracle := &countingOracle{desc: desc, onResolve: func(flags pkgid.FlagAssignment) {
		if seen == 0 {
			firstFlags = flags
		}
		seen++
	}}

	pool := map[pkgid.PackageName]pkgid.Version{}
	_, err := SelectPackageBuildPlan(oracle, platform.Platform{OS: "linux", Architecture: "x86_64"}, compiler.Version{}, pool, desc)
	require.NoError(t, err)

	assert.Equal(t, 2, seen)
	assert.Equal(t, true, firstFlags["network"])
	assert.Equal(t, false, firstFlags["static"])
}

func TestSelectPackageBuildPlan_Idempotent(t *testing.T) {
	desc := &fake.Desc{
		DescName:    "pkg",
		DescVersion: v(t, "1.0.0"),
		DescFlags: []pkgdesc.FlagSpec{
			{Name: "a", Default: true},
			{Name: "b", Default: false},
		},
		Deps:    map[pkgid.PackageName]string{"dep": ">=1.0"},
		Library: true,
	}
	oracle := fake.New()
	oracle.Register("raw", desc)

	pool := map[pkgid.PackageName]pkgid.Version{"dep": v(t, "0.5.0")}

	first, err := SelectPackageBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, pool, desc)
	require.NoError(t, err)
	second, err := SelectPackageBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, pool, desc)
	require.NoError(t, err)

	assert.True(t, first.Flags.Equal(second.Flags))
	assert.Equal(t, len(first.Errors), len(second.Errors))
}

func TestSelectPackageBuildPlan_BoundedAt128(t *testing.T) {
	var flags []pkgdesc.FlagSpec
	for i := 0; i < 12; i++ {
		flags = append(flags, pkgdesc.FlagSpec{Name: pkgid.FlagName(string(rune('a' + i))), Default: true})
	}
	desc := &fake.Desc{DescName: "pkg", DescVersion: v(t, "1.0.0"), DescFlags: flags, Library: true}

	count := 0
	oracle := &countingOracle{desc: desc, onResolve: func(pkgid.FlagAssignment) { count++ }}

	_, err := SelectPackageBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, nil, desc)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, MaxCombinations)
}

// countingOracle wraps a fixed desc and reports every flag assignment it
// was asked to resolve, so tests can inspect the enumeration order and
// bound without depending on flagselect's internals.
type countingOracle struct {
	desc      *fake.Desc
	onResolve func(pkgid.FlagAssignment)
}

func (o *countingOracle) ReadUnresolved(raw []byte) ([]pkgdesc.Warning, pkgdesc.Unresolved, error) {
	return nil, o.desc, nil
}

func (o *countingOracle) Resolve(cfg pkgdesc.Config, desc pkgdesc.Unresolved) (pkgdesc.Resolved, error) {
	o.onResolve(cfg.Flags)
	inner := fake.New()
	inner.Register("raw", o.desc)
	return inner.Resolve(cfg, desc)
}

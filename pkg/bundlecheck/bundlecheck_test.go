package bundlecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/pkgdesc/fake"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/platform"
)

func v(t *testing.T, s string) pkgid.Version {
	ver, err := pkgid.NewVersion(s)
	require.NoError(t, err)
	return ver
}

func TestCheckBundleBuildPlan_LocalsSatisfyEachOther(t *testing.T) {
	oracle := fake.New()

	a := &fake.Desc{
		DescName:    "a",
		DescVersion: v(t, "1.0.0"),
		Deps:        map[pkgid.PackageName]string{"b": ">=1.0"},
		Library:     true,
	}
	b := &fake.Desc{DescName: "b", DescVersion: v(t, "1.0.0"), Library: true}
	oracle.Register("a", a)
	oracle.Register("b", b)

	locals := []Local{{Desc: a, Flags: pkgid.FlagAssignment{}}, {Desc: b, Flags: pkgid.FlagAssignment{}}}

	result, err := CheckBundleBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, nil, locals)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Flags, 2)
}

func TestCheckBundleBuildPlan_DuplicateNamePanics(t *testing.T) {
	oracle := fake.New()
	a1 := &fake.Desc{DescName: "a", DescVersion: v(t, "1.0.0"), Library: true}
	a2 := &fake.Desc{DescName: "a", DescVersion: v(t, "2.0.0"), Library: true}

	assert.Panics(t, func() {
		_, _ = CheckBundleBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, nil,
			[]Local{{Desc: a1, Flags: pkgid.FlagAssignment{}}, {Desc: a2, Flags: pkgid.FlagAssignment{}}})
	})
}

func TestCheckBundleBuildPlan_MissingDepAgainstPool(t *testing.T) {
	oracle := fake.New()
	a := &fake.Desc{
		DescName:    "a",
		DescVersion: v(t, "1.0.0"),
		Deps:        map[pkgid.PackageName]string{"missing": ">=1.0"},
		Library:     true,
	}
	oracle.Register("a", a)

	result, err := CheckBundleBuildPlan(oracle, platform.Platform{OS: "linux"}, compiler.Version{}, nil,
		[]Local{{Desc: a, Flags: pkgid.FlagAssignment{}}})
	require.NoError(t, err)
	assert.Contains(t, result.Errors, pkgid.PackageName("missing"))
}

package deperror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/pkgid"
)

func TestDepError_WithRequirerKeepsRangePerRequirer(t *testing.T) {
	d := New().WithRequirer("a", mustRange(t, ">=1.0.0"))
	d = d.WithRequirer("b", mustRange(t, "<2.0.0"))

	rangeA, ok := d.NeededBy["a"]
	require.True(t, ok)
	assert.Equal(t, ">=1.0.0", rangeA.String())

	rangeB, ok := d.NeededBy["b"]
	require.True(t, ok)
	assert.Equal(t, "<2.0.0", rangeB.String())
}

func TestDepError_WithRequirerMergesSameRequirer(t *testing.T) {
	d := New().WithRequirer("a", mustRange(t, ">=1.0.0"))
	d = d.WithRequirer("a", mustRange(t, "<2.0.0"))

	assert.True(t, d.NeededBy["a"].WithinRange(pkgid.MustVersion("1.5.0")))
	assert.False(t, d.NeededBy["a"].WithinRange(pkgid.MustVersion("2.5.0")))
}

func TestCombine_LaterObservationDominates(t *testing.T) {
	v1 := pkgid.MustVersion("1.0.0")
	v2 := pkgid.MustVersion("2.0.0")

	a := DepError{Observed: &v1}
	b := DepError{Observed: &v2}

	combined := Combine(a, b)
	require.NotNil(t, combined.Observed)
	assert.True(t, combined.Observed.Equal(v2))
}

func TestDepErrors_AddMergesExistingEntry(t *testing.T) {
	errs := NewErrors()
	errs.Add("pkg", New().WithRequirer("a", mustRange(t, ">=1.0.0")))
	errs.Add("pkg", New().WithRequirer("b", mustRange(t, "<2.0.0")))

	assert.Len(t, errs, 1)
	assert.Len(t, errs["pkg"].NeededBy, 2)
}

func TestMerge_DoesNotMutateArguments(t *testing.T) {
	a := NewErrors()
	a.Add("pkg", New().WithRequirer("a", mustRange(t, ">=1.0.0")))
	b := NewErrors()
	b.Add("pkg", New().WithRequirer("b", mustRange(t, "<2.0.0")))

	merged := Merge(a, b)
	assert.Len(t, a["pkg"].NeededBy, 1)
	assert.Len(t, b["pkg"].NeededBy, 1)
	assert.Len(t, merged["pkg"].NeededBy, 2)
}

func TestNames_SortedDeterministically(t *testing.T) {
	errs := NewErrors()
	errs.Add("zeta", New())
	errs.Add("alpha", New())

	assert.Equal(t, []pkgid.PackageName{"alpha", "zeta"}, errs.Names())
}

func mustRange(t *testing.T, raw string) pkgid.VersionRange {
	t.Helper()
	r, err := pkgid.ParseVersionRange(raw)
	require.NoError(t, err)
	return r
}

package pkgid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_CompareAndEqual(t *testing.T) {
	a, err := NewVersion("1.2.3")
	require.NoError(t, err)
	b, err := NewVersion("1.3.0")
	require.NoError(t, err)

	assert.True(t, a.Compare(b) < 0)
	assert.True(t, b.Compare(a) > 0)
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}

func TestMax_TiesFavorA(t *testing.T) {
	a := MustVersion("1.0.0")
	same := MustVersion("1.0.0")
	assert.True(t, Max(a, same).Equal(a))

	higher := MustVersion("2.0.0")
	assert.True(t, Max(a, higher).Equal(higher))
	assert.True(t, Max(higher, a).Equal(higher))
}

func TestVersion_GobRoundTrip(t *testing.T) {
	v := MustVersion("1.2.3")
	encoded, err := v.GobEncode()
	require.NoError(t, err)

	var decoded Version
	require.NoError(t, decoded.GobDecode(encoded))
	assert.True(t, v.Equal(decoded))
}

func TestVersion_GobRoundTrip_Zero(t *testing.T) {
	var decoded Version
	require.NoError(t, decoded.GobDecode(nil))
	assert.True(t, decoded.IsZero())
}

func TestFlagAssignment_Equal(t *testing.T) {
	a := FlagAssignment{"x": true, "y": false}
	b := FlagAssignment{"x": true, "y": false}
	c := FlagAssignment{"x": true}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestFlagAssignment_Merge(t *testing.T) {
	a := FlagAssignment{"x": true}
	b := FlagAssignment{"y": false}
	merged := a.Merge(b)
	assert.Equal(t, FlagAssignment{"x": true, "y": false}, merged)
}

func TestVersionRange_WithinRangeAndIntersect(t *testing.T) {
	r1, err := ParseVersionRange(">=1.0.0")
	require.NoError(t, err)
	r2, err := ParseVersionRange("<2.0.0")
	require.NoError(t, err)

	combined := r1.Intersect(r2)
	assert.True(t, combined.WithinRange(MustVersion("1.5.0")))
	assert.False(t, combined.WithinRange(MustVersion("2.5.0")))
}

func TestVersionRange_AnyMatchesEverything(t *testing.T) {
	r := Any()
	assert.Equal(t, "*", r.String())
	assert.True(t, r.WithinRange(MustVersion("0.0.1")))
}

func TestVersionRange_IntersectWithAny(t *testing.T) {
	r, err := ParseVersionRange(">=1.0.0")
	require.NoError(t, err)
	assert.Equal(t, r.String(), r.Intersect(Any()).String())
	assert.Equal(t, r.String(), Any().Intersect(r).String())
}

func TestPackageIdentifier_String(t *testing.T) {
	id := PackageIdentifier{Name: "base", Version: MustVersion("4.18.0")}
	assert.Equal(t, "base-4.18.0", id.String())
}

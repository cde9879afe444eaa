package compiler

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidGhcVersion(t *testing.T) {
	v, err := Parse("ghc-9.4.7")
	require.NoError(t, err)
	assert.Equal(t, FamilyGhc, v.Family())
	assert.True(t, v.WhichCompiler(FamilyGhc))
	assert.Equal(t, "ghc-9.4.7", v.String())
}

func TestParse_RejectsMissingFamily(t *testing.T) {
	_, err := Parse("9.4.7")
	require.Error(t, err)
	var invalid *InvalidCompilerError
	assert.ErrorAs(t, err, &invalid)
}

func TestParse_RejectsBadSemver(t *testing.T) {
	_, err := Parse("ghc-not-a-version")
	require.Error(t, err)
	var invalid *InvalidCompilerError
	assert.ErrorAs(t, err, &invalid)
}

func TestEqual(t *testing.T) {
	a, err := Parse("ghc-9.4.7")
	require.NoError(t, err)
	b, err := Parse("ghc-9.4.7")
	require.NoError(t, err)
	c, err := Parse("ghc-9.6.3")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestGhc_Constructor(t *testing.T) {
	sv, err := semver.NewVersion("9.4.7")
	require.NoError(t, err)
	v := Ghc(sv)
	assert.Equal(t, FamilyGhc, v.Family())
	assert.Same(t, sv, v.SemVer())
}

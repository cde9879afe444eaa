package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripsString(t *testing.T) {
	p, err := Parse("linux/amd64")
	require.NoError(t, err)
	assert.Equal(t, "linux", p.OS)
	assert.Equal(t, "amd64", p.Architecture)
	assert.Equal(t, "linux/amd64", p.String())
}

func TestParse_RejectsMissingArch(t *testing.T) {
	_, err := Parse("linux")
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	a := Platform{OS: "linux", Architecture: "amd64"}
	b := Platform{OS: "linux", Architecture: "amd64"}
	c := Platform{OS: "darwin", Architecture: "arm64"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestUnmarshalYAML_StripsQuotes(t *testing.T) {
	var p Platform
	require.NoError(t, p.UnmarshalYAML([]byte(`"linux/amd64"`)))
	assert.Equal(t, Platform{OS: "linux", Architecture: "amd64"}, p)
}

func TestCurrent_MatchesRuntime(t *testing.T) {
	p := Current()
	assert.NotEmpty(t, p.OS)
	assert.NotEmpty(t, p.Architecture)
}

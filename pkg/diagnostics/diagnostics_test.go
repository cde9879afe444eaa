package diagnostics

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/resolve"
)

func TestUnknownPackages_RendersBothSections(t *testing.T) {
	v, err := pkgid.NewVersion("1.2.3")
	require.NoError(t, err)

	out := UnknownPackages(&resolve.UnknownPackages{
		Unknown: map[pkgid.PackageName]resolve.UnknownEntry{
			"foo": {BestVersion: &v, Requirers: mapset.NewThreadUnsafeSet[pkgid.PackageName]("local")},
			"bar": {Requirers: mapset.NewThreadUnsafeSet[pkgid.PackageName]("local")},
		},
		Shadowed: map[pkgid.PackageName]mapset.Set[pkgid.PackageIdentifier]{
			"baz": mapset.NewThreadUnsafeSet(pkgid.PackageIdentifier{Name: "local", Version: v}),
		},
	})

	assert.Contains(t, out, "foo-1.2.3")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "baz")
}

package ociindex

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-containerregistry/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/registry/remote/auth"

	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
)

func startFakeRegistry(t *testing.T) *Registry {
	t.Helper()
	srv := httptest.NewServer(registry.New())
	t.Cleanup(srv.Close)
	return NewInsecure(strings.TrimPrefix(srv.URL, "http://"), &auth.Client{Client: srv.Client()})
}

func TestPushAndResolveAndFetch(t *testing.T) {
	ctx := context.Background()
	reg := startFakeRegistry(t)

	ident := pkgid.PackageIdentifier{Name: "aeson", Version: pkgid.MustVersion("1.5.0")}
	require.NoError(t, PushCabalFile(ctx, reg, ident, []byte("name: aeson\nversion: 1.5.0\n")))

	idx := New(reg, t.TempDir())

	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, map[pkgid.PackageName]pkgid.Version{
		"aeson": pkgid.MustVersion("1.5.0"),
	})
	require.NoError(t, err)
	assert.Empty(t, missingNames)
	assert.Empty(t, missingIdents)
	assert.Equal(t, ident, resolved["aeson"])

	var got []byte
	require.NoError(t, idx.WithCabalFiles(ctx, []pkgid.PackageIdentifier{ident}, func(f pkgindex.CabalFile) error {
		got = f.Raw
		return nil
	}))
	assert.Equal(t, "name: aeson\nversion: 1.5.0\n", string(got))
}

func TestResolvePackagesAllowMissing_UnknownNameAndVersion(t *testing.T) {
	ctx := context.Background()
	reg := startFakeRegistry(t)

	ident := pkgid.PackageIdentifier{Name: "aeson", Version: pkgid.MustVersion("1.5.0")}
	require.NoError(t, PushCabalFile(ctx, reg, ident, []byte("raw")))

	idx := New(reg, t.TempDir())

	_, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, map[pkgid.PackageName]pkgid.Version{
		"aeson":     pkgid.MustVersion("9.9.9"),
		"never-was": pkgid.MustVersion("1.0.0"),
	})
	require.NoError(t, err)
	assert.Equal(t, []pkgid.PackageName{"never-was"}, missingNames)
	require.Len(t, missingIdents, 1)
	assert.Equal(t, pkgid.PackageName("aeson"), missingIdents[0].Name)
}

func TestResolvePackages_FatalOnMissing(t *testing.T) {
	ctx := context.Background()
	reg := startFakeRegistry(t)
	idx := New(reg, t.TempDir())

	_, err := idx.ResolvePackages(ctx, map[pkgid.PackageName]pkgid.Version{"never-was": pkgid.MustVersion("1.0.0")})
	require.Error(t, err)
}

package httpindex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
)

func startMirror(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/packages.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"packages":{"aeson":["1.5.0"]}}`)
	})
	mux.HandleFunc("/package/aeson/1.5.0/aeson-1.5.0.cabal", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "name: aeson\nversion: 1.5.0\n")
	})
	mux.HandleFunc("/package/aeson/9.9.9/aeson-9.9.9.cabal", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolvePackagesAllowMissing(t *testing.T) {
	ctx := context.Background()
	srv := startMirror(t)

	idx := New(httpclient.New(), srv.URL, t.TempDir())
	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, map[pkgid.PackageName]pkgid.Version{
		"aeson":     pkgid.MustVersion("1.5.0"),
		"never-was": pkgid.MustVersion("1.0.0"),
	})
	require.NoError(t, err)
	assert.Equal(t, []pkgid.PackageName{"never-was"}, missingNames)
	assert.Empty(t, missingIdents)
	assert.Equal(t, pkgid.PackageIdentifier{Name: "aeson", Version: pkgid.MustVersion("1.5.0")}, resolved["aeson"])
}

func TestResolvePackagesAllowMissing_KnownNameUnknownVersion(t *testing.T) {
	ctx := context.Background()
	srv := startMirror(t)

	idx := New(httpclient.New(), srv.URL, t.TempDir())
	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, map[pkgid.PackageName]pkgid.Version{
		"aeson": pkgid.MustVersion("9.9.9"),
	})
	require.NoError(t, err)
	assert.Empty(t, missingNames)
	assert.Empty(t, resolved)
	require.Len(t, missingIdents, 1)
	assert.Equal(t, pkgid.MustVersion("9.9.9"), missingIdents[0].Version)
}

func TestWithCabalFiles_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	srv := startMirror(t)

	idx := New(httpclient.New(), srv.URL, t.TempDir())
	ident := pkgid.PackageIdentifier{Name: "aeson", Version: pkgid.MustVersion("1.5.0")}

	var fetched []pkgindex.CabalFile
	for i := 0; i < 2; i++ {
		require.NoError(t, idx.WithCabalFiles(ctx, []pkgid.PackageIdentifier{ident}, func(f pkgindex.CabalFile) error {
			fetched = append(fetched, f)
			return nil
		}))
	}
	require.Len(t, fetched, 2)
	assert.Equal(t, "name: aeson\nversion: 1.5.0\n", string(fetched[0].Raw))
	assert.Equal(t, fetched[0].Raw, fetched[1].Raw)
}

func TestWithCabalFiles_NotFound(t *testing.T) {
	ctx := context.Background()
	srv := startMirror(t)

	idx := New(httpclient.New(), srv.URL, t.TempDir())
	ident := pkgid.PackageIdentifier{Name: "aeson", Version: pkgid.MustVersion("9.9.9")}

	err := idx.WithCabalFiles(ctx, []pkgid.PackageIdentifier{ident}, func(pkgindex.CabalFile) error { return nil })
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ident, notFound.Identifier)
}

// Package httpindex is a pkgindex.Index backed by a plain HTTP cabal-file
// mirror: a single JSON listing document naming every known
// (name, version), and a per-identifier GET for the cabal-file blob —
// the teacher's ocipuller "resolve reference, then fetch blob" pattern,
// adapted from OCI references to flat HTTP URLs.
package httpindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
)

// listing is the package mirror's top-level document: every package name
// it carries, and the versions published for it.
type listing struct {
	Packages map[pkgid.PackageName][]pkgid.Version `yaml:"packages"`
}

// NotFoundError is returned by WithCabalFiles when a mirror responds 404
// to a cabal-file fetch for an identifier the listing claimed to have.
type NotFoundError struct {
	Identifier pkgid.PackageIdentifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("httpindex: %s not found on mirror", e.Identifier)
}

// Index resolves package identifiers and fetches cabal-file blobs against
// a single HTTP mirror rooted at BaseURL.
type Index struct {
	client   *httpclient.Client
	baseURL  string
	cacheDir string

	mu      sync.Mutex
	listing *listing
}

func New(client *httpclient.Client, baseURL, cacheDir string) *Index {
	return &Index{client: client, baseURL: baseURL, cacheDir: cacheDir}
}

var _ pkgindex.Index = (*Index)(nil)

func (idx *Index) ResolvePackages(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]pkgid.PackageIdentifier, error) {
	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, versions)
	if err != nil {
		return nil, err
	}
	if len(missingNames) > 0 || len(missingIdents) > 0 {
		return nil, &pkgindex.MissingIdentifierError{Names: append(missingNames, identifierNames(missingIdents)...)}
	}
	return resolved, nil
}

func (idx *Index) ResolvePackagesAllowMissing(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (resolved map[pkgid.PackageName]pkgid.PackageIdentifier, missingNames []pkgid.PackageName, missingIdents []pkgid.PackageIdentifier, err error) {
	l, err := idx.fetchListing(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	resolved = make(map[pkgid.PackageName]pkgid.PackageIdentifier, len(versions))
	for name, version := range versions {
		published, ok := l.Packages[name]
		if !ok {
			missingNames = append(missingNames, name)
			continue
		}
		if !containsVersion(published, version) {
			missingIdents = append(missingIdents, pkgid.PackageIdentifier{Name: name, Version: version})
			continue
		}
		resolved[name] = pkgid.PackageIdentifier{Name: name, Version: version}
	}
	return resolved, missingNames, missingIdents, nil
}

func (idx *Index) WithCabalFiles(ctx context.Context, idents []pkgid.PackageIdentifier, fn func(pkgindex.CabalFile) error) error {
	for _, ident := range idents {
		dest := idx.cabalCachePath(ident)
		if _, err := os.Stat(dest); err != nil {
			url := idx.cabalURL(ident)
			checkStatus := func(statusCode int) error {
				if statusCode == 404 {
					return &NotFoundError{Identifier: ident}
				}
				if statusCode < 200 || statusCode >= 300 {
					return &httpclient.StatusError{StatusCode: statusCode, URL: url}
				}
				return nil
			}
			if err := idx.client.Download(ctx, url, dest, checkStatus); err != nil {
				return err
			}
		}

		raw, err := os.ReadFile(dest)
		if err != nil {
			return err
		}
		if err := fn(pkgindex.CabalFile{Identifier: ident, Raw: raw}); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) fetchListing(ctx context.Context) (*listing, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.listing != nil {
		return idx.listing, nil
	}

	dest := filepath.Join(idx.cacheDir, "listing.json")
	if err := idx.client.Download(ctx, idx.baseURL+"/packages.json", dest, nil); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(dest)
	if err != nil {
		return nil, err
	}

	var l listing
	if err := yaml.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	idx.listing = &l
	return idx.listing, nil
}

func (idx *Index) cabalURL(ident pkgid.PackageIdentifier) string {
	return fmt.Sprintf("%s/package/%s/%s/%s-%s.cabal", idx.baseURL, ident.Name, ident.Version, ident.Name, ident.Version)
}

func (idx *Index) cabalCachePath(ident pkgid.PackageIdentifier) string {
	return filepath.Join(idx.cacheDir, "cabal", string(ident.Name), ident.Version.String()+".cabal")
}

func containsVersion(versions []pkgid.Version, v pkgid.Version) bool {
	for _, candidate := range versions {
		if candidate.Equal(v) {
			return true
		}
	}
	return false
}

func identifierNames(idents []pkgid.PackageIdentifier) []pkgid.PackageName {
	names := make([]pkgid.PackageName, len(idents))
	for i, ident := range idents {
		names[i] = ident.Name
	}
	return names
}

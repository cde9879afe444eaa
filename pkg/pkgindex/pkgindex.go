// Package pkgindex declares the package index interface from spec.md §6:
// resolvePackages / resolvePackagesAllowMissing / withCabalFiles. Concrete
// backends live in pkgindex/httpindex and pkgindex/ociindex.
package pkgindex

import (
	"context"

	"stackline.dev/spm/pkg/pkgid"
)

// MissingIdentifierError is returned by ResolvePackages when a requested
// identifier is absent: Names lists both names the index does not know at
// all and names it knows only at other versions.
type MissingIdentifierError struct {
	Names []pkgid.PackageName
}

func (e *MissingIdentifierError) Error() string {
	return "pkgindex: packages not present at the requested versions"
}

// CabalFile is the raw declaration blob for one package identifier. It
// does not record which index it came from; materialization fetches every
// identifier through a single Index.
type CabalFile struct {
	Identifier pkgid.PackageIdentifier
	Raw        []byte
}

// Index is the package index oracle.
type Index interface {
	// ResolvePackages resolves every (name, version) pair, fatally
	// failing if any identifier is absent (spec.md §4.3 step 2).
	ResolvePackages(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]pkgid.PackageIdentifier, error)

	// ResolvePackagesAllowMissing resolves what it can, returning the
	// names/identifiers it could not find rather than failing (spec.md
	// §4.3 step 1).
	ResolvePackagesAllowMissing(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (resolved map[pkgid.PackageName]pkgid.PackageIdentifier, missingNames []pkgid.PackageName, missingIdents []pkgid.PackageIdentifier, err error)

	// WithCabalFiles streams the raw declaration bytes for each
	// requested identifier to fn.
	WithCabalFiles(ctx context.Context, idents []pkgid.PackageIdentifier, fn func(CabalFile) error) error
}

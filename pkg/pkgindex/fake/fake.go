// Package fake provides an in-memory pkgindex.Index for tests.
package fake

import (
	"context"
	"fmt"

	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
)

type Index struct {
	// Versions maps a package name to every version this index knows.
	Versions map[pkgid.PackageName][]pkgid.Version
	// CabalFiles maps a package identifier to its raw declaration bytes.
	CabalFiles map[pkgid.PackageIdentifier][]byte
}

func New() *Index {
	return &Index{Versions: map[pkgid.PackageName][]pkgid.Version{}, CabalFiles: map[pkgid.PackageIdentifier][]byte{}}
}

func (idx *Index) Add(ident pkgid.PackageIdentifier, raw []byte) {
	idx.Versions[ident.Name] = append(idx.Versions[ident.Name], ident.Version)
	idx.CabalFiles[ident] = raw
}

func (idx *Index) has(name pkgid.PackageName, version pkgid.Version) bool {
	for _, v := range idx.Versions[name] {
		if v.Equal(version) {
			return true
		}
	}
	return false
}

func (idx *Index) ResolvePackagesAllowMissing(_ context.Context, versions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]pkgid.PackageIdentifier, []pkgid.PackageName, []pkgid.PackageIdentifier, error) {
	resolved := map[pkgid.PackageName]pkgid.PackageIdentifier{}
	var missingNames []pkgid.PackageName
	var missingIdents []pkgid.PackageIdentifier

	for name, v := range versions {
		if _, known := idx.Versions[name]; !known {
			missingNames = append(missingNames, name)
			continue
		}
		if !idx.has(name, v) {
			missingIdents = append(missingIdents, pkgid.PackageIdentifier{Name: name, Version: v})
			continue
		}
		resolved[name] = pkgid.PackageIdentifier{Name: name, Version: v}
	}
	return resolved, missingNames, missingIdents, nil
}

func (idx *Index) ResolvePackages(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]pkgid.PackageIdentifier, error) {
	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, versions)
	if err != nil {
		return nil, err
	}
	if len(missingNames) > 0 || len(missingIdents) > 0 {
		return nil, fmt.Errorf("fake index: missing identifiers: names=%v idents=%v", missingNames, missingIdents)
	}
	return resolved, nil
}

func (idx *Index) WithCabalFiles(_ context.Context, idents []pkgid.PackageIdentifier, fn func(pkgindex.CabalFile) error) error {
	for _, ident := range idents {
		raw, ok := idx.CabalFiles[ident]
		if !ok {
			return fmt.Errorf("fake index: no cabal file registered for %s", ident)
		}
		if err := fn(pkgindex.CabalFile{Identifier: ident, Raw: raw}); err != nil {
			return err
		}
	}
	return nil
}

var _ pkgindex.Index = (*Index)(nil)

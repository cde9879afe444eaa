// Package ociindex is a pkgindex.Index backed by an OCI registry: every
// (name, version) is published as a small OCI artifact in repository
// "packages/<name>", tagged "<version>", whose single layer is the raw
// cabal-file bytes. Grounded directly in the teacher's pkg/ocipuller,
// pkg/ocicache, and pkg/oci — cabal-file fetches reuse the teacher's
// cache-wrapping oras.land/oras-go/v2 target, so a cabal-file layer already
// fetched is read from the local OCI layout. Tag resolution and the
// manifest lookup still go to the registry on every call.
package ociindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/errcode"

	"stackline.dev/spm/pkg/ocicache"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
)

const (
	repoPrefix        = "packages/"
	cabalLayerType    = "application/vnd.spm.cabal-file"
	cabalManifestType = "application/vnd.spm.package-artifact"
)

// Registry is the subset of an OCI client this index needs: enough to
// address a repository and authenticate against it, mirroring the
// teacher's assistantremote.Remote without depending on its DPM-specific
// config type.
type Registry struct {
	Host     string
	Client   remote.Client
	Insecure bool
}

func NewInsecure(host string, client remote.Client) *Registry {
	return &Registry{Host: host, Client: client, Insecure: true}
}

func NewWithAuth(host string, client *auth.Client, insecure bool) *Registry {
	return &Registry{Host: host, Client: client, Insecure: insecure}
}

func (r *Registry) repository(repoName string) (*remote.Repository, error) {
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", r.Host, repoName))
	if err != nil {
		return nil, err
	}
	repo.Client = r.Client
	repo.PlainHTTP = r.Insecure
	return repo, nil
}

// Index resolves package identifiers against an OCI registry's tag
// listing and fetches cabal-file blobs from the manifests they tag,
// content-caching them under an on-disk OCI layout.
type Index struct {
	registry   *Registry
	layoutPath string
}

func New(registry *Registry, layoutPath string) *Index {
	return &Index{registry: registry, layoutPath: layoutPath}
}

var _ pkgindex.Index = (*Index)(nil)

func (idx *Index) ResolvePackages(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (map[pkgid.PackageName]pkgid.PackageIdentifier, error) {
	resolved, missingNames, missingIdents, err := idx.ResolvePackagesAllowMissing(ctx, versions)
	if err != nil {
		return nil, err
	}
	if len(missingNames) > 0 || len(missingIdents) > 0 {
		names := append([]pkgid.PackageName{}, missingNames...)
		for _, ident := range missingIdents {
			names = append(names, ident.Name)
		}
		return nil, &pkgindex.MissingIdentifierError{Names: names}
	}
	return resolved, nil
}

func (idx *Index) ResolvePackagesAllowMissing(ctx context.Context, versions map[pkgid.PackageName]pkgid.Version) (resolved map[pkgid.PackageName]pkgid.PackageIdentifier, missingNames []pkgid.PackageName, missingIdents []pkgid.PackageIdentifier, err error) {
	resolved = make(map[pkgid.PackageName]pkgid.PackageIdentifier, len(versions))
	for name, version := range versions {
		repo, err := idx.registry.repository(repoPrefix + string(name))
		if err != nil {
			return nil, nil, nil, err
		}

		switch exists, hasRepo, err := idx.resolveOne(ctx, repo, version); {
		case err != nil:
			return nil, nil, nil, err
		case !hasRepo:
			missingNames = append(missingNames, name)
		case !exists:
			missingIdents = append(missingIdents, pkgid.PackageIdentifier{Name: name, Version: version})
		default:
			resolved[name] = pkgid.PackageIdentifier{Name: name, Version: version}
		}
	}
	return resolved, missingNames, missingIdents, nil
}

func (idx *Index) resolveOne(ctx context.Context, repo *remote.Repository, version pkgid.Version) (exists, hasRepo bool, err error) {
	if !repoHasTags(ctx, repo) {
		return false, false, nil
	}
	exists, err = tagExists(ctx, repo, version.String())
	return exists, true, err
}

func (idx *Index) WithCabalFiles(ctx context.Context, idents []pkgid.PackageIdentifier, fn func(pkgindex.CabalFile) error) error {
	for _, ident := range idents {
		raw, err := idx.fetchCabalFile(ctx, ident)
		if err != nil {
			return err
		}
		if err := fn(pkgindex.CabalFile{Identifier: ident, Raw: raw}); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) fetchCabalFile(ctx context.Context, ident pkgid.PackageIdentifier) ([]byte, error) {
	repo, err := idx.registry.repository(repoPrefix + string(ident.Name))
	if err != nil {
		return nil, err
	}

	cached, err := ocicache.CachedTarget(repo, idx.layoutPath)
	if err != nil {
		return nil, err
	}

	_, manifestBytes, err := oras.FetchBytes(ctx, cached, ident.Version.String(), oras.DefaultFetchBytesOptions)
	if err != nil {
		return nil, err
	}

	var manifest v1.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, err
	}
	if len(manifest.Layers) != 1 {
		return nil, fmt.Errorf("ociindex: %s manifest carries %d layers, want 1", ident, len(manifest.Layers))
	}

	rc, err := cached.Fetch(ctx, manifest.Layers[0])
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// PushCabalFile publishes raw as the OCI artifact for ident, the way a
// real package mirror's publishing pipeline would — used by this index's
// own tests against an in-process fake registry, grounded in the
// teacher's pkg/ociindex.PushIndex/oras.TagBytes idiom.
func PushCabalFile(ctx context.Context, registry *Registry, ident pkgid.PackageIdentifier, raw []byte) error {
	repo, err := registry.repository(repoPrefix + string(ident.Name))
	if err != nil {
		return err
	}

	layerDesc, err := oras.PushBytes(ctx, repo, cabalLayerType, raw)
	if err != nil {
		return err
	}

	manifestDesc, err := oras.PackManifest(ctx, repo, oras.PackManifestVersion1_1, cabalManifestType, oras.PackManifestOptions{
		Layers: []v1.Descriptor{layerDesc},
	})
	if err != nil {
		return err
	}

	return repo.Tag(ctx, manifestDesc, ident.Version.String())
}

func tagExists(ctx context.Context, repo *remote.Repository, tag string) (bool, error) {
	_, err := repo.Resolve(ctx, tag)
	if err != nil {
		if errors.Is(err, errdef.ErrNotFound) || isErrorCode(err, errcode.ErrorCodeManifestUnknown) || isErrorCode(err, errcode.ErrorCodeNameUnknown) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func repoHasTags(ctx context.Context, repo *remote.Repository) bool {
	found := false
	_ = repo.Tags(ctx, "", func(tags []string) error {
		if len(tags) > 0 {
			found = true
		}
		return nil
	})
	return found
}

func isErrorCode(err error, code string) bool {
	var ec errcode.Error
	return errors.As(err, &ec) && ec.Code == code
}

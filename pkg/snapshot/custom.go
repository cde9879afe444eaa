// custom.go implements the custom-snapshot wire format and path-source
// resolution from spec.md §6: {compiler, packages, flags?}, where url0 is
// either an HTTP(S) URL (downloaded into a hash-addressed cache file) or a
// filesystem reference (file:// / file: stripped, canonicalized relative
// to the stack.yaml directory).
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/utils"
)

// Custom is CustomSnapshot from spec.md §3: compiler version, a set of
// PackageIdentifier, and an optional per-package FlagAssignment override.
type Custom struct {
	Compiler compiler.Version
	Packages []pkgid.PackageIdentifier
	Flags    map[pkgid.PackageName]pkgid.FlagAssignment
}

type rawCustom struct {
	Compiler string              `yaml:"compiler"`
	Packages []string            `yaml:"packages"`
	Flags    map[string]map[string]bool `yaml:"flags"`
}

// DecodeCustom parses a custom snapshot document. Compiler-string failures
// surface as *compiler.InvalidCompilerError, per spec.md §7.
func DecodeCustom(raw []byte) (*Custom, error) {
	var rc rawCustom
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return nil, err
	}

	cv, err := compiler.Parse(rc.Compiler)
	if err != nil {
		return nil, err
	}

	pkgs := make([]pkgid.PackageIdentifier, 0, len(rc.Packages))
	for _, ident := range rc.Packages {
		name, version, err := splitIdentifier(ident)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkgid.PackageIdentifier{Name: name, Version: version})
	}

	var flags map[pkgid.PackageName]pkgid.FlagAssignment
	if len(rc.Flags) > 0 {
		flags = make(map[pkgid.PackageName]pkgid.FlagAssignment, len(rc.Flags))
		for name, fa := range rc.Flags {
			assignment := make(pkgid.FlagAssignment, len(fa))
			for flagName, v := range fa {
				assignment[pkgid.FlagName(flagName)] = v
			}
			flags[pkgid.PackageName(name)] = assignment
		}
	}

	return &Custom{Compiler: cv, Packages: pkgs, Flags: flags}, nil
}

func splitIdentifier(s string) (pkgid.PackageName, pkgid.Version, error) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return "", pkgid.Version{}, fmt.Errorf("snapshot: invalid package identifier %q", s)
	}
	v, err := pkgid.NewVersion(s[idx+1:])
	if err != nil {
		return "", pkgid.Version{}, fmt.Errorf("snapshot: invalid package identifier %q: %w", s, err)
	}
	return pkgid.PackageName(s[:idx]), v, nil
}

// ResolveSource loads the raw bytes behind a custom snapshot's url0
// reference: an HTTP(S) URL downloaded into a hash-addressed cache file
// under cacheDir, or a filesystem path (after stripping a file:// / file:
// prefix) canonicalized relative to stackYamlDir.
func ResolveSource(ctx context.Context, dl Downloader, url0, stackYamlDir, cacheDir string) ([]byte, error) {
	if isHTTPURL(url0) {
		return resolveRemoteSource(ctx, dl, url0, cacheDir)
	}
	return resolveFileSource(url0, stackYamlDir)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func resolveFileSource(s, stackYamlDir string) ([]byte, error) {
	stripped := strings.TrimPrefix(strings.TrimPrefix(s, "file://"), "file:")
	path := utils.ResolvePath(stackYamlDir, stripped)
	return os.ReadFile(path)
}

// resolveRemoteSource downloads url into a content-addressed cache file
// (SHA-256 of the URL string — the source document's identity is the URL
// it was declared with) guarded by a file lock, so two concurrent `spm`
// invocations resolving the same custom snapshot never race on the same
// cache file (SPEC_FULL.md §5).
func resolveRemoteSource(ctx context.Context, dl Downloader, url0, cacheDir string) ([]byte, error) {
	digest := sha256.Sum256([]byte(url0))
	cachePath := filepath.Join(cacheDir, hex.EncodeToString(digest[:])+".yaml")
	lockPath := cachePath + ".lock"

	if raw, err := os.ReadFile(cachePath); err == nil {
		return raw, nil
	}

	if err := utils.EnsureDirs(cacheDir); err != nil {
		return nil, err
	}

	if err := utils.WithInstallLock(ctx, lockPath, func() error {
		// Re-check after acquiring the lock: another process may have
		// populated the cache while we waited.
		if _, err := os.Stat(cachePath); err == nil {
			return nil
		}
		return dl.Download(ctx, url0, cachePath, nil)
	}); err != nil {
		return nil, err
	}
	return os.ReadFile(cachePath)
}

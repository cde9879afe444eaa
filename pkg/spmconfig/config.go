// Package spmconfig is the config environment from spec.md §6: platform,
// stackRoot, configMiniBuildPlanCache(name), bcPackageCaches, bcStackYaml —
// adapted from the teacher's pkg/assistantconfig, which resolves the same
// kind of per-user home directory and cache layout.
package spmconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"stackline.dev/spm/pkg/platform"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/utils"
)

// Config is the resolution core's config environment: everything it needs
// to locate caches and the active project's stack.yaml without the core
// itself knowing about user home directories or env vars.
type Config struct {
	StackRoot     string
	Platform      platform.Platform
	NetrcPath     string
	StackYaml     string
	PackageCaches []string

	SnapshotDirectoryURL string

	// IndexHTTPURL and IndexOCIRegistry select the package index
	// backend: a non-empty IndexOCIRegistry takes precedence over the
	// HTTP mirror.
	IndexHTTPURL     string
	IndexOCIRegistry string
	IndexOCIInsecure bool
}

// Get resolves the config environment from the environment, the way the
// teacher's assistantconfig.Get resolves DPM_HOME/DPM_EDITION/etc.
func Get() (*Config, error) {
	root, err := stackRoot()
	if err != nil {
		return nil, err
	}
	return GetWithStackRoot(root)
}

func GetWithStackRoot(root string) (*Config, error) {
	netrcPath := filepath.Join(homeDir(), NetrcFilename)
	if v, ok := os.LookupEnv(NetrcEnvVar); ok {
		netrcPath = v
	}

	stackYaml := filepath.Join(".", StackYamlFilename)
	if v, ok := os.LookupEnv(StackYamlEnvVar); ok {
		stackYaml = v
	}

	directoryURL := DefaultSnapshotDirectoryURL
	if v, ok := os.LookupEnv(SnapshotDirectoryURLEnvVar); ok {
		directoryURL = v
	}

	indexURL := DefaultIndexHTTPURL
	if v, ok := os.LookupEnv(IndexHTTPURLEnvVar); ok {
		indexURL = v
	}

	insecure, _, err := utils.BoolEnvVar(IndexOCIInsecureEnvVar)
	if err != nil {
		return nil, err
	}

	return &Config{
		StackRoot:            root,
		Platform:             platform.Current(),
		NetrcPath:            netrcPath,
		StackYaml:            stackYaml,
		SnapshotDirectoryURL: directoryURL,
		IndexHTTPURL:         indexURL,
		IndexOCIRegistry:     os.Getenv(IndexOCIRegistryEnvVar),
		IndexOCIInsecure:     insecure,
	}, nil
}

// EnsureDirs creates every directory the resolution core's caches live
// under.
func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.StackRoot, c.SnapshotsDir(), c.SnapshotCacheDir(), c.CustomSnapshotCacheDir(), c.CabalFileCacheDir())
}

// CabalFileCacheDir is the parent of the httpindex backend's per-identifier
// cabal-file blob cache.
func (c *Config) CabalFileCacheDir() string {
	return filepath.Join(c.StackRoot, CabalFileCacheDirName)
}

// SnapshotsDir is the local mirror of downloaded snapshot documents
// (spec.md §4.2's snapshotsDir).
func (c *Config) SnapshotsDir() string {
	return filepath.Join(c.StackRoot, SnapshotsDirName)
}

// SnapshotCacheDir is the parent of every per-(snapshot, compiler)
// materialized MiniPlan cache file.
func (c *Config) SnapshotCacheDir() string {
	return filepath.Join(c.StackRoot, SnapshotCacheDirName)
}

// MiniBuildPlanCache is configMiniBuildPlanCache(name) (spec.md §6): the
// binary cache path for one snapshot's materialized MiniPlan.
func (c *Config) MiniBuildPlanCache(name snapname.Name) string {
	return filepath.Join(c.SnapshotCacheDir(), name.String()+".cache")
}

// CustomSnapshotCacheDir is the hash-addressed cache for custom snapshot
// source documents (spec.md §5).
func (c *Config) CustomSnapshotCacheDir() string {
	return filepath.Join(c.StackRoot, CustomSnapshotCacheDirName)
}

func stackRoot() (string, error) {
	if v, ok := os.LookupEnv(HomeEnvVar); ok {
		return v, nil
	}
	return defaultStackRoot()
}

func defaultStackRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("spmconfig: APPDATA environment variable is not set")
		}
		return filepath.Join(dir, "spm"), nil
	default:
		return filepath.Join(homeDir(), ".spm"), nil
	}
}

func homeDir() string {
	if v, ok := os.LookupEnv("HOME"); ok {
		return v
	}
	return "."
}

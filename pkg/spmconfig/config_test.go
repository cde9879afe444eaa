package spmconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/snapname"
)

func TestGetWithStackRoot_DefaultsUnlessOverridden(t *testing.T) {
	root := t.TempDir()
	for _, v := range []string{StackYamlEnvVar, NetrcEnvVar, SnapshotDirectoryURLEnvVar, IndexHTTPURLEnvVar, IndexOCIRegistryEnvVar, IndexOCIInsecureEnvVar} {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}

	cfg, err := GetWithStackRoot(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.StackRoot)
	assert.Equal(t, DefaultSnapshotDirectoryURL, cfg.SnapshotDirectoryURL)
	assert.Equal(t, DefaultIndexHTTPURL, cfg.IndexHTTPURL)
	assert.Empty(t, cfg.IndexOCIRegistry)
	assert.False(t, cfg.IndexOCIInsecure)
}

func TestGetWithStackRoot_HonorsEnvOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(SnapshotDirectoryURLEnvVar, "https://example.invalid/directory.json")
	t.Setenv(IndexHTTPURLEnvVar, "https://example.invalid/index")
	t.Setenv(IndexOCIRegistryEnvVar, "registry.example.invalid")
	t.Setenv(IndexOCIInsecureEnvVar, "true")

	cfg, err := GetWithStackRoot(root)
	require.NoError(t, err)

	assert.Equal(t, "https://example.invalid/directory.json", cfg.SnapshotDirectoryURL)
	assert.Equal(t, "https://example.invalid/index", cfg.IndexHTTPURL)
	assert.Equal(t, "registry.example.invalid", cfg.IndexOCIRegistry)
	assert.True(t, cfg.IndexOCIInsecure)
}

func TestEnsureDirs_CreatesEveryCacheDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "spm-home")
	cfg, err := GetWithStackRoot(root)
	require.NoError(t, err)

	require.NoError(t, cfg.EnsureDirs())

	for _, dir := range []string{root, cfg.SnapshotsDir(), cfg.SnapshotCacheDir(), cfg.CustomSnapshotCacheDir(), cfg.CabalFileCacheDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestMiniBuildPlanCache_PathIncludesSnapshotName(t *testing.T) {
	cfg, err := GetWithStackRoot(t.TempDir())
	require.NoError(t, err)

	name, err := snapname.Parse("lts-21.5")
	require.NoError(t, err)

	path := cfg.MiniBuildPlanCache(name)
	assert.Equal(t, filepath.Join(cfg.SnapshotCacheDir(), "lts-21.5.cache"), path)
}

func TestStackRoot_UsesHomeEnvVarOverride(t *testing.T) {
	custom := t.TempDir()
	t.Setenv(HomeEnvVar, custom)

	root, err := stackRoot()
	require.NoError(t, err)
	assert.Equal(t, custom, root)
}

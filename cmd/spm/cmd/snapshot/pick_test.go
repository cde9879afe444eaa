package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/snapshot"
)

func TestCandidateNames_NewestMajorFirstThenNightly(t *testing.T) {
	day, err := time.Parse("2006-01-02", "2024-06-01")
	require.NoError(t, err)

	names := candidateNames(snapshot.Snapshots{
		LTS:           map[int]int{21: 5, 20: 10},
		LatestNightly: day,
	})

	require.Len(t, names, 3)
	assert.Equal(t, "lts-21.5", names[0].String())
	assert.Equal(t, "lts-20.10", names[1].String())
	assert.Equal(t, "nightly-2024-06-01", names[2].String())
}

func TestCandidateNames_NoNightlyOmitsIt(t *testing.T) {
	names := candidateNames(snapshot.Snapshots{LTS: map[int]int{21: 5}})
	require.Len(t, names, 1)
	assert.Equal(t, "lts-21.5", names[0].String())
}

func TestPoolFromPlan_CollectsEveryPackageVersion(t *testing.T) {
	cv, err := compiler.Parse("ghc-9.4.7")
	require.NoError(t, err)
	baseVersion, err := pkgid.NewVersion("4.18.0")
	require.NoError(t, err)
	textVersion, err := pkgid.NewVersion("2.0.1")
	require.NoError(t, err)

	plan := miniplan.New(cv)
	plan.Packages["base"] = miniplan.NewPackageInfo(baseVersion, nil)
	plan.Packages["text"] = miniplan.NewPackageInfo(textVersion, nil)

	pool := poolFromPlan(plan)

	require.Len(t, pool, 2)
	assert.Equal(t, baseVersion, pool[pkgid.PackageName("base")])
	assert.Equal(t, textVersion, pool[pkgid.PackageName("text")])
}

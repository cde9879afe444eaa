package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectory_KeepsNewestMinorPerMajor(t *testing.T) {
	doc := directoryDoc{
		"nightly": "nightly-2024-06-01",
		"lts-21":  "lts-21.5",
		"lts-20":  "lts-20.10",
	}

	snapshots, err := parseDirectory(doc)
	require.NoError(t, err)

	minor, ok := snapshots.LatestLTSMinor(21)
	require.True(t, ok)
	assert.Equal(t, 5, minor)

	minor, ok = snapshots.LatestLTSMinor(20)
	require.True(t, ok)
	assert.Equal(t, 10, minor)

	assert.Equal(t, 2024, snapshots.LatestNightly.Year())
}

func TestParseDirectory_IgnoresUnrecognizedKeys(t *testing.T) {
	doc := directoryDoc{"some-other-key": "whatever"}
	snapshots, err := parseDirectory(doc)
	require.NoError(t, err)
	assert.Empty(t, snapshots.LTS)
}

func TestParseDirectory_RejectsNightlyKeyWithLTSValue(t *testing.T) {
	doc := directoryDoc{"nightly": "lts-21.5"}
	_, err := parseDirectory(doc)
	require.Error(t, err)
	var invalid *InvalidDirectoryError
	assert.ErrorAs(t, err, &invalid)
}

func TestParseDirectory_RejectsLTSKeyWithNightlyValue(t *testing.T) {
	doc := directoryDoc{"lts-21": "nightly-2024-06-01"}
	_, err := parseDirectory(doc)
	require.Error(t, err)
	var invalid *InvalidDirectoryError
	assert.ErrorAs(t, err, &invalid)
}

func TestSnapshots_SortedLTSMajorsDescending(t *testing.T) {
	s := Snapshots{LTS: map[int]int{18: 1, 21: 5, 20: 10}}
	assert.Equal(t, []int{21, 20, 18}, s.SortedLTSMajors())
}

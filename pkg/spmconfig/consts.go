package spmconfig

const (
	StackYamlFilename = "stack.yaml"

	SnapshotCacheDirName       = "build-plan-cache"
	CustomSnapshotCacheDirName = "custom-snapshot-cache"
	SnapshotsDirName           = "snapshots"
	CabalFileCacheDirName      = "cabal-files"
	NetrcFilename              = ".netrc"

	// DefaultSnapshotDirectoryURL is the well-known directory document
	// listing every curated LTS/nightly snapshot (spec.md §4.1).
	DefaultSnapshotDirectoryURL = "https://raw.githubusercontent.com/fpco/stackage-content/master/stack/stackage-snapshots.json"

	// DefaultIndexHTTPURL is the default plain-HTTP package index mirror
	// consulted when no OCI registry index is configured.
	DefaultIndexHTTPURL = "https://hackage.haskell.org/packages/index"
)

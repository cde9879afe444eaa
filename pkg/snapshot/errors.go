package snapshot

import (
	"fmt"

	"stackline.dev/spm/pkg/snapname"
)

// NotFoundError is SnapshotNotFound(name) from spec.md §7: a 404 (or
// equivalent) fetching a snapshot document. Fatal for the current
// operation.
type NotFoundError struct {
	Name snapname.Name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot %s not found; see the snapshot directory for available snapshots", e.Name)
}

// InvalidDirectoryError is raised when the snapshot directory JSON
// disagrees with itself: the "nightly" key parses as LTS, or an "lts-"
// key parses as Nightly.
type InvalidDirectoryError struct {
	Key   string
	Value string
}

func (e *InvalidDirectoryError) Error() string {
	return fmt.Sprintf("invalid snapshot directory: key %q has value %q of the wrong kind", e.Key, e.Value)
}

// index.go implements the snapshot index client, spec.md §4.1:
// getSnapshots() -> Snapshots, by downloading and parsing the nightly/LTS
// directory JSON document.
package snapshot

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/snapname"
)

// Snapshots is the latest-nightly day plus the newest minor per LTS major,
// spec.md §3.
type Snapshots struct {
	LatestNightly time.Time
	LTS           map[int]int
}

// Downloader is the subset of the HTTP client interface the index client
// needs: fetch a URL's body.
type Downloader interface {
	Download(ctx context.Context, url, destPath string, checkStatus httpclient.CheckStatus) error
}

// LatestLTSMinor reports the newest known minor for an LTS major, if any.
func (s Snapshots) LatestLTSMinor(major int) (int, bool) {
	minor, ok := s.LTS[major]
	return minor, ok
}

// SortedLTSMajors returns LTS majors in descending order, newest first —
// the natural iteration order for a snapshot picker trying newest-first.
func (s Snapshots) SortedLTSMajors() []int {
	majors := make([]int, 0, len(s.LTS))
	for m := range s.LTS {
		majors = append(majors, m)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(majors)))
	return majors
}

// directoryDoc is the wire shape of the snapshot directory: keys are
// snapshot identifiers, values are snapshot names parseable back into a
// SnapName (spec.md §6).
type directoryDoc map[string]string

// GetSnapshots downloads the directory document at url and parses it per
// spec.md §4.1: the "nightly" key must parse as a Nightly name; "lts-"
// prefixed keys must parse as LTS, contributing {major: minor}; every
// other key is ignored.
func GetSnapshots(ctx context.Context, dl Downloader, url, tmpPath string) (Snapshots, error) {
	if err := dl.Download(ctx, url, tmpPath, nil); err != nil {
		return Snapshots{}, err
	}
	return decodeDirectory(tmpPath)
}

func decodeDirectory(path string) (Snapshots, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshots{}, err
	}
	var doc directoryDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Snapshots{}, err
	}
	return parseDirectory(doc)
}

func parseDirectory(doc directoryDoc) (Snapshots, error) {
	out := Snapshots{LTS: map[int]int{}}
	for key, value := range doc {
		switch {
		case key == "nightly":
			n, err := snapname.Parse(value)
			if err != nil {
				return Snapshots{}, err
			}
			if !n.IsNightly() {
				return Snapshots{}, &InvalidDirectoryError{Key: key, Value: value}
			}
			out.LatestNightly = n.NightlyDay()
		case strings.HasPrefix(key, "lts-"):
			n, err := snapname.Parse(value)
			if err != nil {
				return Snapshots{}, err
			}
			if !n.IsLTS() {
				return Snapshots{}, &InvalidDirectoryError{Key: key, Value: value}
			}
			major, minor := n.LTSMajorMinor()
			if existing, ok := out.LTS[major]; !ok || minor > existing {
				out.LTS[major] = minor
			}
		default:
			// Ignored: not a recognized directory key.
		}
	}
	return out, nil
}

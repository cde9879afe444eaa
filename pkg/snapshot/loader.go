// loader.go implements spec.md §4.2: loadBuildPlan(name) -> BuildPlan.
// Resolves a per-snapshot filename within a local snapshots directory; on
// a local miss, downloads from the flavor-specific well-known URL and
// decodes the result.
package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/snapname"
)

const (
	flavorLTSHaskell     = "lts-haskell"
	flavorStackageNightly = "stackage-nightly"
	rawHost               = "https://raw.githubusercontent.com"
)

// downloadURL renders the fixed raw-content URL pattern from spec.md §6:
// raw-host/fpco/{flavor}/master/{snapName}.yaml
func downloadURL(name snapname.Name) string {
	return fmt.Sprintf("%s/fpco/%s/master/%s.yaml", rawHost, flavorFor(name), name.String())
}

func flavorFor(name snapname.Name) string {
	if name.IsNightly() {
		return flavorStackageNightly
	}
	return flavorLTSHaskell
}

// LocalPath is the per-snapshot filename within a local snapshots
// directory.
func LocalPath(snapshotsDir string, name snapname.Name) string {
	return filepath.Join(snapshotsDir, name.String()+".yaml")
}

// LoadBuildPlan resolves the raw snapshot document: a local file under
// snapshotsDir if present and decodable, else a download from the
// well-known URL into that path.
func LoadBuildPlan(ctx context.Context, dl Downloader, snapshotsDir string, name snapname.Name) (*RawBuildPlan, error) {
	path := LocalPath(snapshotsDir, name)

	if doc, err := tryDecodeLocal(path); err == nil {
		return doc, nil
	}

	if err := dl.Download(ctx, downloadURL(name), path, checkNotFound(name)); err != nil {
		return nil, err
	}

	return decodeBuildPlan(path)
}

func tryDecodeLocal(path string) (*RawBuildPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc RawBuildPlan
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func decodeBuildPlan(path string) (*RawBuildPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc RawBuildPlan
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		// Decoding errors from a successfully downloaded file are
		// surfaced unchanged (spec.md §4.2).
		return nil, err
	}
	return &doc, nil
}

// checkNotFound maps a 404 to NotFoundError; any other non-2xx status
// falls through to the httpclient package's default handling.
func checkNotFound(name snapname.Name) func(int) error {
	return func(statusCode int) error {
		if statusCode == http.StatusNotFound {
			return &NotFoundError{Name: name}
		}
		if statusCode < 200 || statusCode >= 300 {
			return &httpclient.StatusError{StatusCode: statusCode, URL: downloadURL(name)}
		}
		return nil
	}
}

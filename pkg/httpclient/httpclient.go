// Package httpclient implements the "Consumed: HTTP client" interface
// from spec.md §6: download(req, destPath) with a checkStatus hook that
// lets a caller translate a status code into a terminating error (used
// for 404 -> SnapshotNotFound).
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jdx/go-netrc"

	"stackline.dev/spm/pkg/utils"
)

// StatusError carries the HTTP status of a failed download, so a caller's
// CheckStatus hook can pattern-match on it (e.g. map 404 to
// SnapshotNotFound) without re-parsing the response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: unexpected status %d downloading %s", e.StatusCode, e.URL)
}

// CheckStatus translates a response status into a terminating error, or
// returns nil to accept the response. The default (nil hook) accepts only
// 2xx.
type CheckStatus func(statusCode int) error

// Client downloads URLs to disk, optionally authenticating against a
// netrc-configured host — the supplemental feature letting snapshot
// mirrors require auth, described in SPEC_FULL.md §4.12.
type Client struct {
	HTTP       *http.Client
	NetrcPath  string // empty disables netrc lookup
}

func New() *Client {
	return &Client{HTTP: http.DefaultClient}
}

// Download fetches url into destPath, running checkStatus (if non-nil)
// against the response status before reading the body. A 2xx response
// with no checkStatus override is always accepted.
func (c *Client) Download(ctx context.Context, url, destPath string, checkStatus CheckStatus) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.authenticate(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if checkStatus != nil {
		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}
	} else if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	if err := utils.EnsureDirs(filepath.Dir(destPath)); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return f.Sync()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// authenticate consults the netrc file (if configured) for credentials
// matching the request host, mirroring how raw-content mirrors behind
// auth are typically accessed without a dedicated registry protocol.
func (c *Client) authenticate(req *http.Request) {
	if c.NetrcPath == "" {
		return
	}
	n, err := netrc.Parse(c.NetrcPath)
	if err != nil {
		return
	}
	m := n.Machine(req.URL.Hostname())
	if m == nil {
		return
	}
	login := m.Get("login")
	password := m.Get("password")
	if login == "" && password == "" {
		return
	}
	req.SetBasicAuth(login, password)
}

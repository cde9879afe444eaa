// Package spmcli wires the concrete collaborators the CLI needs —
// package index, description oracle, HTTP client — from a resolved
// spmconfig.Config, the way the teacher's cmd/dpm commands build a
// remotepuller/resolver pair from an assistantconfig.Config.
package spmcli

import (
	"context"
	"fmt"
	"log/slog"

	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/materializer"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgdesc/yamldesc"
	"stackline.dev/spm/pkg/pkgindex"
	"stackline.dev/spm/pkg/pkgindex/httpindex"
	"stackline.dev/spm/pkg/pkgindex/ociindex"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/snapshot"
	"stackline.dev/spm/pkg/spmconfig"
)

// Env bundles the config environment with the collaborators constructed
// from it: the package index (http or OCI-backed, per config), the
// package-description oracle, and the HTTP client every subcommand
// downloads through.
type Env struct {
	Config *spmconfig.Config
	HTTP   *httpclient.Client
	Index  pkgindex.Index
	Oracle pkgdesc.Oracle
}

// New resolves the config environment and builds every collaborator it
// implies.
func New() (*Env, error) {
	config, err := spmconfig.Get()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}
	return NewWithConfig(config)
}

func NewWithConfig(config *spmconfig.Config) (*Env, error) {
	httpClient := httpclient.New()
	httpClient.NetrcPath = config.NetrcPath

	idx, err := newIndex(config, httpClient)
	if err != nil {
		return nil, err
	}

	return &Env{
		Config: config,
		HTTP:   httpClient,
		Index:  idx,
		Oracle: yamldesc.New(),
	}, nil
}

// LoadAndMaterialize runs the resolution core's load-then-materialize
// path (spec.md §4.2/§4.3) for name, shared by every subcommand that
// needs a snapshot's MiniPlan (plan, check, materialize, snapshot pick).
func (e *Env) LoadAndMaterialize(ctx context.Context, name snapname.Name) (*miniplan.Plan, error) {
	raw, err := snapshot.LoadBuildPlan(ctx, e.HTTP, e.Config.SnapshotsDir(), name)
	if err != nil {
		return nil, err
	}

	cores, err := raw.CorePackageIdentifiers()
	if err != nil {
		return nil, err
	}
	userVersions, userFlags, err := raw.UserPackages()
	if err != nil {
		return nil, err
	}
	cv, err := compiler.Parse(raw.SystemInfo.CompilerVersion)
	if err != nil {
		return nil, err
	}

	in := materializer.Input{
		Compiler:     cv,
		CorePackages: cores,
		UserPackages: userVersions,
		UserFlags:    userFlags,
		Platform:     e.Config.Platform,
	}

	return materializer.Materialize(ctx, e.Index, e.Oracle, in, e.Config.MiniBuildPlanCache(name))
}

func newIndex(config *spmconfig.Config, httpClient *httpclient.Client) (pkgindex.Index, error) {
	if config.IndexOCIRegistry == "" {
		return httpindex.New(httpClient, config.IndexHTTPURL, config.CabalFileCacheDir()), nil
	}

	client := auth.DefaultClient
	ds, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("spmcli: no docker credential store found; OCI index requests will be unauthenticated", "err", err.Error())
	} else {
		client.Credential = credentials.Credential(readOnlyStore{ds})
	}

	registry := ociindex.NewWithAuth(config.IndexOCIRegistry, client, config.IndexOCIInsecure)
	return ociindex.New(registry, config.CabalFileCacheDir()), nil
}

// readOnlyStore adapts a *credentials.DynamicStore (typically sourced from
// the system's docker config.json) into a credentials.Store that refuses
// writes — this index only ever needs to read a package publisher's
// existing login, never to mutate the docker-managed config.
type readOnlyStore struct {
	ds *credentials.DynamicStore
}

var _ credentials.Store = readOnlyStore{}

func (r readOnlyStore) Get(ctx context.Context, serverAddress string) (auth.Credential, error) {
	return r.ds.Get(ctx, serverAddress)
}

func (r readOnlyStore) Put(ctx context.Context, serverAddress string, cred auth.Credential) error {
	return fmt.Errorf("spmcli: read-only credential store does not allow put operations")
}

func (r readOnlyStore) Delete(ctx context.Context, serverAddress string) error {
	return fmt.Errorf("spmcli: read-only credential store does not allow delete operations")
}

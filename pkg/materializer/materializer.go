// Package materializer implements toMiniBuildPlan (spec.md §4.3): turning a
// snapshot's raw core/user-land package maps into a fully-resolved MiniPlan
// by consulting the package index and the package-description oracle, then
// caching the result under a versioned tag.
package materializer

import (
	"context"
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"stackline.dev/spm/pkg/binarycache"
	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgdesc"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/pkgindex"
	"stackline.dev/spm/pkg/platform"
	"stackline.dev/spm/pkg/spmerr"
)

// Input is the materializer's request: the compiler a snapshot pins, its
// core package map, and its user-land pins with any per-package flag
// overrides (spec.md §4.3).
type Input struct {
	Compiler     compiler.Version
	CorePackages map[pkgid.PackageName]pkgid.Version
	UserPackages map[pkgid.PackageName]pkgid.Version
	UserFlags    map[pkgid.PackageName]pkgid.FlagAssignment
	Platform     platform.Platform
}

// Materialize runs the §4.3 algorithm against a cache: cachePath identifies
// the per-(snapshot, compiler) binary envelope; a cache hit short-circuits
// everything below.
func Materialize(ctx context.Context, idx pkgindex.Index, oracle pkgdesc.Oracle, in Input, cachePath string) (*miniplan.Plan, error) {
	return binarycache.TaggedDecodeOrLoad(cachePath, binarycache.CurrentTag, func() (*miniplan.Plan, error) {
		return build(ctx, idx, oracle, in)
	})
}

func build(ctx context.Context, idx pkgindex.Index, oracle pkgdesc.Oracle, in Input) (*miniplan.Plan, error) {
	// Step 1: cores, allow-missing. A nonempty missingNames is a
	// programmer error — the index doesn't know the name at all.
	coreResolved, missingCoreNames, missingCoreIdents, err := idx.ResolvePackagesAllowMissing(ctx, in.CorePackages)
	if err != nil {
		return nil, fmt.Errorf("materializer: resolving core packages: %w", err)
	}
	if len(missingCoreNames) > 0 {
		spmerr.Panicf("materializer: index has no identifier at all for compiler-shipped packages %v", missingCoreNames)
	}

	// Step 2: user-land, fatal on missing.
	userResolved, err := idx.ResolvePackages(ctx, in.UserPackages)
	if err != nil {
		return nil, fmt.Errorf("materializer: resolving user-land packages: %w", err)
	}

	missingCoreSet := mapset.NewThreadUnsafeSet[pkgid.PackageName]()
	for _, ident := range missingCoreIdents {
		missingCoreSet.Add(ident.Name)
	}

	plan := miniplan.New(in.Compiler)

	// Synthesize entries for cores the index couldn't match a version
	// for: empty deps, hasLibrary = true (spec.md §4.3 step 1).
	for _, ident := range missingCoreIdents {
		info := miniplan.NewPackageInfo(ident.Version, nil)
		info.HasLibrary = true
		plan.Packages[ident.Name] = info
	}

	// Step 3: fetch and parse every resolved identifier's declaration.
	allResolved := make([]pkgid.PackageIdentifier, 0, len(coreResolved)+len(userResolved))
	for _, ident := range coreResolved {
		allResolved = append(allResolved, ident)
	}
	for _, ident := range userResolved {
		allResolved = append(allResolved, ident)
	}
	// Deterministic fetch order, since WithCabalFiles streams via a
	// caller-owned callback and the resolution core is single-threaded.
	sort.Slice(allResolved, func(i, j int) bool { return allResolved[i].Name < allResolved[j].Name })

	parseErr := idx.WithCabalFiles(ctx, allResolved, func(cf pkgindex.CabalFile) error {
		info, err := resolveOne(oracle, cf, in)
		if err != nil {
			return fmt.Errorf("materializer: resolving %s: %w", cf.Identifier, err)
		}
		miniplan.StripSelfEdge(cf.Identifier.Name, info)
		plan.Packages[cf.Identifier.Name] = info
		return nil
	})
	if parseErr != nil {
		return nil, parseErr
	}

	// Step 4: strip deps on cores the index never matched a version
	// for — the compiler already supplies them, so no install plan
	// should chase them.
	if missingCoreSet.Cardinality() > 0 {
		for _, info := range plan.Packages {
			for dep := range missingCoreSet.Iter() {
				info.PackageDeps.Remove(dep)
			}
		}
	}

	// Step 5: apply the closed set of build-plan fixes.
	applyFixes(plan.Packages)

	return plan, nil
}

func resolveOne(oracle pkgdesc.Oracle, cf pkgindex.CabalFile, in Input) (*miniplan.PackageInfo, error) {
	_, unresolved, err := oracle.ReadUnresolved(cf.Raw)
	if err != nil {
		return nil, err
	}

	flags := in.UserFlags[cf.Identifier.Name]
	cfg := pkgdesc.Config{
		EnableTests:      false,
		EnableBenchmarks: false,
		Flags:            flags,
		CompilerVersion:  in.Compiler,
		Platform:         in.Platform,
	}

	resolved, err := oracle.Resolve(cfg, unresolved)
	if err != nil {
		return nil, err
	}

	info := miniplan.NewPackageInfo(cf.Identifier.Version, flags)
	info.HasLibrary = resolved.HasLibrary()
	for name := range pkgdesc.ResolvedDeps(cf.Identifier.Name, resolved) {
		info.PackageDeps.Add(name)
	}
	for _, tool := range resolved.PackageToolDependencies() {
		info.ToolDeps.Add(tool)
	}
	for _, exe := range resolved.Executables() {
		info.Exes.Add(exe)
	}
	return info, nil
}

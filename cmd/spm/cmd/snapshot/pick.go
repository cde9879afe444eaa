package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/bundlecheck"
	"stackline.dev/spm/pkg/diagnostics"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/snappicker"
	"stackline.dev/spm/pkg/snapshot"
	"stackline.dev/spm/pkg/spmcli"
	"stackline.dev/spm/pkg/utils"
)

// pickCmd runs findBuildPlan (spec.md §4.9) over every known LTS major
// (newest first) then the latest nightly, against the bundle of local
// package descriptions read from --dir.
func pickCmd(env *spmcli.Env) *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick the newest snapshot the local package bundle builds against",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			tmpDir, cleanup, err := utils.MkdirTemp(env.Config.StackRoot, "snapshot-directory-")
			if err != nil {
				return err
			}
			defer cleanup()

			snapshots, err := snapshot.GetSnapshots(cmd.Context(), env.HTTP, env.Config.SnapshotDirectoryURL, filepath.Join(tmpDir, "snapshots.yaml"))
			if err != nil {
				return err
			}

			locals, err := readLocalDescriptions(env, dirs)
			if err != nil {
				return err
			}

			candidates := buildCandidates(cmd.Context(), env, candidateNames(snapshots), locals, func(name snapname.Name, err error) {
				cmd.PrintErrln(color.YellowString("skipping %s: %s", name.String(), err.Error()))
			})

			picked, check, ok, err := snappicker.FindBuildPlan(env.Oracle, env.Config.Platform, candidates, func(p snappicker.Progress[snapname.Name]) {
				cmd.Println(diagnostics.SnapshotPickerProgress(p))
			})
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("no candidate snapshot builds this bundle")
				return nil
			}

			cmd.Printf("picked %s (%d dependency error(s))\n", picked.String(), len(check.Errors))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "directory containing a package description (repeatable)")

	return cmd
}

// candidateNames orders every known LTS major newest-first, then the
// latest nightly last — spec.md §4.9's "iterate candidates in order"
// applied to the full known directory rather than a caller-supplied list.
func candidateNames(snapshots snapshot.Snapshots) []snapname.Name {
	majors := snapshots.SortedLTSMajors()
	names := make([]snapname.Name, 0, len(majors)+1)
	for _, major := range majors {
		minor, ok := snapshots.LatestLTSMinor(major)
		if !ok {
			continue
		}
		names = append(names, snapname.LTS(major, minor))
	}
	if !snapshots.LatestNightly.IsZero() {
		names = append(names, snapname.Nightly(snapshots.LatestNightly))
	}
	return names
}

// buildCandidates materializes every candidate name, skipping (via onSkip)
// any that fail to load or materialize — a snapshot document that 404s or
// a compiler version the materializer rejects disqualifies that candidate
// without aborting the whole pick.
func buildCandidates(ctx context.Context, env *spmcli.Env, names []snapname.Name, locals []bundlecheck.Local, onSkip func(snapname.Name, error)) []snappicker.Candidate[snapname.Name] {
	candidates := make([]snappicker.Candidate[snapname.Name], 0, len(names))
	for _, name := range names {
		plan, err := env.LoadAndMaterialize(ctx, name)
		if err != nil {
			if onSkip != nil {
				onSkip(name, err)
			}
			continue
		}
		candidates = append(candidates, snappicker.Candidate[snapname.Name]{
			Snapshot: name,
			Compiler: plan.CompilerVersion,
			Pool:     poolFromPlan(plan),
			Locals:   locals,
		})
	}
	return candidates
}

func poolFromPlan(plan *miniplan.Plan) map[pkgid.PackageName]pkgid.Version {
	pool := make(map[pkgid.PackageName]pkgid.Version, len(plan.Packages))
	for name, info := range plan.Packages {
		pool[name] = info.Version
	}
	return pool
}

// readLocalDescriptions reads one package.yaml per directory through the
// configured oracle, mirroring the check command's --dir handling.
func readLocalDescriptions(env *spmcli.Env, dirs []string) ([]bundlecheck.Local, error) {
	locals := make([]bundlecheck.Local, 0, len(dirs))
	for _, dir := range dirs {
		raw, err := os.ReadFile(filepath.Join(dir, "package.yaml"))
		if err != nil {
			return nil, err
		}
		warnings, desc, err := env.Oracle.ReadUnresolved(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshot pick: %s: %w", dir, err)
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, color.YellowString("warning: %s: %s", dir, w))
		}
		locals = append(locals, bundlecheck.Local{Desc: desc})
	}
	return locals, nil
}

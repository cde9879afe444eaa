package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/bundlecheck"
	"stackline.dev/spm/pkg/builtincommand"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/spmcli"
)

// checkCmd runs checkBundleBuildPlan (spec.md §4.8) over every local
// package description found under the given directories, against a
// materialized snapshot's pool.
func checkCmd(env *spmcli.Env) *cobra.Command {
	var snapshotName string
	var paths []string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Check) + " [local package directories...]",
		Short: "Check local package descriptions' flags against a snapshot's build plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := paths
			if len(args) > 0 {
				dirs = args
			}
			if len(dirs) == 0 {
				dirs = []string{"."}
			}

			name, err := snapname.Parse(snapshotName)
			if err != nil {
				return err
			}
			plan, err := loadAndMaterialize(cmd, env, name)
			if err != nil {
				return err
			}

			pool := make(map[pkgid.PackageName]pkgid.Version, len(plan.Packages))
			for n, entry := range plan.Packages {
				pool[n] = entry.Version
			}

			locals, err := readLocalDescriptions(env, dirs)
			if err != nil {
				return err
			}

			result, err := bundlecheck.CheckBundleBuildPlan(env.Oracle, env.Config.Platform, plan.CompilerVersion, pool, locals)
			if err != nil {
				return err
			}

			cmd.Println(renderBundleCheck(result))
			if len(result.Errors) > 0 {
				return fmt.Errorf("check: %d package(s) have unsatisfied dependencies", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotName, "snapshot", "", "snapshot name, e.g. lts-21.5 or nightly-2024-01-01")
	cmd.Flags().StringSliceVar(&paths, "dir", nil, "directory containing a package description (repeatable)")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

// readLocalDescriptions reads one package.yaml per directory through the
// configured oracle, the way the teacher's multipackage commands walk a
// workspace's member directories.
func readLocalDescriptions(env *spmcli.Env, dirs []string) ([]bundlecheck.Local, error) {
	locals := make([]bundlecheck.Local, 0, len(dirs))
	for _, dir := range dirs {
		raw, err := os.ReadFile(filepath.Join(dir, "package.yaml"))
		if err != nil {
			return nil, err
		}
		warnings, desc, err := env.Oracle.ReadUnresolved(raw)
		if err != nil {
			return nil, fmt.Errorf("check: %s: %w", dir, err)
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, color.YellowString("warning: %s: %s", dir, w))
		}
		locals = append(locals, bundlecheck.Local{Desc: desc})
	}
	return locals, nil
}

func renderBundleCheck(result bundlecheck.Result) string {
	names := make([]pkgid.PackageName, 0, len(result.Flags))
	for name := range result.Flags {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		status := color.GreenString("ok")
		if _, failed := result.Errors[name]; failed {
			status = color.RedString("failed")
		}
		rows = append(rows, []string{string(name), formatFlags(result.Flags[name]), status})
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("PACKAGE", "FLAGS", "STATUS").
		Rows(rows...).
		String()
}

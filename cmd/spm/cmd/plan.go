package cmd

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/builtincommand"
	"stackline.dev/spm/pkg/diagnostics"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/resolve"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/spmcli"
)

// planCmd resolves the target closure (spec.md §4.5) for a set of target
// package names against a materialized snapshot.
func planCmd(env *spmcli.Env) *cobra.Command {
	var snapshotName string
	var shadow []string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Plan) + " [targets...]",
		Short: "Resolve a target closure against a snapshot's materialized build plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := snapname.Parse(snapshotName)
			if err != nil {
				return err
			}

			plan, err := loadAndMaterialize(cmd, env, name)
			if err != nil {
				return err
			}

			shadowed := mapset.NewThreadUnsafeSet[pkgid.PackageName]()
			for _, s := range shadow {
				shadowed.Add(pkgid.PackageName(s))
			}
			isShadowed := func(n pkgid.PackageName) bool { return shadowed.Contains(n) }

			targets := map[pkgid.PackageName]mapset.Set[pkgid.PackageName]{}
			for _, arg := range args {
				targets[pkgid.PackageName(arg)] = mapset.NewThreadUnsafeSet[pkgid.PackageName]("cli")
			}

			toInstall, _, err := resolve.ResolveBuildPlan(plan, isShadowed, targets, nil)
			if err != nil {
				if unknown, ok := err.(*resolve.UnknownPackages); ok {
					cmd.Println(diagnostics.UnknownPackages(unknown))
					return unknown
				}
				return err
			}

			cmd.Println(renderInstallPlan(toInstall))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotName, "snapshot", "", "snapshot name, e.g. lts-21.5 or nightly-2024-01-01")
	cmd.Flags().StringSliceVar(&shadow, "shadow", nil, "package names treated as shadowed by a local override")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

// loadAndMaterialize is the plan/check/materialize commands' shared step
// 1-5, delegated to spmcli.Env so the snapshot subcommand group (a
// different package) can reuse the exact same path.
func loadAndMaterialize(cmd *cobra.Command, env *spmcli.Env, name snapname.Name) (*miniplan.Plan, error) {
	return env.LoadAndMaterialize(cmd.Context(), name)
}

func renderInstallPlan(toInstall map[pkgid.PackageName]resolve.Install) string {
	names := make([]pkgid.PackageName, 0, len(toInstall))
	for name := range toInstall {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		install := toInstall[name]
		rows = append(rows, []string{string(name), install.Version.String(), formatFlags(install.Flags)})
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("PACKAGE", "VERSION", "FLAGS").
		Rows(rows...).
		String()
}

func formatFlags(flags pkgid.FlagAssignment) string {
	if len(flags) == 0 {
		return "-"
	}
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, string(name))
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%v", name, flags[pkgid.FlagName(name)])
	}
	return out
}

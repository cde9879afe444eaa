// Package diagnostics renders the resolution core's fatal diagnostics —
// UnknownPackages and a snapshot picker's BuildPlanCheck trail — the way
// the teacher's pkg/versions and pkg/publish render CLI output: lipgloss
// tables for structured listings, fatih/color for inline emphasis.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"stackline.dev/spm/pkg/deperror"
	"stackline.dev/spm/pkg/pkgid"
	"stackline.dev/spm/pkg/resolve"
	"stackline.dev/spm/pkg/snappicker"
)

// UnknownPackages renders a resolve.UnknownPackages as actionable text:
// suggested extra-deps for names with a best-known version, unknown names
// listed separately, then every shadowed name and its requirer chain
// (spec.md §7).
func UnknownPackages(err *resolve.UnknownPackages) string {
	var b strings.Builder

	if len(err.Unknown) > 0 {
		fmt.Fprintln(&b, color.RedString("Unknown packages:"))
		names := sortedUnknownNames(err.Unknown)

		var withVersion, without []pkgid.PackageName
		for _, name := range names {
			if err.Unknown[name].BestVersion != nil {
				withVersion = append(withVersion, name)
			} else {
				without = append(without, name)
			}
		}

		if len(withVersion) > 0 {
			fmt.Fprintln(&b, "  Add to extra-deps:")
			rows := make([][]string, 0, len(withVersion))
			for _, name := range withVersion {
				entry := err.Unknown[name]
				rows = append(rows, []string{
					fmt.Sprintf("- %s-%s", name, entry.BestVersion.String()),
					requirerList(entry.Requirers),
				})
			}
			b.WriteString(renderTable(rows))
		}

		if len(without) > 0 {
			fmt.Fprintln(&b, "  No known version:")
			for _, name := range without {
				fmt.Fprintf(&b, "  - %s (needed by %s)\n", name, requirerList(err.Unknown[name].Requirers))
			}
		}
	}

	if len(err.Shadowed) > 0 {
		fmt.Fprintln(&b, color.YellowString("Shadowed packages:"))
		names := make([]string, 0, len(err.Shadowed))
		for name := range err.Shadowed {
			names = append(names, string(name))
		}
		sort.Strings(names)
		for _, name := range names {
			ids := err.Shadowed[pkgid.PackageName(name)]
			idStrs := make([]string, 0, ids.Cardinality())
			for id := range ids.Iter() {
				idStrs = append(idStrs, id.String())
			}
			sort.Strings(idStrs)
			fmt.Fprintf(&b, "  - %s (masked by local packages; required by %s)\n", name, strings.Join(idStrs, ", "))
		}
	}

	return b.String()
}

func sortedUnknownNames(unknown map[pkgid.PackageName]resolve.UnknownEntry) []pkgid.PackageName {
	names := make([]pkgid.PackageName, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func requirerList(requirers mapset.Set[pkgid.PackageName]) string {
	var names []string
	for name := range requirers.Iter() {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// SnapshotPickerProgress renders one candidate's outcome as the picker
// iterates: selected, partial with its dep errors, or rejected with the
// compiler-conflict reason (spec.md §4.9).
func SnapshotPickerProgress[T fmt.Stringer](p snappicker.Progress[T]) string {
	switch p.Check.Kind {
	case snappicker.Ok:
		return color.GreenString("selected %s", p.Snapshot.String())
	case snappicker.Partial:
		return fmt.Sprintf("%s %s (%d dependency error(s): %s)",
			color.YellowString("partial"), p.Snapshot.String(), len(p.Check.Errors), strings.Join(namesOf(p.Check.Errors), ", "))
	case snappicker.Fail:
		return fmt.Sprintf("%s %s (compiler-wired-in conflict: %s)",
			color.RedString("rejected"), p.Snapshot.String(), strings.Join(namesOf(p.Check.Errors), ", "))
	default:
		return fmt.Sprintf("%s: unrecognized check", p.Snapshot.String())
	}
}

func namesOf(errs deperror.DepErrors) []string {
	names := errs.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func renderTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Rows(rows...).
		String()
}

package snapshot

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/snapshot"
	"stackline.dev/spm/pkg/spmcli"
	"stackline.dev/spm/pkg/utils"
)

// listCmd downloads and renders the snapshot directory document (spec.md
// §4.1): the newest minor per LTS major, plus the latest nightly day.
func listCmd(env *spmcli.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the newest known LTS minors and the latest nightly",
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpDir, cleanup, err := utils.MkdirTemp(env.Config.StackRoot, "snapshot-directory-")
			if err != nil {
				return err
			}
			defer cleanup()

			snapshots, err := snapshot.GetSnapshots(cmd.Context(), env.HTTP, env.Config.SnapshotDirectoryURL, filepath.Join(tmpDir, "snapshots.yaml"))
			if err != nil {
				return err
			}

			majors := snapshots.SortedLTSMajors()
			rows := make([][]string, 0, len(majors)+1)
			for _, major := range majors {
				minor, _ := snapshots.LatestLTSMinor(major)
				rows = append(rows, []string{"lts", fmt.Sprintf("lts-%d.%d", major, minor)})
			}
			if !snapshots.LatestNightly.IsZero() {
				rows = append(rows, []string{"nightly", snapshots.LatestNightly.Format("2006-01-02")})
			}
			sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

			cmd.Println(table.New().
				Border(lipgloss.HiddenBorder()).
				BorderTop(false).
				BorderBottom(false).
				Headers("FLAVOR", "LATEST").
				Rows(rows...).
				String())
			return nil
		},
	}
}

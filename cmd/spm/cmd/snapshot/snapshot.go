// Package snapshot groups the "snapshot" subcommands — list and pick —
// the way the teacher groups its own multi-verb areas (resolve, component)
// under a dedicated cobra command with its own AddCommand calls.
package snapshot

import (
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/builtincommand"
	"stackline.dev/spm/pkg/spmcli"
)

// Cmd is the "snapshot" command group: list (spec.md §4.1's getSnapshots)
// and pick (spec.md §4.9's findBuildPlan).
func Cmd(env *spmcli.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(builtincommand.Snapshot),
		Short: "Inspect and select curated snapshots",
	}

	cmd.AddCommand(listCmd(env), pickCmd(env))

	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"stackline.dev/spm/pkg/builtincommand"
	"stackline.dev/spm/pkg/snapname"
	"stackline.dev/spm/pkg/spmcli"
)

// materializeCmd runs materialize (spec.md §4.3) for a snapshot and
// reports the resulting cache, without resolving any target closure —
// useful for warming the cache ahead of a later `plan`/`check` run.
func materializeCmd(env *spmcli.Env) *cobra.Command {
	var snapshotName string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Materialize) + " --snapshot <name>",
		Short: "Materialize a snapshot into its cached MiniPlan",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := snapname.Parse(snapshotName)
			if err != nil {
				return err
			}

			plan, err := loadAndMaterialize(cmd, env, name)
			if err != nil {
				return err
			}

			cmd.Printf("materialized %s: %d packages under compiler %s\n",
				name.String(), len(plan.Packages), plan.CompilerVersion.String())
			cmd.Printf("cache: %s\n", env.Config.MiniBuildPlanCache(name))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotName, "snapshot", "", "snapshot name, e.g. lts-21.5 or nightly-2024-01-01")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

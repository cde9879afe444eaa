// Package cmd assembles the spm CLI: the cobra root command plus the
// plan/check/materialize/snapshot subcommands, wired against a
// spmcli.Env built from the resolved config environment.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackline.dev/spm/cmd/spm/cmd/snapshot"
	"stackline.dev/spm/pkg/spmcli"
	"stackline.dev/spm/pkg/spmlog"
)

const Name = "spm"

// RootCmd builds the spm command tree against osArgs (conventionally
// os.Args), the way the teacher's assistant.RootCmd takes DamlAssistant's
// OsArgs rather than reading os.Args itself.
func RootCmd(osArgs []string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           Name,
		Short:         "Resolve curated snapshots into concrete package install plans",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	if len(osArgs) == 0 {
		return nil, fmt.Errorf("RootCmd: osArgs must contain at least one entry similar to os.Args")
	}
	cmd.SetArgs(osArgs[1:])

	if err := spmlog.Init(); err != nil {
		return nil, err
	}

	env, err := spmcli.New()
	if err != nil {
		return nil, err
	}

	cmd.AddCommand(
		planCmd(env),
		checkCmd(env),
		materializeCmd(env),
		snapshot.Cmd(env),
	)

	return cmd, nil
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/spmconfig"
)

func TestRootCmd_RegistersEverySubcommand(t *testing.T) {
	t.Setenv(spmconfig.HomeEnvVar, t.TempDir())

	root, err := RootCmd([]string{"spm"})
	require.NoError(t, err)

	names := make([]string, 0, 4)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"plan", "check", "materialize", "snapshot"}, names)
}

func TestRootCmd_RequiresAtLeastOneArg(t *testing.T) {
	_, err := RootCmd(nil)
	assert.Error(t, err)
}

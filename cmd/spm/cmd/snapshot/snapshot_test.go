package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackline.dev/spm/pkg/httpclient"
	"stackline.dev/spm/pkg/pkgdesc/yamldesc"
	"stackline.dev/spm/pkg/pkgindex/httpindex"
	"stackline.dev/spm/pkg/platform"
	"stackline.dev/spm/pkg/spmcli"
	"stackline.dev/spm/pkg/spmconfig"
)

func testEnv(t *testing.T) *spmcli.Env {
	t.Helper()
	client := httpclient.New()
	return &spmcli.Env{
		Config: &spmconfig.Config{StackRoot: t.TempDir(), Platform: platform.Platform{OS: "linux"}},
		HTTP:   client,
		Index:  httpindex.New(client, "https://example.invalid/index", t.TempDir()),
		Oracle: yamldesc.New(),
	}
}

func TestCmd_RegistersListAndPick(t *testing.T) {
	cmd := Cmd(testEnv(t))
	require.NotNil(t, cmd)

	names := make([]string, 0, 2)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "pick"}, names)
}

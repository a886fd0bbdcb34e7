package version_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodeops-io/tx-announcer/version"
)

func TestCommandVersion(t *testing.T) {
	t.Parallel()

	cmd := version.CommandVersion("announcer")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "Version:"))
	require.Contains(t, version.Info(), version.Version())
}

func TestCommitInfo(t *testing.T) {
	t.Parallel()

	commit, ts := version.CommitInfo()
	require.NotEmpty(t, commit)
	require.NotEmpty(t, ts)
	require.LessOrEqual(t, len(commit), 7)
	require.NotEmpty(t, version.Version())
}

package version

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CommandVersion prints the version of the binary
func CommandVersion(binaryName string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "version",
		Short:   "Prints version of this binary.",
		Aliases: []string{"v"},
		Example: fmt.Sprintf("%s version", binaryName),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			commit, ts := CommitInfo()

			var sb strings.Builder
			_, _ = sb.WriteString("Version:       " + Version() + "\n")
			_, _ = sb.WriteString("Git Commit:    " + commit + "\n")
			_, _ = sb.WriteString("Git Timestamp: " + ts + "\n")

			cmd.Print(sb.String())
		},
	}

	return cmd
}

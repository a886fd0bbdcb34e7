package daemon

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nodeops-io/tx-announcer/util"
)

// AddDaemonCommands adds the announcer commands to the root command.
func AddDaemonCommands(cmd *cobra.Command, binaryName string) {
	cmd.AddCommand(
		CommandInit(binaryName),
		CommandAnnounce(binaryName),
	)
}

func getHomePath(cmd *cobra.Command) (string, error) {
	rawHomePath, err := cmd.Flags().GetString(HomeFlag)
	if err != nil {
		return "", fmt.Errorf("failed to read flag %s: %w", HomeFlag, err)
	}

	homePath, err := filepath.Abs(rawHomePath)
	if err != nil {
		return "", fmt.Errorf("failed to get home path: %w", err)
	}

	return util.CleanAndExpandPath(homePath), nil
}

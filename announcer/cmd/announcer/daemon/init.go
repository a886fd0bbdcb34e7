package daemon

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/util"
)

// CommandInit returns the init command that creates the home directory.
func CommandInit(binaryName string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "init",
		Short:   "Initialize an announcer home directory.",
		Long:    `Creates a new announcer home directory with default config`,
		Example: fmt.Sprintf(`%s init --home /home/user/.announcer --force`, binaryName),
		Args:    cobra.NoArgs,
		RunE:    runInitCmd,
	}
	cmd.Flags().Bool(forceFlag, false, "Override existing configuration")
	cmd.Flags().String(HomeFlag, config.DefaultHomeDir, "The application home directory")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", forceFlag, err)
	}

	if util.FileExists(config.CfgFile(homePath)) && !force {
		return fmt.Errorf("config file %s already exists", config.CfgFile(homePath))
	}

	if err := util.MakeDirectory(homePath); err != nil {
		return err
	}
	if err := util.MakeDirectory(config.LogDir(homePath)); err != nil {
		return err
	}

	defaultConfig := config.DefaultConfigWithHome(homePath)
	if err := config.WriteConfigFile(&defaultConfig, config.CfgFile(homePath)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cmd.Printf("Initialized %s\n", config.CfgFile(homePath))

	return nil
}

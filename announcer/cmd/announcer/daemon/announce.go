package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/announcer/factory"
	"github.com/nodeops-io/tx-announcer/announcer/prompt"
	"github.com/nodeops-io/tx-announcer/announcer/service"
	"github.com/nodeops-io/tx-announcer/clientcontroller"
	"github.com/nodeops-io/tx-announcer/keyring"
	"github.com/nodeops-io/tx-announcer/log"
	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/version"
)

const metricsPushTimeout = 10 * time.Second

// CommandAnnounce returns the announce command.
func CommandAnnounce(binaryName string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "announce",
		Short: "Announce the transactions of the configured nodes.",
		Long: `Announces the transactions created for the main account of every node listed in the addresses file.
Multisig main accounts are announced as aggregates cosigned by the cosignatories whose keys are entered
interactively. Each transaction is confirmed before it is announced unless --ready is set.`,
		Example: fmt.Sprintf(`%s announce --home /home/user/.announcer --useKnownRestGateways`, binaryName),
		Args:    cobra.NoArgs,
		RunE:    runAnnounceCmd,
	}

	f := cmd.Flags()
	f.String(HomeFlag, config.DefaultHomeDir, "The application home directory")
	f.String(passwordFlag, "", "The password of the encrypted private keys in the addresses file")
	f.Bool(noPasswordFlag, false, "Do not ask for a password; encrypted private keys are ignored")
	f.String(urlFlag, config.DefaultLedgerConfig().URL, "The REST gateway to announce to")
	f.Bool(useKnownRestGatewaysFlag, false, "Probe the known REST gateways of the config and use the most up to date one")
	f.Bool(readyFlag, false, "Announce without asking for confirmation")
	f.Uint64(maxFeeFlag, 0, "The maximum fee of each transaction, in absolute units; 0 uses maxfee of the config")

	return cmd
}

func runAnnounceCmd(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	opts, err := getRunOptionsFromFlags(flags)
	if err != nil {
		return err
	}
	password, err := flags.GetString(passwordFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", passwordFlag, err)
	}
	noPassword, err := flags.GetBool(noPasswordFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", noPasswordFlag, err)
	}

	logger, err := log.NewRootLoggerWithFile(config.LogFile(homePath), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize the logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Info("starting announcer", zap.String("version", version.Info()), zap.String("home", homePath))

	addrs, err := keyring.LoadAddresses(cfg.AddressesFile, cfg.LedgerConfig.AddressPrefix)
	if err != nil {
		return err
	}

	terminal := prompt.NewTerminal(os.Stdin, cmd.ErrOrStderr())
	defer func() {
		if err := terminal.Restore(); err != nil {
			logger.Warn("failed to restore the terminal", zap.Error(err))
		}
	}()
	if addrs.HasEncryptedKeys() && password == "" && !noPassword {
		password, err = terminal.CollectSecret(cmd.Context(), "Enter the password of the addresses file")
		if err != nil {
			return fmt.Errorf("failed to read the password: %w", err)
		}
	}

	targets, err := BuildTargets(addrs, password, cfg.LedgerConfig.AddressPrefix, logger)
	if err != nil {
		return err
	}

	txFactory, err := factory.LoadFileFactory(cfg.OperationsFile)
	if err != nil {
		return err
	}

	app := service.NewAnnouncerApp(
		cfg,
		clientcontroller.NewClientFactory(cfg.LedgerConfig, logger),
		txFactory,
		terminal,
		metrics.NewAnnouncerMetrics(),
		logger,
	)

	_, runErr := app.Run(cmd.Context(), targets, opts)

	pushCtx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	app.PushMetrics(pushCtx)

	return runErr
}

// getRunOptionsFromFlags reads the run options. The url only overrides the
// config when set explicitly; a zero max fee keeps the config value.
func getRunOptionsFromFlags(f *pflag.FlagSet) (service.RunOptions, error) {
	var (
		opts service.RunOptions
		err  error
	)
	if opts.UseKnownRestGateways, err = f.GetBool(useKnownRestGatewaysFlag); err != nil {
		return opts, fmt.Errorf("failed to read flag %s: %w", useKnownRestGatewaysFlag, err)
	}
	if opts.Ready, err = f.GetBool(readyFlag); err != nil {
		return opts, fmt.Errorf("failed to read flag %s: %w", readyFlag, err)
	}
	if f.Changed(urlFlag) {
		if opts.URL, err = f.GetString(urlFlag); err != nil {
			return opts, fmt.Errorf("failed to read flag %s: %w", urlFlag, err)
		}
	}
	if opts.MaxFee, err = f.GetUint64(maxFeeFlag); err != nil {
		return opts, fmt.Errorf("failed to read flag %s: %w", maxFeeFlag, err)
	}

	return opts, nil
}

// BuildTargets resolves the signing account of every node. A node whose
// key is unknown or still encrypted gets no signer.
func BuildTargets(addrs *keyring.Addresses, password, prefix string, logger *zap.Logger) ([]service.Target, error) {
	targets := make([]service.Target, 0, len(addrs.Nodes))
	for _, n := range addrs.Nodes {
		target := service.Target{
			Node:    n.Descriptor(),
			Account: n.NodeAccount(),
		}

		acc, err := n.MainAccount(password, prefix)
		switch {
		case errors.Is(err, keyring.ErrPasswordRequired):
			logger.Warn("the private key of the main account is encrypted and no password was given",
				zap.String("node", n.Name), zap.String("address", n.Main.Address))
		case err != nil:
			return nil, fmt.Errorf("failed to load the main account of node %s: %w", n.Name, err)
		case acc != nil:
			target.Signer = acc
			if target.Account.Main.PublicKey == "" {
				target.Account.Main.PublicKey = acc.PublicKey()
			}
		}

		targets = append(targets, target)
	}

	return targets, nil
}

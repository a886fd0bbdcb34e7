package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"

	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/util"
)

// Constants for config default values
const (
	defaultLogLevel           = zapcore.InfoLevel
	defaultLogFormat          = "console"
	defaultLogDirname         = "logs"
	defaultLogFilename        = "announcer.log"
	defaultConfigFileName     = "announcer.conf"
	defaultAddressesFileName  = "addresses.yml"
	defaultOperationsFileName = "operations.yml"
	defaultPreset             = "mainnet"
	defaultMaxFee             = uint64(2_000_000)
	defaultDeadline           = 2 * time.Hour
	// maxDeadline bounds how far in the future a transaction may expire;
	// networks reject deadlines beyond 24 hours.
	maxDeadline = 24 * time.Hour
)

var (
	//   C:\Users\<username>\AppData\Local\ on Windows
	//   ~/.announcer on Linux
	//   ~/Users/<username>/Library/Application Support/Announcer on MacOS
	DefaultHomeDir = btcutil.AppDataDir("announcer", false)

	generationHashRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// Config is the main config for the announcer cli command
type Config struct {
	LogLevel  string `long:"loglevel" description:"Logging level for all subsystems" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal"`
	LogFormat string `long:"logformat" description:"Format of the log output" choice:"console" choice:"json" choice:"logfmt"`

	NetworkGenerationHash string        `long:"networkgenerationhash" description:"The generation hash seed of the target network; gateways of other networks are rejected"`
	FundingHint           string        `long:"fundinghint" description:"Where to get funds for an unfunded account, e.g. a faucet URL; only shown in diagnostics"`
	MaxFee                uint64        `long:"maxfee" description:"The default maximum fee of each transaction, in absolute units"`
	Deadline              time.Duration `long:"deadline" description:"How long after creation a transaction expires"`
	Preset                string        `long:"preset" description:"The preset handed to the transaction factory"`
	AddressesFile         string        `long:"addressesfile" description:"The file listing the nodes and their accounts; relative paths resolve under the home directory"`
	OperationsFile        string        `long:"operationsfile" description:"The file describing the operations of each node; relative paths resolve under the home directory"`

	LedgerConfig *LedgerConfig `group:"ledger" namespace:"ledger"`

	Metrics *metrics.Config `group:"metrics" namespace:"metrics"`
}

func DefaultConfigWithHome(homePath string) Config {
	ledgerCfg := DefaultLedgerConfig()
	cfg := Config{
		LogLevel:              defaultLogLevel.String(),
		LogFormat:             defaultLogFormat,
		NetworkGenerationHash: "57F7DA205008026C776CB6AED843393F04CD458E0AA2D9F1D5F31A402072B2D6",
		MaxFee:                defaultMaxFee,
		Deadline:              defaultDeadline,
		Preset:                defaultPreset,
		AddressesFile:         filepath.Join(homePath, defaultAddressesFileName),
		OperationsFile:        filepath.Join(homePath, defaultOperationsFileName),
		LedgerConfig:          &ledgerCfg,
		Metrics:               metrics.DefaultConfig(),
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}

func DefaultConfig() Config {
	return DefaultConfigWithHome(DefaultHomeDir)
}

func CfgFile(homePath string) string {
	return filepath.Join(homePath, defaultConfigFileName)
}

func LogDir(homePath string) string {
	return filepath.Join(homePath, defaultLogDirname)
}

func LogFile(homePath string) string {
	return filepath.Join(LogDir(homePath), defaultLogFilename)
}

// LoadConfig initializes and parses the config using a config file.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Load configuration file overwriting defaults with any specified options
//  3. Resolve relative file paths under the home directory
//
// Command line flags are applied by the caller on top of the result.
func LoadConfig(homePath string) (*Config, error) {
	cfgFile := CfgFile(homePath)
	if !util.FileExists(cfgFile) {
		return nil, fmt.Errorf("specified config file does "+
			"not exist in %s", cfgFile)
	}

	cfg := DefaultConfigWithHome(homePath)
	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(cfgFile)
	if err != nil {
		return nil, err
	}

	cfg.AddressesFile = resolvePath(homePath, cfg.AddressesFile)
	cfg.OperationsFile = resolvePath(homePath, cfg.OperationsFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WriteConfigFile writes cfg with its descriptions as an ini file.
func WriteConfigFile(cfg *Config, path string) error {
	fileParser := flags.NewParser(cfg, flags.Default)

	return flags.NewIniParser(fileParser).WriteFile(path, flags.IniIncludeComments|flags.IniIncludeDefaults)
}

func resolvePath(homePath, p string) string {
	p = util.CleanAndExpandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(homePath, p)
}

// Validate checks the given configuration to be sane. This makes sure no
// illegal values or a combination of values are set.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := cfg.validateNetwork(); err != nil {
		return fmt.Errorf("network configuration validation failed: %w", err)
	}

	if err := cfg.validateTransactionConfigs(); err != nil {
		return fmt.Errorf("transaction configuration validation failed: %w", err)
	}

	if cfg.LedgerConfig == nil {
		return fmt.Errorf("ledger config cannot be empty")
	}
	if err := cfg.LedgerConfig.Validate(); err != nil {
		return fmt.Errorf("ledger configuration validation failed: %w", err)
	}

	if cfg.Metrics == nil {
		return fmt.Errorf("metrics configuration cannot be empty")
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics configuration validation failed: %w", err)
	}

	return nil
}

func (cfg *Config) validateNetwork() error {
	if !generationHashRegex.MatchString(cfg.NetworkGenerationHash) {
		return fmt.Errorf("network generation hash must be 64 hex characters, got %q", cfg.NetworkGenerationHash)
	}

	return nil
}

func (cfg *Config) validateTransactionConfigs() error {
	if cfg.MaxFee == 0 {
		return fmt.Errorf("max fee must be positive, got %d", cfg.MaxFee)
	}
	if cfg.Deadline <= 0 {
		return fmt.Errorf("deadline must be positive, got %v", cfg.Deadline)
	}
	if cfg.Deadline > maxDeadline {
		return fmt.Errorf("deadline must not exceed %v, got %v", maxDeadline, cfg.Deadline)
	}
	if cfg.Preset == "" {
		return fmt.Errorf("preset cannot be empty")
	}

	return nil
}

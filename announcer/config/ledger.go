package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultLedgerURL            = "http://localhost:3000"
	defaultAddressPrefix        = "acc"
	defaultRequestTimeout       = 10 * time.Second
	defaultProbeTimeout         = 5 * time.Second
	defaultConfirmationTimeout  = 3 * time.Minute
	defaultMaxProbeConcurrency  = 8
	defaultMaxRetryAttempts     = 5
	defaultRetryDelay           = 500 * time.Millisecond
	defaultLedgerClientType     = "rest"
	maxProbeConcurrencyLimit    = 64
	minConfirmationTimeoutLimit = time.Second
)

// LedgerConfig configures how the announcer talks to the ledger network.
type LedgerConfig struct {
	ClientType          string        `long:"clienttype" description:"The type of the ledger client" choice:"rest"`
	URL                 string        `long:"url" description:"The REST gateway used when no known gateways are probed"`
	KnownRestGateways   []string      `long:"knownrestgateway" description:"A known REST gateway of the network; can be repeated"`
	AddressPrefix       string        `long:"addressprefix" description:"The human readable prefix of the network addresses"`
	RequestTimeout      time.Duration `long:"requesttimeout" description:"The timeout of a single REST request"`
	ProbeTimeout        time.Duration `long:"probetimeout" description:"The timeout of probing a single gateway"`
	ConfirmationTimeout time.Duration `long:"confirmationtimeout" description:"How long to wait for a transaction to be confirmed or to reach the partial pool"`
	MaxProbeConcurrency uint32        `long:"maxprobeconcurrency" description:"The maximum number of gateways probed at the same time"`
	MaxRetryAttempts    uint32        `long:"maxretryattempts" description:"The maximum number of attempts of a REST read"`
	RetryDelay          time.Duration `long:"retrydelay" description:"The delay between attempts of a REST read"`
}

func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		ClientType:          defaultLedgerClientType,
		URL:                 defaultLedgerURL,
		AddressPrefix:       defaultAddressPrefix,
		RequestTimeout:      defaultRequestTimeout,
		ProbeTimeout:        defaultProbeTimeout,
		ConfirmationTimeout: defaultConfirmationTimeout,
		MaxProbeConcurrency: defaultMaxProbeConcurrency,
		MaxRetryAttempts:    defaultMaxRetryAttempts,
		RetryDelay:          defaultRetryDelay,
	}
}

func (c LedgerConfig) Validate() error {
	if c.ClientType != defaultLedgerClientType {
		return fmt.Errorf("unsupported ledger client type: %s", c.ClientType)
	}
	if err := validateGatewayURL(c.URL); err != nil {
		return err
	}
	for _, gw := range c.KnownRestGateways {
		if err := validateGatewayURL(gw); err != nil {
			return err
		}
	}
	if c.AddressPrefix == "" {
		return fmt.Errorf("address prefix cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.ConfirmationTimeout < minConfirmationTimeoutLimit {
		return fmt.Errorf("confirmation timeout must be at least %v, got %v", minConfirmationTimeoutLimit, c.ConfirmationTimeout)
	}
	if c.MaxProbeConcurrency == 0 || c.MaxProbeConcurrency > maxProbeConcurrencyLimit {
		return fmt.Errorf("max probe concurrency must be in [1, %d], got %d", maxProbeConcurrencyLimit, c.MaxProbeConcurrency)
	}
	if c.MaxRetryAttempts == 0 {
		return fmt.Errorf("max retry attempts must be positive, got %d", c.MaxRetryAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative, got %v", c.RetryDelay)
	}

	return nil
}

func validateGatewayURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid gateway url %s: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid gateway url %s: expected http(s)://host[:port]", raw)
	}

	return nil
}

package metrics

import (
	"fmt"
	"net/url"
)

const (
	defaultJobName = "announcer"
)

// Config controls where run metrics are pushed. An empty gateway url
// disables pushing.
type Config struct {
	PushGatewayURL string `long:"pushgatewayurl" description:"URL of a Prometheus Pushgateway receiving the metrics of each run; empty disables pushing"`
	JobName        string `long:"jobname" description:"The job name used when pushing metrics"`
}

func DefaultConfig() *Config {
	return &Config{
		JobName: defaultJobName,
	}
}

func (cfg *Config) Enabled() bool {
	return cfg.PushGatewayURL != ""
}

func (cfg *Config) Validate() error {
	if cfg.JobName == "" {
		return fmt.Errorf("metrics job name cannot be empty")
	}
	if cfg.PushGatewayURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.PushGatewayURL)
	if err != nil {
		return fmt.Errorf("invalid pushgateway url %s: %w", cfg.PushGatewayURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("pushgateway url must use http or https, got %s", cfg.PushGatewayURL)
	}

	return nil
}

package clientcontroller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/clientcontroller/rest"
)

const (
	RestLedgerClientType = "rest"
)

// NewLedgerClient creates a client of the configured type bound to url.
func NewLedgerClient(url string, cfg *config.LedgerConfig, logger *zap.Logger) (api.LedgerClient, error) {
	var (
		lc  api.LedgerClient
		err error
	)

	switch cfg.ClientType {
	case RestLedgerClientType:
		lc, err = rest.NewClient(url, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create REST ledger client: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported ledger client type: %s", cfg.ClientType)
	}

	return lc, nil
}

// NewClientFactory binds the ledger configuration so that clients can be
// created per probed endpoint.
func NewClientFactory(cfg *config.LedgerConfig, logger *zap.Logger) api.ClientFactory {
	return func(url string) (api.LedgerClient, error) {
		return NewLedgerClient(url, cfg, logger)
	}
}

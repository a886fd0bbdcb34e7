package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
)

// ValidateNetwork makes sure the endpoint serves the expected network
// before anything is signed for it.
func ValidateNetwork(ctx context.Context, lc api.LedgerClient, expected string) error {
	actual, err := lc.NetworkGenerationHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to query the network generation hash: %w", err)
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: expected generation hash %s, got %s", ErrWrongNetwork, expected, actual)
	}

	return nil
}

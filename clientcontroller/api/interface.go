package api

import (
	"context"

	"github.com/nodeops-io/tx-announcer/types"
)

// LedgerClient defines the interface for reading ledger state and announcing
// signed transactions to one ledger endpoint
type LedgerClient interface {
	// NetworkGenerationHash returns the identity of the network served by the endpoint
	NetworkGenerationHash(ctx context.Context) (string, error)

	// ChainHeight returns the current height of the chain
	ChainHeight(ctx context.Context) (uint64, error)

	// CurrencyMosaic returns the mosaic used to pay fees
	CurrencyMosaic(ctx context.Context) (*types.CurrencyMosaic, error)

	// AccountInfo returns the balances of an account
	// ErrNotFound is returned if the network does not know the account
	AccountInfo(ctx context.Context, address string) (*types.AccountFunding, error)

	// MultisigInfo returns the multisig entry of an account
	// ErrNotFound is returned if the account is not multisig
	MultisigInfo(ctx context.Context, address string) (*types.MultisigInfo, error)

	// Announce submits a signed transaction
	Announce(ctx context.Context, tx *types.SignedTransaction) (*types.TxResponse, error)

	// AnnouncePartial submits a signed bonded aggregate to the partial pool
	AnnouncePartial(ctx context.Context, tx *types.SignedTransaction) (*types.TxResponse, error)

	// NewListener opens a confirmation notification channel
	NewListener(ctx context.Context) (ConfirmationListener, error)

	// Close cleanly shuts down the client
	Close() error
}

// ConfirmationListener correlates network notifications with announced
// transactions by hash
type ConfirmationListener interface {
	// Subscribe starts receiving notifications for transactions signed by
	// address; it is idempotent and must be called before announcing
	Subscribe(ctx context.Context, address string) error

	// AwaitConfirmed blocks until the transaction is confirmed or rejected
	AwaitConfirmed(ctx context.Context, hash, signer string) error

	// AwaitPartial blocks until the bonded aggregate enters the partial pool
	// or is rejected
	AwaitPartial(ctx context.Context, hash, signer string) error

	Close() error
}

// ClientFactory creates a ledger client bound to an endpoint url
type ClientFactory func(url string) (LedgerClient, error)

package api

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "ledger"

var (
	ErrNotFound            = errorsmod.Register(codespace, 2, "resource not found")
	ErrUnexpectedResponse  = errorsmod.Register(codespace, 3, "unexpected response from the endpoint")
	ErrTxRejected          = errorsmod.Register(codespace, 4, "transaction rejected by the network")
	ErrConfirmationTimeout = errorsmod.Register(codespace, 5, "timed out waiting for the transaction")
	ErrListenerClosed      = errorsmod.Register(codespace, 6, "the confirmation listener is closed")
)

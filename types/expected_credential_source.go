package types

import "context"

// CredentialSource is the interactive capability used to gather secrets
// and confirmations from the operator.
type CredentialSource interface {
	// CollectSecret returns the secret typed by the operator, possibly empty.
	CollectSecret(ctx context.Context, prompt string) (string, error)

	// ConfirmYesNo asks a yes/no question, returning def on an empty answer.
	ConfirmYesNo(ctx context.Context, prompt string, def bool) (bool, error)
}

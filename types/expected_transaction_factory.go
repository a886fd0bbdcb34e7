package types

import "context"

// TransactionFactory builds the operations to announce for one account.
// An empty result means there is nothing to announce.
type TransactionFactory interface {
	CreateOperations(ctx context.Context, req FactoryRequest) ([]Operation, error)
}

package types

import "time"

// Operation is an opaque payload produced by a TransactionFactory.
type Operation struct {
	Kind        string `json:"kind"`
	Payload     []byte `json:"payload"`
	Fee         uint64 `json:"-"`
	Description string `json:"-"`
}

type NodeDescriptor struct {
	Name         string
	FriendlyName string
	Host         string
	Roles        []string
}

// NodeAccount holds the public keys known for a node.
type NodeAccount struct {
	Name            string
	Main            PublicAccount
	RemotePublicKey string
	VrfPublicKey    string
}

type FactoryRequest struct {
	Preset             string
	Node               NodeDescriptor
	NodeAccount        NodeAccount
	MainAccountFunding *AccountFunding
	MainAccount        PublicAccount
	Deadline           time.Time
	MaxFee             uint64
}

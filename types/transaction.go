package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

type TxKind string

const (
	TxOperation         TxKind = "operation"
	TxAggregateComplete TxKind = "aggregate-complete"
	TxAggregateBonded   TxKind = "aggregate-bonded"
	TxHashLock          TxKind = "hash-lock"
)

func (k TxKind) String() string {
	return string(k)
}

// HashLock locks funds until the referenced bonded aggregate is cosigned.
type HashLock struct {
	MosaicID string `json:"mosaicId"`
	Amount   string `json:"amount"`
	Duration uint64 `json:"duration"`
	Hash     string `json:"hash"`
}

// Transaction is the unsigned body announced to the ledger.
type Transaction struct {
	Kind                 TxKind      `json:"kind"`
	Network              string      `json:"network"`
	SignerPublicKey      string      `json:"signerPublicKey"`
	InnerSignerPublicKey string      `json:"innerSignerPublicKey,omitempty"`
	MaxFee               uint64      `json:"maxFee,string"`
	Deadline             int64       `json:"deadline"`
	Operations           []Operation `json:"operations,omitempty"`
	Lock                 *HashLock   `json:"lock,omitempty"`

	// Description is used in logs and prompts only.
	Description string `json:"-"`
}

type Cosignature struct {
	SignerPublicKey string `json:"signerPublicKey"`
	Signature       string `json:"signature"`
}

type envelope struct {
	Transaction  json.RawMessage `json:"transaction"`
	Signature    string          `json:"signature"`
	Cosignatures []Cosignature   `json:"cosignatures,omitempty"`
}

// SignedTransaction is produced once per transaction and never mutated.
type SignedTransaction struct {
	Kind        TxKind
	Hash        string
	Signer      string
	Fee         uint64
	Description string
	Payload     string
}

func NewTransaction(kind TxKind, network string, signer Signer, maxFee uint64, deadline time.Time) *Transaction {
	return &Transaction{
		Kind:            kind,
		Network:         strings.ToUpper(network),
		SignerPublicKey: signer.PublicKey(),
		MaxFee:          maxFee,
		Deadline:        deadline.UnixMilli(),
	}
}

func (tx *Transaction) Bytes() ([]byte, error) {
	return json.Marshal(tx)
}

// Hash binds the body to the network generation hash so that a transaction
// signed for one network is invalid on any other.
func (tx *Transaction) Hash() ([]byte, error) {
	body, err := tx.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	h := sha3.New256()
	_, _ = h.Write([]byte(tx.Network))
	_, _ = h.Write(body)

	return h.Sum(nil), nil
}

// Sign signs the transaction with signer and collects a cosignature from
// every cosigner. Cosigners equal to the signer are ignored.
func (tx *Transaction) Sign(signer Signer, cosigners ...Signer) (*SignedTransaction, error) {
	if signer.PublicKey() != tx.SignerPublicKey {
		return nil, fmt.Errorf("signer %s does not match the transaction signer", signer.Address())
	}

	body, err := tx.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction with %s: %w", signer.Address(), err)
	}

	env := envelope{
		Transaction: body,
		Signature:   hex.EncodeToString(sig),
	}
	for _, c := range cosigners {
		if c.PublicKey() == signer.PublicKey() {
			continue
		}
		cosig, err := c.Sign(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to cosign transaction with %s: %w", c.Address(), err)
		}
		env.Cosignatures = append(env.Cosignatures, Cosignature{
			SignerPublicKey: c.PublicKey(),
			Signature:       hex.EncodeToString(cosig),
		})
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode signed transaction: %w", err)
	}

	return &SignedTransaction{
		Kind:        tx.Kind,
		Hash:        strings.ToUpper(hex.EncodeToString(hash)),
		Signer:      signer.Address(),
		Fee:         tx.MaxFee,
		Description: tx.Description,
		Payload:     strings.ToUpper(hex.EncodeToString(payload)),
	}, nil
}

// DecodeSignedPayload parses a payload produced by Sign. It returns the
// transaction body, the signature and the cosignatures.
func DecodeSignedPayload(payload string) (*Transaction, []byte, []Cosignature, error) {
	raw, err := hex.DecodeString(payload)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid payload hex: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid payload: %w", err)
	}
	var tx Transaction
	if err := json.Unmarshal(env.Transaction, &tx); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid transaction body: %w", err)
	}
	sig, err := hex.DecodeString(env.Signature)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid signature hex: %w", err)
	}

	return &tx, sig, env.Cosignatures, nil
}

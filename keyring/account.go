package keyring

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/cosmos/go-bip39"

	"github.com/nodeops-io/tx-announcer/types"
	"github.com/nodeops-io/tx-announcer/util"
)

const DefaultAddressPrefix = "acc"

var (
	ErrMalformedCredential = errors.New("the credential is neither a hex private key nor a bip39 mnemonic")
	ErrInvalidPublicKey    = errors.New("invalid public key")
)

var _ types.Signer = (*Account)(nil)

// Account is a signing capable ledger account.
type Account struct {
	privKey *btcec.PrivateKey
	pubKey  *btcec.PublicKey
	address string
}

func NewAccount(privKey *btcec.PrivateKey, prefix string) (*Account, error) {
	pub := privKey.PubKey()
	addr, err := addressFromPubKey(pub, prefix)
	if err != nil {
		return nil, err
	}

	return &Account{
		privKey: privKey,
		pubKey:  pub,
		address: addr,
	}, nil
}

// DeriveAccount turns an operator supplied secret into an account. The
// secret is either a hex encoded 32-byte private key or a bip39 mnemonic.
func DeriveAccount(secret, prefix string) (*Account, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMalformedCredential
	}

	if keyBytes, err := util.DecodeHex(secret); err == nil {
		if err := util.ValidatePrivKeyBytes(keyBytes); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedCredential, err.Error())
		}
		sk, _ := btcec.PrivKeyFromBytes(keyBytes)

		return NewAccount(sk, prefix)
	}

	if bip39.IsMnemonicValid(secret) {
		seed, err := bip39.NewSeedWithErrorChecking(secret, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedCredential, err.Error())
		}
		keyBytes := sha256.Sum256(seed)
		if err := util.ValidatePrivKeyBytes(keyBytes[:]); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedCredential, err.Error())
		}
		sk, _ := btcec.PrivKeyFromBytes(keyBytes[:])

		return NewAccount(sk, prefix)
	}

	return nil, ErrMalformedCredential
}

func (a *Account) Address() string {
	return a.address
}

// PublicKey returns the hex encoded 32-byte x-only public key.
func (a *Account) PublicKey() string {
	return strings.ToUpper(hex.EncodeToString(schnorr.SerializePubKey(a.pubKey)))
}

func (a *Account) PublicAccount() types.PublicAccount {
	return types.PublicAccount{Address: a.address, PublicKey: a.PublicKey()}
}

func (a *Account) Sign(digest []byte) ([]byte, error) {
	sig, err := schnorr.Sign(a.privKey, digest)
	if err != nil {
		return nil, err
	}

	return sig.Serialize(), nil
}

// PrivateKeyHex is used when writing addresses files.
func (a *Account) PrivateKeyHex() string {
	return strings.ToUpper(hex.EncodeToString(a.privKey.Serialize()))
}

// AddressFromPublicKey derives the address of a hex encoded x-only public key.
func AddressFromPublicKey(pubKeyHex, prefix string) (string, error) {
	raw, err := util.DecodeHex(pubKeyHex)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPublicKey, err.Error())
	}
	pub, err := schnorr.ParsePubKey(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPublicKey, err.Error())
	}

	return addressFromPubKey(pub, prefix)
}

// VerifySignature checks a signature produced by Account.Sign.
func VerifySignature(pubKeyHex string, digest, sig []byte) bool {
	raw, err := util.DecodeHex(pubKeyHex)
	if err != nil {
		return false
	}
	pub, err := schnorr.ParsePubKey(raw)
	if err != nil {
		return false
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}

	return s.Verify(digest, pub)
}

// SameAddress compares two addresses, ignoring case.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func addressFromPubKey(pub *btcec.PublicKey, prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultAddressPrefix
	}
	conv, err := bech32.ConvertBits(btcutil.Hash160(schnorr.SerializePubKey(pub)), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}

	return bech32.Encode(prefix, conv)
}

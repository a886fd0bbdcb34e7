package keyring

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
	"gopkg.in/yaml.v3"

	"github.com/nodeops-io/tx-announcer/types"
	"github.com/nodeops-io/tx-announcer/util"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	// scrypt parameters recommended for interactive logins
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrPasswordRequired = errors.New("a password is required to decrypt the private key")
	ErrWrongPassword    = errors.New("failed to decrypt the private key, wrong password")
	ErrAddressMismatch  = errors.New("the private key does not match the declared address")
)

// Addresses is the content of the addresses file listing the nodes whose
// main accounts announce transactions.
type Addresses struct {
	Nodes []NodeAddresses `yaml:"nodes"`
}

type KeyEntry struct {
	Address             string `yaml:"address,omitempty"`
	PublicKey           string `yaml:"publicKey,omitempty"`
	PrivateKey          string `yaml:"privateKey,omitempty"`
	EncryptedPrivateKey string `yaml:"encryptedPrivateKey,omitempty"`
}

func (k KeyEntry) IsEncrypted() bool {
	return k.EncryptedPrivateKey != ""
}

type NodeAddresses struct {
	Name         string   `yaml:"name"`
	FriendlyName string   `yaml:"friendlyName,omitempty"`
	Host         string   `yaml:"host,omitempty"`
	Roles        []string `yaml:"roles,omitempty"`
	Main         KeyEntry `yaml:"main"`
	Remote       KeyEntry `yaml:"remote,omitempty"`
	Vrf          KeyEntry `yaml:"vrf,omitempty"`
}

// LoadAddresses reads and validates an addresses file. Main account
// addresses are filled from the public or plain private key when missing.
func LoadAddresses(path, prefix string) (*Addresses, error) {
	if !util.FileExists(path) {
		return nil, fmt.Errorf("addresses file %s does not exist", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read addresses file %s: %w", path, err)
	}

	var addrs Addresses
	if err := yaml.Unmarshal(raw, &addrs); err != nil {
		return nil, fmt.Errorf("failed to parse addresses file %s: %w", path, err)
	}

	mains := make([]string, 0, len(addrs.Nodes))
	for i := range addrs.Nodes {
		n := &addrs.Nodes[i]
		if n.Name == "" {
			return nil, fmt.Errorf("node #%d in %s has no name", i, path)
		}
		if n.Main.Address == "" {
			switch {
			case n.Main.PublicKey != "":
				n.Main.Address, err = AddressFromPublicKey(n.Main.PublicKey, prefix)
			case n.Main.PrivateKey != "":
				var acc *Account
				if acc, err = DeriveAccount(n.Main.PrivateKey, prefix); err == nil {
					n.Main.Address, n.Main.PublicKey = acc.Address(), acc.PublicKey()
				}
			default:
				return nil, fmt.Errorf("node %s has neither a main address nor a main key", n.Name)
			}
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", n.Name, err)
			}
		}
		mains = append(mains, n.Main.Address)
	}

	if err := util.ValidateNoDuplicateAddresses(mains); err != nil {
		return nil, err
	}

	return &addrs, nil
}

// HasEncryptedKeys reports whether any main account key needs a password.
func (a *Addresses) HasEncryptedKeys() bool {
	for _, n := range a.Nodes {
		if n.Main.IsEncrypted() {
			return true
		}
	}

	return false
}

func (n NodeAddresses) Descriptor() types.NodeDescriptor {
	return types.NodeDescriptor{
		Name:         n.Name,
		FriendlyName: n.FriendlyName,
		Host:         n.Host,
		Roles:        n.Roles,
	}
}

func (n NodeAddresses) NodeAccount() types.NodeAccount {
	return types.NodeAccount{
		Name: n.Name,
		Main: types.PublicAccount{
			Address:   n.Main.Address,
			PublicKey: n.Main.PublicKey,
		},
		RemotePublicKey: n.Remote.PublicKey,
		VrfPublicKey:    n.Vrf.PublicKey,
	}
}

// MainAccount returns the signing account of the node. It returns nil
// without error when no private key is known, which is legal for multisig
// main accounts.
func (n NodeAddresses) MainAccount(password, prefix string) (*Account, error) {
	var secret string
	switch {
	case n.Main.PrivateKey != "":
		secret = n.Main.PrivateKey
	case n.Main.IsEncrypted():
		if password == "" {
			return nil, ErrPasswordRequired
		}
		plain, err := DecryptSecret(n.Main.EncryptedPrivateKey, password)
		if err != nil {
			return nil, err
		}
		secret = plain
	default:
		return nil, nil
	}

	acc, err := DeriveAccount(secret, prefix)
	if err != nil {
		return nil, err
	}
	if n.Main.Address != "" && !SameAddress(n.Main.Address, acc.Address()) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrAddressMismatch, n.Main.Address, acc.Address())
	}

	return acc, nil
}

// EncryptSecret seals a secret with a key derived from password.
// The result is base64(salt || nonce || box).
func EncryptSecret(secret, password string) (string, error) {
	var salt [saltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	key, err := deriveKey(password, salt[:])
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(secret)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(secret), &nonce, key)

	return base64.StdEncoding.EncodeToString(out), nil
}

func DecryptSecret(encoded, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid encrypted private key: %w", err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("invalid encrypted private key: too short")
	}

	key, err := deriveKey(password, raw[:saltSize])
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])

	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return "", ErrWrongPassword
	}

	return string(plain), nil
}

func deriveKey(password string, salt []byte) (*[keySize]byte, error) {
	k, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], k)

	return &key, nil
}

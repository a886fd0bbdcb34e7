package types

// Signer is an account able to sign transaction hashes.
type Signer interface {
	Address() string
	PublicKey() string
	// Sign signs a 32-byte digest.
	Sign(digest []byte) ([]byte, error)
}

//nolint:revive
package util

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ValidatePrivKeyBytes validates that the private key bytes are valid for secp256k1.
// It checks that:
// 1. The private key is exactly 32 bytes long
// 2. The private key is less than the secp256k1 curve order (no overflow)
// 3. The private key is not zero
//
// btcd's PrivKeyFromBytes does not perform these checks and passes the
// responsibility to callers.
func ValidatePrivKeyBytes(keyBytes []byte) error {
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return fmt.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(keyBytes))
	}
	var keyInt btcec.ModNScalar
	overflow := keyInt.SetByteSlice(keyBytes)
	if overflow {
		return fmt.Errorf("private key is greater than or equal to the secp256k1 curve order")
	}
	if keyInt.IsZero() {
		return fmt.Errorf("private key cannot be zero")
	}

	return nil
}

// DecodeHex decodes a hex string, tolerating an optional 0x prefix and surrounding spaces.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	return hex.DecodeString(s)
}

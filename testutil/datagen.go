package testutil

import (
	"encoding/hex"
	"math/rand"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"

	"github.com/nodeops-io/tx-announcer/keyring"
	"github.com/nodeops-io/tx-announcer/types"
	"github.com/nodeops-io/tx-announcer/util"
)

const TestFeeMosaicID = "6BED913FA20223F8"

func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	newHeaderBytes := make([]byte, length)
	r.Read(newHeaderBytes)

	return newHeaderBytes
}

func GenRandomHexStr(r *rand.Rand, length uint64) string {
	randBytes := GenRandomByteArray(r, length)

	return hex.EncodeToString(randBytes)
}

func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	// Seed based on the current time
	r := rand.New(rand.NewSource(time.Now().Unix()))
	var idx uint
	for idx = 0; idx < num; idx++ {
		f.Add(r.Int63())
	}
}

// GenRandomPrivateKeyHex returns a valid hex encoded secp256k1 private key.
func GenRandomPrivateKeyHex(r *rand.Rand) string {
	for {
		b := GenRandomByteArray(r, btcec.PrivKeyBytesLen)
		if util.ValidatePrivKeyBytes(b) == nil {
			return hex.EncodeToString(b)
		}
	}
}

func GenRandomAccount(r *rand.Rand, t *testing.T) *keyring.Account {
	acc, err := keyring.DeriveAccount(GenRandomPrivateKeyHex(r), keyring.DefaultAddressPrefix)
	require.NoError(t, err)

	return acc
}

func GenRandomAccounts(r *rand.Rand, t *testing.T, n int) []*keyring.Account {
	accs := make([]*keyring.Account, n)
	for i := range accs {
		accs[i] = GenRandomAccount(r, t)
	}

	return accs
}

// FundingWith returns a funding snapshot holding amount of the test fee mosaic.
func FundingWith(acc types.Signer, amount uint64) *types.AccountFunding {
	return &types.AccountFunding{
		Address:   acc.Address(),
		PublicKey: acc.PublicKey(),
		Mosaics: []types.MosaicBalance{
			{ID: TestFeeMosaicID, Amount: sdkmath.NewIntFromUint64(amount)},
		},
	}
}

func GenOperations(r *rand.Rand, n int, fee uint64) []types.Operation {
	ops := make([]types.Operation, n)
	for i := range ops {
		ops[i] = types.Operation{
			Kind:        "account-key-link",
			Payload:     GenRandomByteArray(r, 48),
			Fee:         fee,
			Description: "link key " + GenRandomHexStr(r, 4),
		}
	}

	return ops
}

package types

import (
	"strings"

	sdkmath "cosmossdk.io/math"
)

// PublicAccount identifies an account on the ledger.
type PublicAccount struct {
	Address   string `yaml:"address" json:"address"`
	PublicKey string `yaml:"publicKey" json:"publicKey"`
}

type MosaicBalance struct {
	ID     string
	Amount sdkmath.Int
}

// AccountFunding is a best-effort snapshot of the balances of an account.
type AccountFunding struct {
	Address   string
	PublicKey string
	Mosaics   []MosaicBalance
}

// Balance returns the amount held of the given mosaic, zero if none.
func (f *AccountFunding) Balance(mosaicID string) sdkmath.Int {
	if f == nil {
		return sdkmath.ZeroInt()
	}
	want := NormalizeMosaicID(mosaicID)
	for _, m := range f.Mosaics {
		if NormalizeMosaicID(m.ID) == want && !m.Amount.IsNil() {
			return m.Amount
		}
	}

	return sdkmath.ZeroInt()
}

// MultisigInfo describes the cosignatories of a multisig account.
type MultisigInfo struct {
	AccountAddress       string
	CosignatoryAddresses []string
	MinApproval          uint32
	MinRemoval           uint32
}

// IsMultisig is false for a nil entry or an entry without cosignatories,
// which the ledger reports for plain accounts that are cosignatories themselves.
func (m *MultisigInfo) IsMultisig() bool {
	return m != nil && m.MinApproval > 0 && len(m.CosignatoryAddresses) > 0
}

type CurrencyMosaic struct {
	ID           string
	Divisibility uint8
}

// NormalizeMosaicID strips the hex prefix and upper-cases the id.
func NormalizeMosaicID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(strings.TrimPrefix(id, "0x"), "0X")

	return strings.ToUpper(strings.ReplaceAll(id, "'", ""))
}

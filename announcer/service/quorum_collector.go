package service

import (
	"context"
	"fmt"
	"math/bits"
	"strings"

	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/keyring"
	"github.com/nodeops-io/tx-announcer/types"
)

type QuorumState int

const (
	QuorumCollecting QuorumState = iota
	QuorumSatisfied
	QuorumCancelled
)

func (s QuorumState) String() string {
	switch s {
	case QuorumCollecting:
		return "collecting"
	case QuorumSatisfied:
		return "satisfied"
	case QuorumCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("QuorumState(%d)", int(s))
	}
}

// QuorumResult is what a collection session produced. Cosigners are in
// the order they were supplied and may be fewer than MinApproval.
type QuorumResult struct {
	State       QuorumState
	Cosigners   []types.Signer
	MinApproval uint32
}

func (r *QuorumResult) Sufficient() bool {
	return uint32(len(r.Cosigners)) >= r.MinApproval
}

// bitmap marks positions of an ordered set.
type bitmap []uint64

func newBitmap(n int) bitmap {
	return make(bitmap, (n+63)/64)
}

func (b bitmap) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitmap) isSet(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

func (b bitmap) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}

	return n
}

// cosignerSet is an immutable ordered set of cosignatory addresses with a
// bitmap of the positions that supplied a credential.
type cosignerSet struct {
	addresses []string
	index     map[string]int
	collected bitmap
}

func newCosignerSet(addresses []string) *cosignerSet {
	s := &cosignerSet{
		addresses: addresses,
		index:     make(map[string]int, len(addresses)),
		collected: newBitmap(len(addresses)),
	}
	for i, addr := range addresses {
		key := strings.ToUpper(addr)
		if _, ok := s.index[key]; !ok {
			s.index[key] = i
		}
	}

	return s
}

// mark records address as collected. It returns false when the address is
// not a cosignatory or was already collected.
func (s *cosignerSet) mark(address string) bool {
	i, ok := s.index[strings.ToUpper(address)]
	if !ok || s.collected.isSet(i) {
		return false
	}
	s.collected.set(i)

	return true
}

func (s *cosignerSet) remaining() int {
	return len(s.index) - s.collected.count()
}

// QuorumCollector gathers cosignatory credentials from the operator.
type QuorumCollector struct {
	source        types.CredentialSource
	addressPrefix string
	logger        *zap.Logger
}

func NewQuorumCollector(source types.CredentialSource, addressPrefix string, logger *zap.Logger) *QuorumCollector {
	return &QuorumCollector{
		source:        source,
		addressPrefix: addressPrefix,
		logger:        logger,
	}
}

// Collect runs one collection session for the multisig account. It never
// fails; a failing credential source cancels the session.
func (qc *QuorumCollector) Collect(ctx context.Context, multisig *types.MultisigInfo) *QuorumResult {
	res := &QuorumResult{
		State:       QuorumCollecting,
		MinApproval: multisig.MinApproval,
	}
	set := newCosignerSet(multisig.CosignatoryAddresses)
	logger := qc.logger.With(zap.String("address", multisig.AccountAddress))

	if set.remaining() == 0 {
		res.State = QuorumSatisfied

		return res
	}

	logger.Info("collecting cosignatures",
		zap.Strings("cosignatories", multisig.CosignatoryAddresses),
		zap.Uint32("min_approval", multisig.MinApproval),
	)

	for res.State == QuorumCollecting {
		prompt := fmt.Sprintf("Enter the private key of a cosignatory of %s (%d/%d collected)",
			multisig.AccountAddress, len(res.Cosigners), multisig.MinApproval)
		secret, err := qc.source.CollectSecret(ctx, prompt)
		if err != nil {
			logger.Warn("cosignature collection cancelled", zap.Error(err))
			res.State = QuorumCancelled

			break
		}

		secret = strings.TrimSpace(secret)
		if secret == "" {
			continue
		}

		acc, err := keyring.DeriveAccount(secret, qc.addressPrefix)
		if err != nil {
			logger.Warn("invalid cosignatory credential, try again", zap.Error(err))

			continue
		}
		if !set.mark(acc.Address()) {
			logger.Warn("the credential is not of a remaining cosignatory, try again",
				zap.String("cosigner", acc.Address()),
			)

			continue
		}

		res.Cosigners = append(res.Cosigners, acc)
		logger.Info("cosignatory accepted", zap.String("cosigner", acc.Address()))

		if set.remaining() == 0 || uint32(len(res.Cosigners)) == multisig.MinApproval {
			res.State = QuorumSatisfied

			break
		}

		more, err := qc.source.ConfirmYesNo(ctx, "Do you want to add another cosignatory?", true)
		if err != nil {
			logger.Warn("cosignature collection cancelled", zap.Error(err))
			res.State = QuorumCancelled

			break
		}
		if !more {
			res.State = QuorumSatisfied
		}
	}

	if res.State == QuorumSatisfied && !res.Sufficient() {
		logger.Warn("quorum is below the minimum approval, the batch will wait for more cosignatures on the network",
			zap.Int("collected", len(res.Cosigners)),
			zap.Uint32("min_approval", multisig.MinApproval),
		)
	}

	return res
}

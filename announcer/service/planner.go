package service

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/types"
)

const (
	// DefaultLockDuration is the number of blocks the funds of a hash lock
	// stay locked, roughly 48 hours.
	DefaultLockDuration = uint64(5760)
	// lockUnits is the hash lock amount in relative units of the currency.
	lockUnits = 10
)

// LockAmount returns the absolute amount locked for a bonded aggregate.
func LockAmount(divisibility uint8) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(lockUnits, int(divisibility))
}

// DecidePlanKind applies the decision table choosing the submission shape
// of one account.
func DecidePlanKind(multisig bool, opCount int, cosigners int, minApproval uint32) (types.PlanKind, error) {
	if opCount == 0 {
		return "", ErrNoOperations
	}
	if !multisig {
		if opCount == 1 {
			return types.PlanSimple, nil
		}

		return types.PlanAggregateComplete, nil
	}

	switch {
	case cosigners == 0:
		return "", ErrNoCosigner
	case uint32(cosigners) >= minApproval:
		return types.PlanAggregateComplete, nil
	default:
		return types.PlanAggregateBonded, nil
	}
}

type fundingInspector interface {
	Inspect(ctx context.Context, address string) (*types.AccountFunding, error)
}

// SubmissionPlanner turns the operations of an account into a plan.
type SubmissionPlanner struct {
	inspector    fundingInspector
	currency     types.CurrencyMosaic
	lockDuration uint64
	logger       *zap.Logger
}

func NewSubmissionPlanner(inspector fundingInspector, currency types.CurrencyMosaic, logger *zap.Logger) *SubmissionPlanner {
	return &SubmissionPlanner{
		inspector:    inspector,
		currency:     currency,
		lockDuration: DefaultLockDuration,
		logger:       logger,
	}
}

// PlanSimple plans the operations of a non-multisig account signed by its
// own key.
func (sp *SubmissionPlanner) PlanSimple(account types.PublicAccount, signer types.Signer, ops []types.Operation) (*types.SubmissionPlan, error) {
	if signer == nil {
		return nil, ErrMissingSigningKey
	}
	kind, err := DecidePlanKind(false, len(ops), 0, 0)
	if err != nil {
		return nil, err
	}

	plan := &types.SubmissionPlan{
		Kind:       kind,
		Account:    account,
		Operations: ops,
		Signer:     signer,
	}
	sp.logPlan(plan)

	return plan, nil
}

// PlanMultisig plans the operations of a multisig account from the
// collected cosigners. The first solvent cosigner initiates and pays.
func (sp *SubmissionPlanner) PlanMultisig(
	ctx context.Context,
	account types.PublicAccount,
	multisig *types.MultisigInfo,
	cosigners []types.Signer,
	ops []types.Operation,
) (*types.SubmissionPlan, error) {
	kind, err := DecidePlanKind(true, len(ops), len(cosigners), multisig.MinApproval)
	if err != nil {
		return nil, err
	}

	initiator, err := sp.FindSolventCosigner(ctx, cosigners)
	if err != nil {
		return nil, err
	}

	others := make([]types.Signer, 0, len(cosigners)-1)
	for _, c := range cosigners {
		if c.Address() != initiator.Address() {
			others = append(others, c)
		}
	}

	plan := &types.SubmissionPlan{
		Kind:       kind,
		Account:    account,
		Operations: ops,
		Signer:     initiator,
		Cosigners:  others,
		Multisig:   true,
	}
	if kind == types.PlanAggregateBonded {
		plan.LockMosaicID = sp.currency.ID
		plan.LockAmount = LockAmount(sp.currency.Divisibility)
		plan.LockDuration = sp.lockDuration
	}
	sp.logPlan(plan)

	return plan, nil
}

// FindSolventCosigner returns the first cosigner, in the order supplied,
// holding a positive amount of the fee mosaic.
func (sp *SubmissionPlanner) FindSolventCosigner(ctx context.Context, cosigners []types.Signer) (types.Signer, error) {
	for _, c := range cosigners {
		funding, err := sp.inspector.Inspect(ctx, c.Address())
		if err != nil {
			sp.logger.Warn("failed to check the balance of a cosigner",
				zap.String("cosigner", c.Address()),
				zap.Error(err),
			)

			continue
		}
		if funding != nil && IsFunded(funding, sp.currency.ID) {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: checked %d cosigners", ErrNoSolventCosigner, len(cosigners))
}

func (sp *SubmissionPlanner) logPlan(plan *types.SubmissionPlan) {
	sp.logger.Info("planned submission",
		zap.String("address", plan.Account.Address),
		zap.Stringer("plan", plan.Kind),
		zap.String("signer", plan.Signer.Address()),
		zap.Int("operations", len(plan.Operations)),
		zap.Int("cosigners", len(plan.Cosigners)),
	)
}

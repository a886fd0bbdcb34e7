package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/types"
)

const (
	resultConfirmed = "confirmed"
	resultPartial   = "partial"
	resultDeclined  = "declined"
	resultFailed    = "failed"
)

// Announcer signs, submits and awaits the transactions of a plan. Plans are
// processed one at a time.
type Announcer struct {
	lc       api.LedgerClient
	listener api.ConfirmationListener
	source   types.CredentialSource

	network  string
	maxFee   uint64
	deadline time.Duration
	ready    bool
	now      func() time.Time

	metrics *metrics.AnnouncerMetrics
	logger  *zap.Logger
}

type AnnouncerOptions struct {
	NetworkGenerationHash string
	MaxFee                uint64
	Deadline              time.Duration
	// Ready announces without asking for confirmation.
	Ready bool
}

func NewAnnouncer(
	lc api.LedgerClient,
	listener api.ConfirmationListener,
	source types.CredentialSource,
	opts AnnouncerOptions,
	m *metrics.AnnouncerMetrics,
	logger *zap.Logger,
) *Announcer {
	return &Announcer{
		lc:       lc,
		listener: listener,
		source:   source,
		network:  opts.NetworkGenerationHash,
		maxFee:   opts.MaxFee,
		deadline: opts.Deadline,
		ready:    opts.Ready,
		now:      time.Now,
		metrics:  m,
		logger:   logger,
	}
}

// Announce processes one plan and returns the terminal state of the
// account. Failures are logged and reported in the outcome, never returned.
func (a *Announcer) Announce(ctx context.Context, node string, plan *types.SubmissionPlan) types.AccountOutcome {
	outcome := types.AccountOutcome{Node: node, Address: plan.Account.Address}
	deadline := a.now().Add(a.deadline)

	switch plan.Kind {
	case types.PlanSimple, types.PlanAggregateComplete:
		tx, err := a.signMain(plan, deadline)
		if err != nil {
			return a.failed(outcome, err)
		}
		outcome.Hashes = append(outcome.Hashes, tx.Hash)
		if err := a.submit(ctx, tx, false); err != nil {
			return a.settle(outcome, tx, err)
		}
		outcome.State = types.AccountConfirmed

		return outcome

	case types.PlanAggregateBonded:
		bonded, err := a.signMain(plan, deadline)
		if err != nil {
			return a.failed(outcome, err)
		}
		lock, err := a.signLock(plan, bonded.Hash, deadline)
		if err != nil {
			return a.failed(outcome, err)
		}

		outcome.Hashes = append(outcome.Hashes, lock.Hash)
		if err := a.submit(ctx, lock, false); err != nil {
			// the bonded aggregate is never announced without its lock
			return a.settle(outcome, lock, err)
		}

		outcome.Hashes = append(outcome.Hashes, bonded.Hash)
		if err := a.submit(ctx, bonded, true); err != nil {
			return a.settle(outcome, bonded, err)
		}
		outcome.State = types.AccountAnnouncedPendingCosignature
		a.logger.Info("the aggregate awaits the missing cosignatures on the network",
			zap.String("address", plan.Account.Address),
			zap.String("hash", bonded.Hash),
		)

		return outcome

	default:
		return a.failed(outcome, fmt.Errorf("unknown plan kind %q", plan.Kind))
	}
}

// signMain signs the transaction carrying the operations of the plan.
func (a *Announcer) signMain(plan *types.SubmissionPlan, deadline time.Time) (*types.SignedTransaction, error) {
	var kind types.TxKind
	switch plan.Kind {
	case types.PlanSimple:
		kind = types.TxOperation
	case types.PlanAggregateComplete:
		kind = types.TxAggregateComplete
	case types.PlanAggregateBonded:
		kind = types.TxAggregateBonded
	}

	tx := types.NewTransaction(kind, a.network, plan.Signer, a.maxFee, deadline)
	tx.Operations = plan.Operations
	tx.Description = describe(plan)
	if plan.Multisig {
		tx.InnerSignerPublicKey = plan.Account.PublicKey
	}

	return tx.Sign(plan.Signer, plan.Cosigners...)
}

func (a *Announcer) signLock(plan *types.SubmissionPlan, bondedHash string, deadline time.Time) (*types.SignedTransaction, error) {
	tx := types.NewTransaction(types.TxHashLock, a.network, plan.Signer, a.maxFee, deadline)
	tx.Lock = &types.HashLock{
		MosaicID: plan.LockMosaicID,
		Amount:   plan.LockAmount.String(),
		Duration: plan.LockDuration,
		Hash:     bondedHash,
	}
	tx.Description = fmt.Sprintf("lock %s of %s for %d blocks for aggregate %s",
		plan.LockAmount.String(), plan.LockMosaicID, plan.LockDuration, bondedHash)

	return tx.Sign(plan.Signer)
}

// submit confirms with the operator unless ready, announces the
// transaction and waits for the network to report it.
func (a *Announcer) submit(ctx context.Context, tx *types.SignedTransaction, partial bool) error {
	logger := a.logger.With(
		zap.Stringer("type", tx.Kind),
		zap.String("hash", tx.Hash),
		zap.String("signer", tx.Signer),
	)

	if !a.ready {
		prompt := fmt.Sprintf("Announce %s transaction %s (%s, max fee %d)?", tx.Kind, tx.Hash, tx.Description, tx.Fee)
		ok, err := a.source.ConfirmYesNo(ctx, prompt, true)
		if err != nil {
			return fmt.Errorf("failed to confirm the announcement: %w", err)
		}
		if !ok {
			return ErrDeclined
		}
	}

	// subscribing first guarantees the notification cannot be missed
	if err := a.listener.Subscribe(ctx, tx.Signer); err != nil {
		return err
	}

	if partial {
		if _, err := a.lc.AnnouncePartial(ctx, tx); err != nil {
			return err
		}
		logger.Info("announced to the partial pool, waiting for the network")
		if err := a.listener.AwaitPartial(ctx, tx.Hash, tx.Signer); err != nil {
			return err
		}
		logger.Info("the aggregate reached the partial pool")
		a.metrics.RecordTransaction(tx.Kind.String(), resultPartial)

		return nil
	}

	if _, err := a.lc.Announce(ctx, tx); err != nil {
		return err
	}
	logger.Info("announced, waiting for confirmation", zap.String("description", tx.Description))
	if err := a.listener.AwaitConfirmed(ctx, tx.Hash, tx.Signer); err != nil {
		return err
	}
	logger.Info("transaction confirmed")
	a.metrics.RecordTransaction(tx.Kind.String(), resultConfirmed)

	return nil
}

// settle turns a submission error into the outcome of the account.
func (a *Announcer) settle(outcome types.AccountOutcome, tx *types.SignedTransaction, err error) types.AccountOutcome {
	if errors.Is(err, ErrDeclined) {
		a.metrics.RecordTransaction(tx.Kind.String(), resultDeclined)
		a.logger.Info("transaction declined",
			zap.Stringer("type", tx.Kind),
			zap.String("hash", tx.Hash),
			zap.String("signer", tx.Signer),
		)
		outcome.State = types.AccountSkipped
		outcome.Reason = fmt.Sprintf("%s transaction declined", tx.Kind)

		return outcome
	}

	a.metrics.RecordTransaction(tx.Kind.String(), resultFailed)
	a.logger.Error("failed to announce the transaction",
		zap.Stringer("type", tx.Kind),
		zap.String("hash", tx.Hash),
		zap.String("signer", tx.Signer),
		zap.Error(err),
	)
	outcome.State = types.AccountFailed
	outcome.Reason = err.Error()

	return outcome
}

func (a *Announcer) failed(outcome types.AccountOutcome, err error) types.AccountOutcome {
	a.logger.Error("failed to build the transactions",
		zap.String("address", outcome.Address),
		zap.Error(err),
	)
	outcome.State = types.AccountFailed
	outcome.Reason = err.Error()

	return outcome
}

func describe(plan *types.SubmissionPlan) string {
	if len(plan.Operations) == 1 {
		return plan.Operations[0].Description
	}

	return fmt.Sprintf("%s of %d operations for %s", plan.Kind, len(plan.Operations), plan.Account.Address)
}

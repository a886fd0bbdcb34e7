package service_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nodeops-io/tx-announcer/announcer/service"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/keyring"
	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/testutil"
	"github.com/nodeops-io/tx-announcer/testutil/mocks"
	"github.com/nodeops-io/tx-announcer/types"
)

func announcerOptions(ready bool) service.AnnouncerOptions {
	return service.AnnouncerOptions{
		NetworkGenerationHash: testutil.TestGenerationHash,
		MaxFee:                1_000_000,
		Deadline:              time.Hour,
		Ready:                 ready,
	}
}

func txResponse(tx *types.SignedTransaction) *types.TxResponse {
	return &types.TxResponse{TxHash: tx.Hash}
}

func TestAnnounceSimpleReady(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(20))

	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)
	acc := testutil.GenRandomAccount(r, t)
	ops := testutil.GenOperations(r, 1, 50)

	var announced *types.SignedTransaction
	lc.EXPECT().Announce(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
			announced = tx

			return txResponse(tx), nil
		}).Times(1)
	listener.EXPECT().AwaitConfirmed(gomock.Any(), gomock.Any(), acc.Address()).Return(nil).Times(1)

	source := testutil.NewScriptedCredentialSource(nil, nil)
	m := metrics.NewAnnouncerMetrics()
	a := service.NewAnnouncer(lc, listener, source, announcerOptions(true), m, testutil.GetTestLogger(t))

	plan := &types.SubmissionPlan{Kind: types.PlanSimple, Account: acc.PublicAccount(), Operations: ops, Signer: acc}
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountConfirmed, outcome.State)
	require.Equal(t, []string{announced.Hash}, outcome.Hashes)
	require.Equal(t, types.TxOperation, announced.Kind)
	require.Equal(t, ops[0].Description, announced.Description)

	secrets, confirms := source.Prompts()
	require.Zero(t, secrets)
	require.Zero(t, confirms)

	// the payload carries a valid signature of the account over the hash
	tx, sig, cosigs, err := types.DecodeSignedPayload(announced.Payload)
	require.NoError(t, err)
	require.Empty(t, cosigs)
	digest, err := tx.Hash()
	require.NoError(t, err)
	require.True(t, keyring.VerifySignature(acc.PublicKey(), digest, sig))
}

func TestAnnounceAskedAndDeclined(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(21))

	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)
	acc := testutil.GenRandomAccount(r, t)

	source := testutil.NewScriptedCredentialSource(nil, []bool{false})
	a := service.NewAnnouncer(lc, listener, source, announcerOptions(false), nil, testutil.GetTestLogger(t))

	plan := &types.SubmissionPlan{Kind: types.PlanAggregateComplete, Account: acc.PublicAccount(), Operations: testutil.GenOperations(r, 2, 5), Signer: acc}
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountSkipped, outcome.State)
	require.Contains(t, outcome.Reason, "declined")
	_, confirms := source.Prompts()
	require.Equal(t, 1, confirms)
}

func TestAnnounceConfirmationFailure(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(22))

	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)
	acc := testutil.GenRandomAccount(r, t)

	lc.EXPECT().Announce(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
			return txResponse(tx), nil
		})
	listener.EXPECT().AwaitConfirmed(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errorsmod.Wrap(api.ErrTxRejected, "Failure_Core_Insufficient_Balance"))

	logger, logs := testutil.GetObservedLogger()
	a := service.NewAnnouncer(lc, listener, testutil.NewScriptedCredentialSource(nil, nil), announcerOptions(true), nil, logger)

	plan := &types.SubmissionPlan{Kind: types.PlanSimple, Account: acc.PublicAccount(), Operations: testutil.GenOperations(r, 1, 5), Signer: acc}
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountFailed, outcome.State)
	require.Contains(t, outcome.Reason, "Failure_Core_Insufficient_Balance")

	failures := logs.FilterMessage("failed to announce the transaction").All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	require.Equal(t, "operation", fields["type"])
	require.Equal(t, acc.Address(), fields["signer"])
	require.NotEmpty(t, fields["hash"])
}

func bondedPlan(r *rand.Rand, t *testing.T) (*types.SubmissionPlan, []*keyring.Account) {
	accs := testutil.GenRandomAccounts(r, t, 2)
	multisig := testutil.GenRandomAccount(r, t)

	return &types.SubmissionPlan{
		Kind:         types.PlanAggregateBonded,
		Account:      multisig.PublicAccount(),
		Operations:   testutil.GenOperations(r, 2, 5),
		Signer:       accs[0],
		Cosigners:    []types.Signer{accs[1]},
		Multisig:     true,
		LockMosaicID: testutil.TestFeeMosaicID,
		LockAmount:   service.LockAmount(6),
		LockDuration: service.DefaultLockDuration,
	}, accs
}

func TestAnnounceBondedLocksFirst(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(23))

	plan, accs := bondedPlan(r, t)
	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)

	var lock, bonded *types.SignedTransaction
	gomock.InOrder(
		lc.EXPECT().Announce(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
				lock = tx

				return txResponse(tx), nil
			}),
		listener.EXPECT().AwaitConfirmed(gomock.Any(), gomock.Any(), accs[0].Address()).Return(nil),
		lc.EXPECT().AnnouncePartial(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
				bonded = tx

				return txResponse(tx), nil
			}),
		listener.EXPECT().AwaitPartial(gomock.Any(), gomock.Any(), accs[0].Address()).Return(nil),
	)

	a := service.NewAnnouncer(lc, listener, testutil.NewScriptedCredentialSource(nil, nil), announcerOptions(true), nil, testutil.GetTestLogger(t))
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountAnnouncedPendingCosignature, outcome.State)
	require.Equal(t, []string{lock.Hash, bonded.Hash}, outcome.Hashes)
	require.Equal(t, types.TxHashLock, lock.Kind)
	require.Equal(t, types.TxAggregateBonded, bonded.Kind)

	// the lock references the bonded aggregate and locks ten currency units
	lockTx, _, _, err := types.DecodeSignedPayload(lock.Payload)
	require.NoError(t, err)
	require.Equal(t, bonded.Hash, lockTx.Lock.Hash)
	require.Equal(t, "10000000", lockTx.Lock.Amount)
	require.Equal(t, service.DefaultLockDuration, lockTx.Lock.Duration)

	bondedTx, _, cosigs, err := types.DecodeSignedPayload(bonded.Payload)
	require.NoError(t, err)
	require.Equal(t, plan.Account.PublicKey, bondedTx.InnerSignerPublicKey)
	require.Len(t, cosigs, 1)
	require.Equal(t, accs[1].PublicKey(), cosigs[0].SignerPublicKey)
}

func TestAnnounceBondedLockFailureStops(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(24))

	plan, _ := bondedPlan(r, t)
	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)

	lc.EXPECT().Announce(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
			return txResponse(tx), nil
		})
	listener.EXPECT().AwaitConfirmed(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errorsmod.Wrap(api.ErrConfirmationTimeout, "lock not seen"))
	// AnnouncePartial and AwaitPartial are not expected: gomock fails the
	// test if the bonded aggregate is attempted

	a := service.NewAnnouncer(lc, listener, testutil.NewScriptedCredentialSource(nil, nil), announcerOptions(true), nil, testutil.GetTestLogger(t))
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountFailed, outcome.State)
	require.Len(t, outcome.Hashes, 1)
}

func TestAnnounceBondedLockDeclinedStops(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(25))

	plan, _ := bondedPlan(r, t)
	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)

	source := testutil.NewScriptedCredentialSource(nil, []bool{false, true})
	a := service.NewAnnouncer(lc, listener, source, announcerOptions(false), nil, testutil.GetTestLogger(t))
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountSkipped, outcome.State)
	require.Contains(t, outcome.Reason, "hash-lock")
	_, confirms := source.Prompts()
	require.Equal(t, 1, confirms)
}

func TestAnnounceSubmissionError(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(26))

	ctl := gomock.NewController(t)
	lc := mocks.NewMockLedgerClient(ctl)
	listener := testutil.PrepareMockedListener(ctl)
	acc := testutil.GenRandomAccount(r, t)

	lc.EXPECT().Announce(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	a := service.NewAnnouncer(lc, listener, testutil.NewScriptedCredentialSource(nil, nil), announcerOptions(true), nil, testutil.GetTestLogger(t))
	plan := &types.SubmissionPlan{Kind: types.PlanSimple, Account: acc.PublicAccount(), Operations: testutil.GenOperations(r, 1, 5), Signer: acc}
	outcome := a.Announce(context.Background(), "node-1", plan)

	require.Equal(t, types.AccountFailed, outcome.State)
	require.Contains(t, outcome.Reason, "connection refused")
}

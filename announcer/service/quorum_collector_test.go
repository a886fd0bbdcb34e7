package service_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodeops-io/tx-announcer/announcer/service"
	"github.com/nodeops-io/tx-announcer/keyring"
	"github.com/nodeops-io/tx-announcer/testutil"
	"github.com/nodeops-io/tx-announcer/types"
)

func multisigOf(minApproval uint32, cosigners ...*keyring.Account) *types.MultisigInfo {
	addrs := make([]string, len(cosigners))
	for i, c := range cosigners {
		addrs[i] = c.Address()
	}

	return &types.MultisigInfo{
		AccountAddress:       "acc1multisig",
		CosignatoryAddresses: addrs,
		MinApproval:          minApproval,
		MinRemoval:           1,
	}
}

func addresses(signers []types.Signer) []string {
	out := make([]string, len(signers))
	for i, s := range signers {
		out[i] = s.Address()
	}

	return out
}

func TestQuorumCollectorStopsAtMinApproval(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(1))

	accs := testutil.GenRandomAccounts(r, t, 3)
	ms := multisigOf(2, accs...)
	source := testutil.NewScriptedCredentialSource(
		[]string{accs[2].PrivateKeyHex(), accs[0].PrivateKeyHex()},
		[]bool{true},
	)

	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	res := qc.Collect(context.Background(), ms)

	require.Equal(t, service.QuorumSatisfied, res.State)
	require.True(t, res.Sufficient())
	require.Equal(t, []string{accs[2].Address(), accs[0].Address()}, addresses(res.Cosigners))
	// asked once to continue after the first credential, not after the second
	secrets, confirms := source.Prompts()
	require.Equal(t, 2, secrets)
	require.Equal(t, 1, confirms)
}

func TestQuorumCollectorRepromptsOnBadInput(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(2))

	accs := testutil.GenRandomAccounts(r, t, 2)
	stranger := testutil.GenRandomAccount(r, t)
	ms := multisigOf(2, accs...)
	source := testutil.NewScriptedCredentialSource(
		[]string{
			"",                       // empty
			"not a key",              // malformed
			stranger.PrivateKeyHex(), // not a cosignatory
			accs[1].PrivateKeyHex(),  // accepted
			accs[1].PrivateKeyHex(),  // already collected
			"  " + accs[0].PrivateKeyHex() + "\n",
		},
		[]bool{true},
	)

	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	res := qc.Collect(context.Background(), ms)

	require.Equal(t, service.QuorumSatisfied, res.State)
	require.Equal(t, []string{accs[1].Address(), accs[0].Address()}, addresses(res.Cosigners))
	secrets, _ := source.Prompts()
	require.Equal(t, 6, secrets)
}

func TestQuorumCollectorDeclinedBelowThreshold(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(3))

	accs := testutil.GenRandomAccounts(r, t, 3)
	ms := multisigOf(3, accs...)
	source := testutil.NewScriptedCredentialSource([]string{accs[1].PrivateKeyHex()}, []bool{false})

	logger, logs := testutil.GetObservedLogger()
	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, logger)
	res := qc.Collect(context.Background(), ms)

	require.Equal(t, service.QuorumSatisfied, res.State)
	require.False(t, res.Sufficient())
	require.Len(t, res.Cosigners, 1)
	require.Equal(t, 1, logs.FilterMessageSnippet("below the minimum approval").Len())
}

func TestQuorumCollectorAllCosignatoriesCollected(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(4))

	// a threshold above the set size can only be met by collecting everyone
	accs := testutil.GenRandomAccounts(r, t, 2)
	ms := multisigOf(5, accs...)
	source := testutil.NewScriptedCredentialSource(
		[]string{accs[0].PrivateKeyHex(), accs[1].PrivateKeyHex()},
		[]bool{true},
	)

	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	res := qc.Collect(context.Background(), ms)

	require.Equal(t, service.QuorumSatisfied, res.State)
	require.Len(t, res.Cosigners, 2)
}

func TestQuorumCollectorCancelledBySource(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(5))

	accs := testutil.GenRandomAccounts(r, t, 3)
	ms := multisigOf(2, accs...)

	// the script ends before the quorum
	source := testutil.NewScriptedCredentialSource([]string{accs[0].PrivateKeyHex()}, []bool{true})
	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	res := qc.Collect(context.Background(), ms)
	require.Equal(t, service.QuorumCancelled, res.State)
	require.Len(t, res.Cosigners, 1)

	// a cancelled context stops the session too
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source = testutil.NewScriptedCredentialSource([]string{accs[0].PrivateKeyHex()}, nil)
	qc = service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	res = qc.Collect(ctx, ms)
	require.Equal(t, service.QuorumCancelled, res.State)
	require.Empty(t, res.Cosigners)
}

func TestQuorumCollectorDoesNotMutateCosignatories(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(6))

	accs := testutil.GenRandomAccounts(r, t, 3)
	ms := multisigOf(2, accs...)
	before := append([]string(nil), ms.CosignatoryAddresses...)

	source := testutil.NewScriptedCredentialSource(
		[]string{accs[1].PrivateKeyHex(), accs[2].PrivateKeyHex()},
		[]bool{true},
	)
	qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
	_ = qc.Collect(context.Background(), ms)

	require.Equal(t, before, ms.CosignatoryAddresses)
}

// FuzzQuorumCollector feeds random mixes of valid, repeated, foreign and
// malformed credentials and checks the collected set stays within the
// cosignatories, has no duplicates and never exceeds the set size.
func FuzzQuorumCollector(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		t.Parallel()
		r := rand.New(rand.NewSource(seed))

		n := r.Intn(5) + 1
		accs := testutil.GenRandomAccounts(r, t, n)
		strangers := testutil.GenRandomAccounts(r, t, 2)
		ms := multisigOf(uint32(r.Intn(n+1)+1), accs...)
		before := append([]string(nil), ms.CosignatoryAddresses...)

		secrets := make([]string, 0, 30)
		for i := 0; i < 30; i++ {
			switch r.Intn(4) {
			case 0:
				secrets = append(secrets, strangers[r.Intn(len(strangers))].PrivateKeyHex())
			case 1:
				secrets = append(secrets, testutil.GenRandomHexStr(r, uint64(r.Intn(40))))
			default:
				secrets = append(secrets, accs[r.Intn(n)].PrivateKeyHex())
			}
		}
		answers := make([]bool, 30)
		for i := range answers {
			answers[i] = r.Intn(3) != 0
		}

		source := testutil.NewScriptedCredentialSource(secrets, answers)
		qc := service.NewQuorumCollector(source, keyring.DefaultAddressPrefix, testutil.GetTestLogger(t))
		res := qc.Collect(context.Background(), ms)

		require.NotEqual(t, service.QuorumCollecting, res.State)
		require.LessOrEqual(t, len(res.Cosigners), n)
		if res.State == service.QuorumSatisfied && res.Sufficient() {
			require.LessOrEqual(t, uint32(len(res.Cosigners)), ms.MinApproval)
		}

		allowed := make(map[string]bool, n)
		for _, a := range accs {
			allowed[a.Address()] = true
		}
		seen := make(map[string]bool)
		for _, c := range res.Cosigners {
			require.True(t, allowed[c.Address()], "collected a foreign address")
			require.False(t, seen[c.Address()], "collected an address twice")
			seen[c.Address()] = true
		}
		require.Equal(t, before, ms.CosignatoryAddresses)
	})
}

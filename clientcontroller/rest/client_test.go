package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/clientcontroller/rest"
	"github.com/nodeops-io/tx-announcer/testutil"
	"github.com/nodeops-io/tx-announcer/types"
)

func testLedgerConfig() *config.LedgerConfig {
	cfg := config.DefaultLedgerConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetryAttempts = 3
	cfg.ConfirmationTimeout = 2 * time.Second

	return &cfg
}

func newTestClient(t *testing.T, g *fakeGateway) *rest.Client {
	c, err := rest.NewClient(g.URL(), testLedgerConfig(), testutil.GetTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := rest.NewClient("localhost:3000", testLedgerConfig(), testutil.GetTestLogger(t))
	require.ErrorContains(t, err, "invalid gateway url")
}

func TestClientReads(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	g.handleJSON(http.MethodGet, "/node/info", http.StatusOK, map[string]string{"networkGenerationHashSeed": "ABCD"})
	g.handleJSON(http.MethodGet, "/chain/info", http.StatusOK, map[string]string{"height": "1234"})
	g.handleJSON(http.MethodGet, "/network/properties", http.StatusOK, map[string]any{
		"chain": map[string]string{"currencyMosaicId": "0x6BED'913F'A202'23F8"},
	})
	g.handleJSON(http.MethodGet, "/mosaics/6BED913FA20223F8", http.StatusOK, map[string]any{
		"mosaic": map[string]any{"id": "6BED913FA20223F8", "divisibility": 6},
	})
	g.handleJSON(http.MethodGet, "/accounts/acc1main", http.StatusOK, map[string]any{
		"account": map[string]any{
			"address":   "acc1main",
			"publicKey": "AB",
			"mosaics": []map[string]string{
				{"id": "6bed913fa20223f8", "amount": "100000000000000000000"},
			},
		},
	})
	g.handleJSON(http.MethodGet, "/account/acc1main/multisig", http.StatusOK, map[string]any{
		"multisig": map[string]any{
			"accountAddress":       "acc1main",
			"minApproval":          2,
			"minRemoval":           1,
			"cosignatoryAddresses": []string{"acc1a", "acc1b", "acc1c"},
		},
	})

	c := newTestClient(t, g)
	ctx := context.Background()

	hash, err := c.NetworkGenerationHash(ctx)
	require.NoError(t, err)
	require.Equal(t, "ABCD", hash)

	height, err := c.ChainHeight(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), height)

	mosaic, err := c.CurrencyMosaic(ctx)
	require.NoError(t, err)
	require.Equal(t, &types.CurrencyMosaic{ID: "6BED913FA20223F8", Divisibility: 6}, mosaic)

	funding, err := c.AccountInfo(ctx, "acc1main")
	require.NoError(t, err)
	expected, _ := sdkmath.NewIntFromString("100000000000000000000")
	require.True(t, expected.Equal(funding.Balance("6BED913FA20223F8")))

	ms, err := c.MultisigInfo(ctx, "acc1main")
	require.NoError(t, err)
	require.True(t, ms.IsMultisig())
	require.Equal(t, uint32(2), ms.MinApproval)
	require.Equal(t, []string{"acc1a", "acc1b", "acc1c"}, ms.CosignatoryAddresses)
}

func TestClientNotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	calls := atomic.NewInt32(0)
	g.handle(http.MethodGet, "/accounts/acc1unknown", func(w http.ResponseWriter, _ *http.Request) {
		calls.Inc()
		w.WriteHeader(http.StatusNotFound)
	})

	c := newTestClient(t, g)
	_, err := c.AccountInfo(context.Background(), "acc1unknown")
	require.ErrorIs(t, err, api.ErrNotFound)
	require.Equal(t, int32(1), calls.Load())

	_, err = c.MultisigInfo(context.Background(), "acc1unknown")
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	calls := atomic.NewInt32(0)
	g.handle(http.MethodGet, "/chain/info", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Inc() < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"height": "7"})
	})

	c := newTestClient(t, g)
	height, err := c.ChainHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(7), height)
	require.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	calls := atomic.NewInt32(0)
	g.handle(http.MethodGet, "/chain/info", func(w http.ResponseWriter, _ *http.Request) {
		calls.Inc()
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := newTestClient(t, g)
	_, err := c.ChainHeight(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestClientInvalidHeight(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	g.handleJSON(http.MethodGet, "/chain/info", http.StatusOK, map[string]string{"height": "tall"})

	c := newTestClient(t, g)
	_, err := c.ChainHeight(context.Background())
	require.ErrorIs(t, err, api.ErrUnexpectedResponse)
}

func TestClientCurrencyMosaicMissing(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	g.handleJSON(http.MethodGet, "/network/properties", http.StatusOK, map[string]any{"chain": map[string]string{}})

	c := newTestClient(t, g)
	mosaic, err := c.CurrencyMosaic(context.Background())
	require.NoError(t, err)
	require.Empty(t, mosaic.ID)
}

func TestClientAnnounce(t *testing.T) {
	t.Parallel()

	g := newFakeGateway(t)
	var got announceBody
	g.handle(http.MethodPut, "/transactions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"message":"packet 9 was pushed to the network via /transactions"}`))
	})
	g.handle(http.MethodPut, "/transactions/partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"InvalidArgument","message":"payload is malformed"}`))
	})

	c := newTestClient(t, g)
	tx := &types.SignedTransaction{Kind: types.TxHashLock, Hash: "AA", Payload: "0102"}

	res, err := c.Announce(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, "AA", res.TxHash)
	require.Contains(t, res.Message, "pushed")
	require.Equal(t, "0102", got.Payload)

	_, err = c.AnnouncePartial(context.Background(), tx)
	require.ErrorIs(t, err, api.ErrTxRejected)
	require.ErrorContains(t, err, "payload is malformed")
	require.False(t, errors.Is(err, api.ErrNotFound))
}

type announceBody struct {
	Payload string `json:"payload"`
}

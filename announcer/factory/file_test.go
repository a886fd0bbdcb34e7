package factory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodeops-io/tx-announcer/announcer/factory"
	"github.com/nodeops-io/tx-announcer/types"
)

const testOperations = `
defaults:
  - kind: account-key-link
    payload: "01${mainPublicKey}"
nodes:
  node-1:
    operations:
      - kind: vrf-key-link
        payload: "02${vrfPublicKey}"
        fee: 500
        description: link the vrf key
      - kind: node-key-link
        payload: "0xABCD"
presets:
  testnet:
    node-1:
      operations:
        - kind: remote-key-link
          payload: "03${remotePublicKey}"
`

func writeOperations(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "operations.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func request(preset, node string) types.FactoryRequest {
	return types.FactoryRequest{
		Preset: preset,
		Node:   types.NodeDescriptor{Name: node},
		NodeAccount: types.NodeAccount{
			Name:            node,
			RemotePublicKey: "aa",
			VrfPublicKey:    "bb",
		},
		MainAccount: types.PublicAccount{Address: "acc1main", PublicKey: "cc"},
		MaxFee:      1000,
	}
}

func TestFileFactoryResolution(t *testing.T) {
	t.Parallel()

	ff, err := factory.LoadFileFactory(writeOperations(t, testOperations))
	require.NoError(t, err)

	tests := []struct {
		name     string
		preset   string
		node     string
		kinds    []string
		payloads [][]byte
		fees     []uint64
	}{
		{
			name:     "node entry",
			preset:   "mainnet",
			node:     "node-1",
			kinds:    []string{"vrf-key-link", "node-key-link"},
			payloads: [][]byte{{0x02, 0xbb}, {0xab, 0xcd}},
			fees:     []uint64{500, 1000},
		},
		{
			name:     "preset override",
			preset:   "testnet",
			node:     "node-1",
			kinds:    []string{"remote-key-link"},
			payloads: [][]byte{{0x03, 0xaa}},
			fees:     []uint64{1000},
		},
		{
			name:     "defaults",
			preset:   "testnet",
			node:     "node-2",
			kinds:    []string{"account-key-link"},
			payloads: [][]byte{{0x01, 0xcc}},
			fees:     []uint64{1000},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ops, err := ff.CreateOperations(context.Background(), request(tt.preset, tt.node))
			require.NoError(t, err)
			require.Len(t, ops, len(tt.kinds))
			for i, op := range ops {
				require.Equal(t, tt.kinds[i], op.Kind)
				require.Equal(t, tt.payloads[i], op.Payload)
				require.Equal(t, tt.fees[i], op.Fee)
				require.NotEmpty(t, op.Description)
			}
		})
	}
}

func TestFileFactoryMissingKey(t *testing.T) {
	t.Parallel()

	ff, err := factory.LoadFileFactory(writeOperations(t, testOperations))
	require.NoError(t, err)

	req := request("mainnet", "node-1")
	req.NodeAccount.VrfPublicKey = ""
	_, err = ff.CreateOperations(context.Background(), req)
	require.ErrorContains(t, err, "vrf public key")
}

func TestFileFactoryMissingFile(t *testing.T) {
	t.Parallel()

	ff, err := factory.LoadFileFactory(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	ops, err := ff.CreateOperations(context.Background(), request("mainnet", "node-1"))
	require.NoError(t, err)
	require.Empty(t, ops)
}

func TestLoadFileFactoryInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "not yaml", content: "nodes: [", errMsg: "failed to parse"},
		{name: "no kind", content: "defaults:\n  - payload: \"01\"\n", errMsg: "has no kind"},
		{name: "no payload", content: "nodes:\n  n:\n    operations:\n      - kind: x\n", errMsg: "has no payload"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := factory.LoadFileFactory(writeOperations(t, tt.content))
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestFileFactoryCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := factory.NewFileFactory(&factory.OperationsFile{}).CreateOperations(ctx, request("mainnet", "node-1"))
	require.ErrorIs(t, err, context.Canceled)
}

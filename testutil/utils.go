package testutil

import (
	"context"
	"io"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/nodeops-io/tx-announcer/testutil/mocks"
	"github.com/nodeops-io/tx-announcer/types"
)

const TestGenerationHash = "57F7DA205008026C776CB6AED843393F04CD458E0AA2D9F1D5F31A402072B2D6"

// ScriptedCredentialSource replays prepared answers. It fails with io.EOF
// once a script runs out, like a closed terminal.
type ScriptedCredentialSource struct {
	mu      sync.Mutex
	secrets []string
	answers []bool

	SecretPrompts  []string
	ConfirmPrompts []string
}

func NewScriptedCredentialSource(secrets []string, answers []bool) *ScriptedCredentialSource {
	return &ScriptedCredentialSource{secrets: secrets, answers: answers}
}

func (s *ScriptedCredentialSource) CollectSecret(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.SecretPrompts = append(s.SecretPrompts, prompt)
	if len(s.secrets) == 0 {
		return "", io.EOF
	}
	secret := s.secrets[0]
	s.secrets = s.secrets[1:]

	return secret, nil
}

func (s *ScriptedCredentialSource) ConfirmYesNo(ctx context.Context, prompt string, _ bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.ConfirmPrompts = append(s.ConfirmPrompts, prompt)
	if len(s.answers) == 0 {
		return false, io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]

	return answer, nil
}

func (s *ScriptedCredentialSource) Prompts() (secrets int, confirms int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.SecretPrompts), len(s.ConfirmPrompts)
}

// PrepareMockedLedgerClient returns a ledger client answering the
// network-level queries of a run.
func PrepareMockedLedgerClient(t *testing.T, ctl *gomock.Controller, height uint64, generationHash string) *mocks.MockLedgerClient {
	t.Helper()
	mockLedgerClient := mocks.NewMockLedgerClient(ctl)

	mockLedgerClient.EXPECT().Close().Return(nil).AnyTimes()
	mockLedgerClient.EXPECT().ChainHeight(gomock.Any()).Return(height, nil).AnyTimes()
	mockLedgerClient.EXPECT().NetworkGenerationHash(gomock.Any()).Return(generationHash, nil).AnyTimes()
	mockLedgerClient.EXPECT().CurrencyMosaic(gomock.Any()).
		Return(&types.CurrencyMosaic{ID: TestFeeMosaicID, Divisibility: 6}, nil).
		AnyTimes()

	return mockLedgerClient
}

// PrepareMockedListener returns a listener confirming every transaction.
func PrepareMockedListener(ctl *gomock.Controller) *mocks.MockConfirmationListener {
	mockListener := mocks.NewMockConfirmationListener(ctl)

	mockListener.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockListener.EXPECT().Close().Return(nil).AnyTimes()

	return mockListener
}

package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		expected int
	}{
		{name: "success", ctx: context.Background(), expected: 0},
		{name: "failure", ctx: context.Background(), err: errors.New("wrong network"), expected: 1},
		{name: "interrupted run", ctx: cancelled, err: fmt.Errorf("run stopped: %w", context.Canceled), expected: exitInterrupted},
		{name: "interrupted with another error", ctx: cancelled, err: errors.New("failed to read the password"), expected: exitInterrupted},
		{name: "cancelled error without signal", ctx: context.Background(), err: context.Canceled, expected: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.expected, exitCode(tt.ctx, tt.err))
		})
	}
	require.Equal(t, 400, exitInterrupted)
}

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func GetTestLogger(t *testing.T) *zap.Logger {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	logger, err := loggerConfig.Build()

	require.NoError(t, err)

	return logger
}

// GetObservedLogger returns a logger recording every entry at debug level
// and above, for tests asserting on log output.
func GetObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)

	return zap.New(core), logs
}

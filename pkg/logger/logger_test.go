package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yellow-notes/yellow/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	// Get Stats Before
	require.Equal(t, buff.Len(), 0)
	templogger.Info("Test")
	// Get Stats After
	require.Contains(t, buff.String(), "Test")
}

func TestLogKeyValueArgs(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)

	templogger.Error("boom", "op", "search", "status", 500)

	out := buff.String()
	require.Contains(t, out, `"op":"search"`)
	require.Contains(t, out, `"status":500`)
	require.Contains(t, out, "boom")
}

func TestLogLevelFiltersDebug(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).WithLevel(zerolog.InfoLevel).Make()
	require.NoError(t, err)

	templogger.Debug("hidden")
	require.Equal(t, 0, buff.Len())

	templogger.Info("shown")
	require.Contains(t, buff.String(), "shown")
}

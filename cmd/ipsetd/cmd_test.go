package main

import (
	"path/filepath"
	"testing"

	"github.com/yaotthaha/ipsetd/option"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, closeLog, err := newLogger(option.LogOptions{Level: "warn"})
	require.NoError(t, err)
	defer closeLog()
	require.NotNil(t, logger)

	_, _, err = newLogger(option.LogOptions{Level: "verbose"})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "ipsetd.log")
	logger, closeLog, err = newLogger(option.LogOptions{File: file})
	require.NoError(t, err)
	logger.Info("hello")
	closeLog()
	require.FileExists(t, file)
}

func TestGetAllSources(t *testing.T) {
	require.Equal(t, "Sources: mqtt, redis", getAllSources())
}

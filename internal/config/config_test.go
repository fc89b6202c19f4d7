package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load("test", []string{"-c", filepath.Join(t.TempDir(), "missing.json")}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Port)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, DefaultHistoryKeep, opts.HistoryKeep)
	assert.Equal(t, int64(DefaultMaxUploadBytes), opts.MaxUploadBytes)
	assert.Equal(t, time.Hour, opts.PruneInterval)
	assert.Equal(t, DefaultBcryptCost, opts.BcryptCost)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"address": "file:9000",
		"database_dsn": "postgres://file",
		"history_keep": 7,
		"bcrypt_cost": 12
	}`), 0o600))

	opts, err := Load("test", []string{"-a", "flag:8000", "-keep", "3", "-c", path}, envFrom(map[string]string{
		"SERVER_ADDRESS": "env:7000",
		"LOG_LEVEL":      "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env:7000", opts.Port, "env wins over file and flag")
	assert.Equal(t, "postgres://file", opts.DatabaseDSN, "file wins over flag default")
	assert.Equal(t, 7, opts.HistoryKeep, "file wins over flag")
	assert.Equal(t, 12, opts.BcryptCost)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"history_keep": 2}`), 0o600))

	opts, err := Load("test", nil, envFrom(map[string]string{"CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, 2, opts.HistoryKeep)
}

func TestLoad_HistoryKeepEnv(t *testing.T) {
	missing := []string{"-c", filepath.Join(t.TempDir(), "missing.json")}

	opts, err := Load("test", missing, envFrom(map[string]string{"HISTORY_KEEP": "9"}))
	require.NoError(t, err)
	assert.Equal(t, 9, opts.HistoryKeep)

	_, err = Load("test", missing, envFrom(map[string]string{"HISTORY_KEEP": "many"}))
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	_, err = Load("test", missing, envFrom(map[string]string{"HISTORY_KEEP": "0"}))
	assert.True(t, errors.Is(err, ErrInvalidOptions))
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Load("test", []string{"-c", path}, envFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load("test", []string{"-nope"}, envFrom(nil))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Options {
		return Options{
			HistoryKeep:    DefaultHistoryKeep,
			MaxUploadBytes: DefaultMaxUploadBytes,
			PruneInterval:  DefaultPruneInterval,
			BcryptCost:     DefaultBcryptCost,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"keep zero", func(o *Options) { o.HistoryKeep = 0 }},
		{"keep negative", func(o *Options) { o.HistoryKeep = -1 }},
		{"no upload cap", func(o *Options) { o.MaxUploadBytes = 0 }},
		{"no prune interval", func(o *Options) { o.PruneInterval = 0 }},
		{"cost too low", func(o *Options) { o.BcryptCost = 3 }},
		{"cost too high", func(o *Options) { o.BcryptCost = 32 }},
	}

	o := valid()
	require.NoError(t, o.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid()
			tt.mutate(&o)
			assert.ErrorIs(t, o.Validate(), ErrInvalidOptions)
		})
	}
}

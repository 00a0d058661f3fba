package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, path string) Config {
	t.Helper()

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSetValue_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "watch.debounce", "1s"))
	require.NoError(t, SetValue(path, "backend.address", "ws://capture:9000"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Lumos Configuration")
	require.Contains(t, string(data), "# Capture backend")

	cfg := load(t, path)
	require.Equal(t, time.Second, cfg.Watch.Debounce)
	require.Equal(t, "ws://capture:9000", cfg.Backend.Address)
	require.Equal(t, 5*time.Second, cfg.Backend.Timeout, "siblings untouched")
}

func TestSetValue_CreatesFileAndSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "config.yaml")

	require.NoError(t, SetValue(path, "highlight.field", "#112233"))
	require.NoError(t, SetValue(path, "debug", "true"))
	require.NoError(t, SetValue(path, "parser.max_input_length", "100"))

	cfg := load(t, path)
	require.Equal(t, "#112233", cfg.Highlight.Field)
	require.True(t, cfg.Debug)
	require.Equal(t, 100, cfg.Parser.MaxInputLength)
}

func TestSetValue_ReplacesExistingScalar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false # keep me\n"), 0o600))

	require.NoError(t, SetValue(path, "debug", "true"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "debug: true # keep me")
}

func TestSetValue_Errors(t *testing.T) {
	dir := t.TempDir()

	err := SetValue(filepath.Join(dir, "a.yaml"), "nope", "1")
	require.ErrorContains(t, err, "unknown config key")

	scalar := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(scalar, []byte("watch: fast\n"), 0o600))
	err = SetValue(scalar, "watch.debounce", "1s")
	require.ErrorContains(t, err, "not a section")

	list := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(list, []byte("- a\n- b\n"), 0o600))
	err = SetValue(list, "debug", "true")
	require.ErrorContains(t, err, "top level must be a mapping")
}

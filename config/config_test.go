package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bptree.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
order = 8
seed_records = 50
debug = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Order)
	require.Equal(t, 50, cfg.SeedRecords)
	require.True(t, cfg.Debug)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `debug = true`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Order, cfg.Order)
	require.Equal(t, Default().SeedRecords, cfg.SeedRecords)
}

func TestLoadRejectsBadOrder(t *testing.T) {
	path := writeConfig(t, `order = 2`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, yaml string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(yaml), 0o644))
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	require.NoError(t, os.Mkdir("config", 0o755))

	writeConfigFile(t, "config", "arb", `
coin_type: "0x2::sui::SUI"
sender: "0xaa"
pool_id: "0xbb"
workers: 4
`)

	cfg, err := Load("arb")
	require.NoError(t, err)
	assert.Equal(t, "0x2::sui::SUI", cfg.CoinType)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 32, cfg.RecentArbsCapacity)
	assert.Equal(t, uint64(9000), cfg.MevTipFractionBps)
	assert.Equal(t, int64(5000), cfg.ArbTTLMs)
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cfg := Config{Workers: 1, MaxHopCount: 2, MaxPoolCount: 10}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsOversizedTipFraction(t *testing.T) {
	cfg := Config{CoinType: "0x2::sui::SUI", Sender: "0xaa", Workers: 1, MaxHopCount: 2, MaxPoolCount: 10, MevTipFractionBps: 10_001}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateAcceptsMinimalValidConfig(t *testing.T) {
	cfg := Config{CoinType: "0x2::sui::SUI", Sender: "0xaa", Workers: 1, MaxHopCount: 2, MaxPoolCount: 10, MevTipFractionBps: 9000}
	assert.NoError(t, cfg.Validate())
}

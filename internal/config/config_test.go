package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vera/internal/ir"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, ir.DefaultLimits(), cfg.Limits)
	assert.True(t, cfg.ImplicitConstants)
}

func TestLoadNilFlagSet(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load(flags(t, "--max-symbols", "10", "--max-rules", "0", "--no-implicit-constants"))
	require.NoError(t, err)
	assert.Equal(t, ir.Limits{MaxSymbols: 10, MaxRules: 0, MaxNameBytes: ir.DefaultMaxNameBytes}, cfg.Limits)
	assert.False(t, cfg.ImplicitConstants)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("VERA_MAX_SYMBOLS", "7")
	t.Setenv("VERA_IMPLICIT_CONSTANTS", "false")

	cfg, err := Load(flags(t))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Limits.MaxSymbols)
	assert.Equal(t, ir.DefaultMaxRules, cfg.Limits.MaxRules)
	assert.False(t, cfg.ImplicitConstants)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vera.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_rules: 9\nmax_name_bytes: 100\n"), 0o644))

	cfg, err := Load(flags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, ir.Limits{MaxSymbols: ir.DefaultMaxSymbols, MaxRules: 9, MaxNameBytes: 100}, cfg.Limits)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vera.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_symbols: 1\nmax_rules: 2\nmax_name_bytes: 3\n"), 0o644))
	t.Setenv("VERA_MAX_SYMBOLS", "11")
	t.Setenv("VERA_MAX_RULES", "22")

	cfg, err := Load(flags(t, "--config", path, "--max-symbols", "111"))
	require.NoError(t, err)

	// flag > env > file
	assert.Equal(t, ir.Limits{MaxSymbols: 111, MaxRules: 22, MaxNameBytes: 3}, cfg.Limits)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(flags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadNegativeLimit(t *testing.T) {
	_, err := Load(flags(t, "--max-rules", "-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_rules must be non-negative")
}

func TestParserOptions(t *testing.T) {
	cfg := Config{Limits: ir.Unlimited(), ImplicitConstants: false}
	opts := cfg.ParserOptions()
	assert.False(t, opts.ImplicitConstants)
	assert.Equal(t, ir.Unlimited(), opts.Limits)
}

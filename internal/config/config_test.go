package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/salescope/engine"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("top-n", DefaultTopN, "")
	fs.String("granularity", DefaultGranularity, "")
	fs.String("currency", DefaultCurrency, "")
	fs.Bool("verbose", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salescope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "day", cfg.Granularity)
	assert.Equal(t, "€", cfg.Currency)
	assert.Equal(t, 200, cfg.SampleSize)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.6, cfg.DateThreshold)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(1_000_000_000), cfg.MaxUploadBytes)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "table", cfg.Output)
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "top_n: 20\ngranularity: week\ncurrency: GNF\ncache_ttl: 1m\n")

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, "week", cfg.Granularity)
	assert.Equal(t, time.Minute, cfg.CacheTTL)

	t.Setenv("SALESCOPE_TOP_N", "30")
	t.Setenv("SALESCOPE_CURRENCY", "$")
	cfg, _, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TopN)
	assert.Equal(t, "$", cfg.Currency)
	assert.Equal(t, "week", cfg.Granularity)

	cfg, _, err = Load(path, newFlags(t, "--top-n", "40"))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TopN)
	assert.Equal(t, "$", cfg.Currency, "unset flags must not override env")
}

func TestLoad_FindsFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salescope.yml"), []byte("output: json\n"), 0o644))

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "salescope.yml", used)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := Load(writeConfig(t, "top_n: 2\n"), nil)
	assert.Error(t, err)

	_, _, err = Load(writeConfig(t, "granularity: year\n"), nil)
	assert.Error(t, err)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Params(t *testing.T) {
	cfg := &Config{TopN: 5, Granularity: "M", Currency: "€"}
	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, engine.Params{TopN: 5, Granularity: engine.Month, Currency: "€"}, p)

	cfg.TopN = 99
	_, err = cfg.Params()
	assert.ErrorIs(t, err, engine.ErrInvalidParams)
}

func TestConfig_InferOptions(t *testing.T) {
	cfg := &Config{SampleSize: 50, Seed: 7, DateThreshold: 0.8}
	opts := cfg.InferOptions()
	assert.Equal(t, 50, opts.SampleSize)
	assert.Equal(t, int64(7), opts.Seed)
	assert.Equal(t, 0.8, opts.DateThreshold)
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/tweet-miner/internal/storage"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("TEST_MINER_KEY", "")
	assert.Equal(t, "def", getEnv("TEST_MINER_KEY", "def"))

	t.Setenv("TEST_MINER_KEY", "set")
	assert.Equal(t, "set", getEnv("TEST_MINER_KEY", "def"))
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"COLLECTOR_MODE", "TARGET_COUNT", "PAGE_SIZE", "OUTPUT_FORMAT", "LOG_LEVEL", "PLACE_LABEL", "OUTPUT_DIR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "twitter", cfg.Mode)
	assert.Equal(t, 5000, cfg.TargetCount)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, storage.FormatCSV, cfg.OutputFormat)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, "mixed", cfg.ResultType)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COLLECTOR_MODE", "mock")
	t.Setenv("TARGET_COUNT", "250")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("OUTPUT_FORMAT", "xlsx")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Mode)
	assert.Equal(t, 250, cfg.TargetCount)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, storage.FormatXLSX, cfg.OutputFormat)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TARGET_COUNT", "lots")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TARGET_COUNT", "")
	t.Setenv("OUTPUT_FORMAT", "parquet")
	_, err = Load()
	assert.ErrorIs(t, err, storage.ErrUnsupportedFormat)
}

func TestValidate(t *testing.T) {
	cfg := &Config{TargetCount: 10, PageSize: 500, Query: "sinovac"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxPageSize, cfg.PageSize)

	assert.Error(t, (&Config{TargetCount: 0, PageSize: 10, Query: "q"}).Validate())
	assert.Error(t, (&Config{TargetCount: 1, PageSize: 0, Query: "q"}).Validate())
	assert.Error(t, (&Config{TargetCount: 1, PageSize: 10}).Validate())
}

func TestResolveQuery(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "queries.csv")
	require.NoError(t, os.WriteFile(file, []byte("name,query\nvaccine,sinovac\n"), 0o644))

	name, text, err := (&Config{Query: "mrt OR bus"}).ResolveQuery()
	require.NoError(t, err)
	assert.Equal(t, "mrt-or-bus", name)
	assert.Equal(t, "mrt OR bus", text)

	name, text, err = (&Config{QueryName: "vaccine", QueryFile: file}).ResolveQuery()
	require.NoError(t, err)
	assert.Equal(t, "vaccine", name)
	assert.Equal(t, "sinovac", text)

	_, _, err = (&Config{QueryName: "politician", QueryFile: file}).ResolveQuery()
	assert.Error(t, err)
}

func TestTwitterCredentials(t *testing.T) {
	dir := t.TempDir()
	auth := filepath.Join(dir, "auth.k")
	require.NoError(t, os.WriteFile(auth, []byte("a\nb\nc\nd\n"), 0o600))

	creds, err := (&Config{AuthFile: auth}).TwitterCredentials()
	require.NoError(t, err)
	assert.Equal(t, "a", creds.ConsumerKey)
	assert.Equal(t, "d", creds.AccessSecret)

	_, err = (&Config{AuthFile: filepath.Join(dir, "missing")}).TwitterCredentials()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestOutputPath(t *testing.T) {
	cfg := &Config{OutputDir: "results", PlaceLabel: "China", OutputFormat: storage.FormatCSV}
	assert.Equal(t, filepath.Join("results", "sinovac_china.csv"), cfg.OutputPath("sinovac"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "covid-or-covid-19", Slug("covid OR covid-19"))
	assert.Equal(t, "query", Slug("***"))
	assert.Equal(t, "all", Slug("all"))
}

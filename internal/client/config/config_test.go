package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's environment and working directory out of a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, s := range settings {
		name := EnvPrefix + "_" + strings.ToUpper(s.key)
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv(EnvPrefix+"_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv(EnvPrefix+"_CONFIG", "")
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendWalrus, c.Backend)
	assert.Equal(t, "file_registry", c.RegistryModule)
	assert.Equal(t, "simple_recipient", c.SealModule)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.Equal(t, uint64(1), c.DefaultEpochs)
	assert.Equal(t, uint64(50_000_000), c.GasBudget)
	assert.NotEmpty(t, c.KeyServers)
	assert.Equal(t, "sealdrop.db", filepath.Base(c.DBPath))
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	isolate(t)

	got, err := LoadConfig(newFlags(t))
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, got))
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolate(t)

	t.Setenv("SEALDROP_PUBLISHER_URL", "http://env-publisher")
	t.Setenv("SEALDROP_AGGREGATOR_URL", "http://env-aggregator")
	t.Setenv("SEALDROP_KEY_SERVERS", "a:1, b:2")
	t.Setenv("SEALDROP_SESSION_TTL", "7m")
	t.Setenv("SEALDROP_S3_PATH_STYLE", "true")

	path := writeTempJSON(t, map[string]any{
		"aggregator_url": "http://json-aggregator",
		"rpc_url":        "http://json-rpc",
		"session_ttl":    "9m",
		"gas_budget":     1000,
	})

	fs := newFlags(t, "--config", path, "--rpc", "http://flag-rpc", "--gas-budget", "42", "--key-servers", "c:3")
	got, err := LoadConfig(fs)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	want.PublisherURL = "http://env-publisher"
	want.AggregatorURL = "http://json-aggregator"
	want.RPCURL = "http://flag-rpc"
	want.KeyServers = []string{"c:3"}
	want.SessionTTL = 9 * time.Minute
	want.GasBudget = 42
	want.S3.UsePathStyle = true

	assert.Empty(t, cmp.Diff(&want, got))
}

func TestLoadConfig_DotEnv(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SEALDROP_BACKEND=s3\nSEALDROP_S3_BUCKET=drops\n"), 0o600))
	t.Setenv("SEALDROP_ENV_FILE", envFile)
	t.Cleanup(func() {
		_ = os.Unsetenv("SEALDROP_BACKEND")
		_ = os.Unsetenv("SEALDROP_S3_BUCKET")
	})

	got, err := LoadConfig(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, BackendS3, got.Backend)
	assert.Equal(t, "drops", got.S3.Bucket)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("bad env duration", func(t *testing.T) {
		isolate(t)
		t.Setenv("SEALDROP_HTTP_TIMEOUT", "soon")
		_, err := LoadConfig(newFlags(t))
		require.ErrorContains(t, err, "SEALDROP_HTTP_TIMEOUT")
	})

	t.Run("missing json file", func(t *testing.T) {
		isolate(t)
		_, err := LoadConfig(newFlags(t, "-c", filepath.Join(t.TempDir(), "nope.json")))
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := LoadConfig(newFlags(t, "--config", path))
		require.Error(t, err)
	})
}

func TestLoadConfig_WithoutFlagSet(t *testing.T) {
	isolate(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{"log_level": "debug"})
	os.Args = []string{"sealdrop", "history", "--config", path}

	got, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad registry package", func(c *Config) { c.RegistryPackageID = "zz" }},
		{"bad seal package", func(c *Config) { c.SealPackageID = "" }},
		{"no key servers", func(c *Config) { c.KeyServers = nil }},
		{"short ttl", func(c *Config) { c.SessionTTL = time.Second }},
		{"zero epochs", func(c *Config) { c.DefaultEpochs = 0 }},
		{"unknown backend", func(c *Config) { c.Backend = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Backend = BackendS3 }},
		{"walrus without publisher", func(c *Config) { c.PublisherURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), common.ErrValidation)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Host     string `env:"TEST_CFG_HOST" envDefault:"localhost"`
	LogLevel string `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_HOST", "0.0.0.0")
	t.Setenv("TEST_CFG_LOG_LEVEL", "debug")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_RequiredFieldPresent(t *testing.T) {
	t.Setenv("TEST_CFG_API_KEY", "secret-123")

	var cfg requiredConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "secret-123", cfg.APIKey)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type fileConfig struct {
	APIURL  string `toml:"api_url" env:"TEST_CFG_API_URL"`
	Timeout int    `toml:"timeout_seconds" env:"TEST_CFG_TIMEOUT"`
}

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_ReadsTOML(t *testing.T) {
	path := writeTOML(t, "api_url = \"http://localhost:8080\"\ntimeout_seconds = 7\n")

	var cfg fileConfig
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 7, cfg.Timeout)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := writeTOML(t, "api_url = \"http://from-file\"\ntimeout_seconds = 7\n")
	t.Setenv("TEST_CFG_API_URL", "http://from-env")

	var cfg fileConfig
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, "http://from-env", cfg.APIURL)
	assert.Equal(t, 7, cfg.Timeout)
}

func TestLoadFile_MissingFileKeepsDefaults(t *testing.T) {
	cfg := fileConfig{APIURL: "http://default", Timeout: 10}
	require.NoError(t, LoadFile(filepath.Join(t.TempDir(), "absent.toml"), &cfg))
	assert.Equal(t, "http://default", cfg.APIURL)
	assert.Equal(t, 10, cfg.Timeout)
}

func TestLoadFile_InvalidTOML(t *testing.T) {
	path := writeTOML(t, "api_url = \n")

	var cfg fileConfig
	err := LoadFile(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.config/wishlist/config.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/wishlist/config.toml"), got)

	_, err = ExpandPath("   ")
	assert.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_CFG_DOTENV_NEW=from-file\nTEST_CFG_DOTENV_KEEP=from-file\n"), 0o600))

	t.Setenv("TEST_CFG_DOTENV_KEEP", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("TEST_CFG_DOTENV_NEW") })

	require.NoError(t, LoadDotenv(filepath.Join(dir, "missing.env"), path))

	assert.Equal(t, "from-file", os.Getenv("TEST_CFG_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("TEST_CFG_DOTENV_KEEP"))
}

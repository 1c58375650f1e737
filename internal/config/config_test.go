package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from the developer's environment and working directory.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GITHUB_TOKEN", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_URL", "GITHUB_API_URL", "GITHUB_GRAPHQL_URL", "GITHUB_BACKEND", "GITHUB_WAIT_ON_RATE_LIMIT", "SERVER_ADDR", "VERBOSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GitHubToken)
	assert.Equal(t, "", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, BackendREST, cfg.GitHub.Backend)
	assert.False(t, cfg.GitHub.WaitOnRateLimit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "  ghp_test \n")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3")
	t.Setenv("GITHUB_BACKEND", "graphql")
	t.Setenv("GITHUB_WAIT_ON_RATE_LIMIT", "true")
	t.Setenv("SERVER_ADDR", ":9999")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.APIURL)
	assert.Equal(t, BackendGraphQL, cfg.GitHub.Backend)
	assert.True(t, cfg.GitHub.WaitOnRateLimit)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini_model: gemini-2.5-pro\ngithub:\n  backend: graphql\nserver:\n  addr: \":7000\"\n"), 0o600))

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, BackendGraphQL, cfg.GitHub.Backend)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("GITHUB_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GITHUB_TOKEN") })

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.GitHubToken)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_BACKEND", "soap")
	v := viper.New()
	require.NoError(t, Init(v, ""))
	_, err := Load(v)
	assert.ErrorContains(t, err, "unknown github.backend")
}

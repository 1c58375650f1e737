// Package config loads runtime configuration from .env, an optional config
// file, and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names for GitHubConfig.Backend.
const (
	BackendREST    = "rest"
	BackendGraphQL = "graphql"
)

// GitHubConfig holds settings for the hosting provider gateway.
type GitHubConfig struct {
	APIURL          string `mapstructure:"api_url"`
	GraphQLURL      string `mapstructure:"graphql_url"`
	Backend         string `mapstructure:"backend"`
	WaitOnRateLimit bool   `mapstructure:"wait_on_rate_limit"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds all runtime configuration.
// Values are populated from .env, .readme-generator.yaml, environment variables, and CLI flags.
type Config struct {
	GitHubToken  string       `mapstructure:"github_token"`
	GeminiAPIKey string       `mapstructure:"gemini_api_key"`
	GeminiModel  string       `mapstructure:"gemini_model"`
	GeminiURL    string       `mapstructure:"gemini_url"`
	GitHub       GitHubConfig `mapstructure:"github"`
	Server       ServerConfig `mapstructure:"server"`
	Verbose      bool         `mapstructure:"verbose"`
}

// Init wires viper to the config file and the environment. An empty
// cfgFile searches for .readme-generator.yaml in the working directory.
func Init(v *viper.Viper, cfgFile string) error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".readme-generator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// GITHUB_TOKEN, GEMINI_API_KEY, GITHUB_API_URL, SERVER_ADDR, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("github_token", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_url", "")
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("github.backend", BackendREST)
	v.SetDefault("github.wait_on_rate_limit", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("verbose", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.GitHubToken = strings.TrimSpace(cfg.GitHubToken)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)

	switch cfg.GitHub.Backend {
	case BackendREST, BackendGraphQL:
	default:
		return Config{}, fmt.Errorf("unknown github.backend %q (want %q or %q)", cfg.GitHub.Backend, BackendREST, BackendGraphQL)
	}
	return cfg, nil
}

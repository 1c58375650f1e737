// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loookla/readme-generator-parth/internal/config"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "readme-generator",
	Short: "A CLI tool to generate a README for a public GitHub repository.",
	Long: `readme-generator fetches a repository's metadata from the GitHub API,
asks Gemini for narrative sections (description, features, installation, usage),
and assembles a complete README with a fixed set of sections.

Credentials are read from GITHUB_TOKEN and GEMINI_API_KEY, a .env file,
or .readme-generator.yaml.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags, available to all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is ./.readme-generator.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("backend", "", "GitHub API backend: rest or graphql (default rest)")
	_ = v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("github.backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	if err := config.Init(v, cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration and a logger honouring --verbose.
func loadConfig() (config.Config, *log.Logger) {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if cfg.Verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	return cfg, logger
}

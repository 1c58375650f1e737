package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/loookla/readme-generator-parth/internal/config"
	"github.com/loookla/readme-generator-parth/internal/gateway"
	"github.com/loookla/readme-generator-parth/internal/metrics"
	"github.com/loookla/readme-generator-parth/internal/narrative"
	"github.com/loookla/readme-generator-parth/internal/usecase"
)

// newGenerator injects the configured collaborators into the use case.
// Missing credentials leave the matching collaborator nil; the use case
// reports that per request rather than refusing to start.
func newGenerator(ctx context.Context, cfg config.Config, recorder metrics.Recorder, logger *log.Logger) (*usecase.Generator, error) {
	opts := usecase.Options{Recorder: recorder}

	if cfg.GitHubToken != "" {
		gwOpts := gateway.Options{
			BaseURL:         cfg.GitHub.APIURL,
			GraphQLURL:      cfg.GitHub.GraphQLURL,
			WaitOnRateLimit: cfg.GitHub.WaitOnRateLimit,
		}
		var (
			fetcher gateway.Fetcher
			err     error
		)
		if cfg.GitHub.Backend == config.BackendGraphQL {
			fetcher, err = gateway.NewGraphQLGateway(cfg.GitHubToken, gwOpts, logger)
		} else {
			fetcher, err = gateway.NewGitHubGateway(cfg.GitHubToken, gwOpts, logger)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		opts.Fetcher = fetcher
	}

	if cfg.GeminiAPIKey != "" {
		client, err := narrative.NewGeminiClient(ctx, narrative.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		logger.Printf("Narrative generator: %s", client.Name())
		opts.Narrator = narrative.NewGenerator(client, logger)
	}

	return usecase.NewGenerator(opts, logger), nil
}

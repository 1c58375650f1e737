package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/loookla/readme-generator-parth/internal/metrics"
	"github.com/loookla/readme-generator-parth/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the generate operation over HTTP",
	Long: `Starts an HTTP server exposing POST /api/generate, POST /api/preview,
GET /health and GET /metrics.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, logger := loadConfig()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder := metrics.NewPrometheusRecorder(reg)

		generator, err := newGenerator(ctx, cfg, recorder, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if cfg.GitHubToken == "" {
			fmt.Fprintln(os.Stderr, "Warning: GITHUB_TOKEN is not set; every generate request will fail.")
		}
		if cfg.GeminiAPIKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: GEMINI_API_KEY is not set; narrative sections will be left unfilled.")
		}

		srv := server.NewServer(cfg.Server.Addr, generator, metrics.HTTPHandler(reg), logger)
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)

		select {
		case err := <-errCh:
			if err != nil {
				fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to shut down cleanly: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

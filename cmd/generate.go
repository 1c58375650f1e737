package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loookla/readme-generator-parth/internal/domain"
	"github.com/loookla/readme-generator-parth/internal/readme"
)

var generateCmd = &cobra.Command{
	Use:   "generate <repository-url>",
	Short: "Generates a README for a GitHub repository and outputs it as JSON",
	Long: `Fetches metadata for https://github.com/<owner>/<name>, fills the narrative
sections with Gemini when GEMINI_API_KEY is set, and prints the result envelope
in JSON format. Use --output to write the README file itself instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, logger := loadConfig()

		outDir, _ := cmd.Flags().GetString("output")
		withHTML, _ := cmd.Flags().GetBool("html")
		outline, _ := cmd.Flags().GetBool("outline")

		// Inject dependencies and run the main business logic.
		generator, err := newGenerator(ctx, cfg, nil, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		env, err := generator.Generate(ctx, args[0])
		if err != nil {
			de := domain.AsError(err)
			logger.Printf("Generate failed: %v", de)
			fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", de.Message, de.Code)
			os.Exit(1)
		}
		for _, w := range env.Errors {
			fmt.Fprintf(os.Stderr, "Warning: %s (%s)\n", w.Message, w.Code)
		}

		switch {
		case outline:
			for _, h := range readme.Outline(env.Document) {
				fmt.Printf("%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
			}
		case outDir != "":
			paths, err := writeDocument(outDir, env, withHTML)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			for _, p := range paths {
				fmt.Println(p)
			}
		default:
			// Marshal the envelope into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
		}
	},
}

// writeDocument writes <dir>/<fileName> and, when withHTML is set, a rendered
// preview next to it. It returns the written paths.
func writeDocument(dir string, env *domain.ResponseEnvelope, withHTML bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	mdPath := filepath.Join(dir, env.FileName)
	if err := os.WriteFile(mdPath, []byte(env.Document), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", mdPath, err)
	}
	paths := []string{mdPath}
	if !withHTML {
		return paths, nil
	}

	html, err := readme.RenderHTML(env.Document)
	if err != nil {
		return nil, err
	}
	htmlPath := strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".html"
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}
	return append(paths, htmlPath), nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "Directory to write <name>-README.md into instead of printing JSON")
	generateCmd.Flags().Bool("html", false, "With --output, also write an HTML preview")
	generateCmd.Flags().Bool("outline", false, "Print the README heading outline instead of JSON")
}

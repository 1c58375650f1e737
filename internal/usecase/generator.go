// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/loookla/readme-generator-parth/internal/domain"
	"github.com/loookla/readme-generator-parth/internal/gateway"
	"github.com/loookla/readme-generator-parth/internal/metrics"
	"github.com/loookla/readme-generator-parth/internal/readme"
)

// maxMessageRunes bounds error messages that carry upstream response text.
const maxMessageRunes = 300

// Narrator produces narrative sections. Implementations fail soft: the
// returned sections are usable even when the error is non-nil.
type Narrator interface {
	Generate(ctx context.Context, md *domain.Metadata) (domain.NarrativeSections, error)
}

// Options carries the collaborators of a Generator. A nil Fetcher means no
// GitHub credential is configured; a nil Narrator means no Gemini credential is.
type Options struct {
	Fetcher  gateway.Fetcher
	Narrator Narrator
	Recorder metrics.Recorder
}

// Generator is the use case for generating a README from a repository URL.
// It orchestrates parsing, fetching, narrative generation and assembly.
type Generator struct {
	fetcher  gateway.Fetcher
	narrator Narrator
	recorder metrics.Recorder
	logger   *log.Logger
}

// NewGenerator creates a new Generator instance.
func NewGenerator(opts Options, logger *log.Logger) *Generator {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Generator{
		fetcher:  opts.Fetcher,
		narrator: opts.Narrator,
		recorder: recorder,
		logger:   logger,
	}
}

// Generate runs the pipeline for one repository URL.
// Fatal failures are returned as *domain.Error and produce no envelope.
// Narrative failures never abort; they are listed in the envelope's Errors.
func (g *Generator) Generate(ctx context.Context, repoURL string) (env *domain.ResponseEnvelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Printf("Usecase: recovered from panic: %v", r)
			env, err = nil, domain.NewInternalError(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			err = domain.AsError(err)
		}
		g.recordOutcome(env, err)
	}()

	g.logger.Println("Usecase: Starting README generation...")
	if g.fetcher == nil {
		return nil, &domain.Error{
			Code:    domain.CodeMissingGitHubToken,
			Kind:    domain.KindConfiguration,
			Message: "GITHUB_TOKEN is not configured",
		}
	}

	start := time.Now()
	ref, err := domain.ParseReference(repoURL)
	g.recorder.ObserveStageDuration(metrics.StageParse, time.Since(start))
	if err != nil {
		return nil, err
	}

	start = time.Now()
	md, err := g.fetcher.FetchMetadata(ctx, ref)
	g.recorder.ObserveStageDuration(metrics.StageFetch, time.Since(start))
	if err != nil {
		g.logger.Printf("Usecase: metadata fetch failed: %v", err)
		return nil, upstreamFailure(err)
	}
	g.logger.Println("Usecase: Metadata fetched successfully.")

	var warnings []domain.NonFatalError
	narrative := domain.NarrativeSections{}
	if g.narrator == nil {
		warnings = append(warnings, domain.NonFatalError{
			Code:    domain.CodeMissingGeminiAPIKey,
			Message: "GEMINI_API_KEY is not configured; narrative sections were not generated.",
		})
	} else {
		start = time.Now()
		sections, genErr := g.narrator.Generate(ctx, md)
		g.recorder.ObserveStageDuration(metrics.StageNarrative, time.Since(start))
		if genErr != nil {
			g.logger.Printf("Usecase: narrative generation failed: %v", genErr)
			warnings = append(warnings, domain.NonFatalError{
				Code:    domain.CodeGeminiAPIError,
				Message: truncate("Gemini API error: "+genErr.Error(), maxMessageRunes),
			})
		} else {
			narrative = sections
		}
	}

	start = time.Now()
	document, fileName := readme.Assemble(md, narrative)
	g.recorder.ObserveStageDuration(metrics.StageAssemble, time.Since(start))

	g.logger.Printf("Usecase: README assembled (%d warnings).", len(warnings))
	return &domain.ResponseEnvelope{
		Document:    document,
		FileName:    fileName,
		Metadata:    *md,
		FilledFlags: filledFlags(narrative),
		Errors:      warnings,
	}, nil
}

func (g *Generator) recordOutcome(env *domain.ResponseEnvelope, err error) {
	switch {
	case err != nil:
		g.recorder.IncRequestOutcome(metrics.OutcomeFailed, domain.AsError(err).Code)
	case len(env.Errors) > 0:
		g.recorder.IncRequestOutcome(metrics.OutcomeDegraded, "")
		for _, w := range env.Errors {
			g.recorder.IncNonFatalError(w.Code)
		}
	default:
		g.recorder.IncRequestOutcome(metrics.OutcomeSuccess, "")
	}
}

// upstreamFailure converts a fetcher error into the client-facing gateway error.
func upstreamFailure(err error) error {
	var upstream *gateway.UpstreamError
	if !errors.As(err, &upstream) {
		return domain.NewInternalError(err)
	}
	msg := "GitHub API request failed: " + upstream.Body
	if upstream.Status != 0 {
		msg = fmt.Sprintf("GitHub API error (%d): %s", upstream.Status, upstream.Body)
	}
	return &domain.Error{
		Code:    domain.CodeGitHubAPIError,
		Kind:    domain.KindUpstream,
		Message: truncate(msg, maxMessageRunes),
		Err:     err,
	}
}

func filledFlags(n domain.NarrativeSections) domain.FilledFlags {
	features := false
	for _, f := range n.Features {
		if strings.TrimSpace(f) != "" {
			features = true
			break
		}
	}
	return domain.FilledFlags{
		domain.SectionDescription:  filled(n.Description),
		domain.SectionFeatures:     features,
		domain.SectionInstallation: filled(n.Installation),
		domain.SectionUsage:        filled(n.Usage),
	}
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

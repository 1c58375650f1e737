package narrative

import (
	"context"
	"fmt"
	"log"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

// TextGenerator is a generative text service that replies with JSON text.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports why narrative generation produced nothing.
// It is never fatal to a request.
type GenerationError struct {
	Stage string // "prompt", "request" or "parse"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("narrative generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator fills narrative sections from repository metadata.
type Generator struct {
	client TextGenerator
	logger *log.Logger
}

// NewGenerator creates a new Generator instance.
func NewGenerator(client TextGenerator, logger *log.Logger) *Generator {
	return &Generator{
		client: client,
		logger: logger,
	}
}

// Generate fails soft: the returned sections are always usable, and are empty
// whenever the returned error is non-nil. The error is a *GenerationError.
func (g *Generator) Generate(ctx context.Context, md *domain.Metadata) (sections domain.NarrativeSections, err error) {
	defer func() {
		if r := recover(); r != nil {
			sections = domain.NarrativeSections{}
			err = &GenerationError{Stage: "request", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	prompt, err := BuildPrompt(md)
	if err != nil {
		return domain.NarrativeSections{}, &GenerationError{Stage: "prompt", Err: err}
	}
	g.logger.Printf("Narrative: requesting sections (%d prompt bytes)...", len(prompt))

	reply, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return domain.NarrativeSections{}, &GenerationError{Stage: "request", Err: err}
	}

	sections, err = ParseSections(reply)
	if err != nil {
		return domain.NarrativeSections{}, &GenerationError{Stage: "parse", Err: err}
	}
	g.logger.Println("Narrative: reply parsed.")
	return sections, nil
}

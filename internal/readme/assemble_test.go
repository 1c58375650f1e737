package readme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

func ptr(s string) *string { return &s }

func fullMetadata() *domain.Metadata {
	return &domain.Metadata{
		Owner:         "acme",
		Name:          "widget",
		DisplayName:   "widget",
		Description:   ptr("A widget."),
		Languages:     []string{"Go", "Shell"},
		License:       ptr("MIT"),
		DefaultBranch: "main",
		Topics:        []string{"cli"},
		PathTree:      []string{"README.md", "cmd", "cmd/main.go"},
	}
}

func emptyMetadata() *domain.Metadata {
	return &domain.Metadata{
		Owner:     "acme",
		Name:      "widget",
		Languages: []string{},
		Topics:    []string{},
		PathTree:  []string{},
	}
}

// sectionBodies splits a document into its "## " sections.
func sectionBodies(t *testing.T, doc string) map[string]string {
	t.Helper()
	bodies := map[string]string{}
	parts := strings.Split(doc, "\n## ")
	require.Len(t, parts, 8, "title plus seven sections")
	for _, part := range parts[1:] {
		title, body, ok := strings.Cut(part, "\n\n")
		require.True(t, ok)
		bodies[title] = strings.TrimSuffix(body, "\n")
	}
	return bodies
}

func TestAssemble_FullInputs(t *testing.T) {
	narrative := domain.NarrativeSections{
		Description:  ptr("Generated description."),
		Features:     []string{"Fast", "  ", " Small "},
		Installation: ptr("go install github.com/acme/widget@latest"),
		Usage:        ptr("widget --help"),
	}
	doc, fileName := Assemble(fullMetadata(), narrative)

	expected := "# widget\n" +
		"\n## Description\n\nGenerated description.\n" +
		"\n## Features\n\n- Fast\n- Small\n" +
		"\n## Installation Guide\n\n```bash\ngo install github.com/acme/widget@latest\n```\n" +
		"\n## Usage\n\n```bash\nwidget --help\n```\n" +
		"\n## Tech Stack\n\n- Go\n- Shell\n" +
		"\n## Project Structure\n\n```text\nREADME.md\ncmd\ncmd/main.go\n```\n" +
		"\n## License Information\n\nMIT\n"
	assert.Equal(t, expected, doc)
	assert.Equal(t, "widget-README.md", fileName)
}

func TestAssemble_FallbackLaw(t *testing.T) {
	doc, _ := Assemble(emptyMetadata(), domain.NarrativeSections{})
	bodies := sectionBodies(t, doc)

	assert.True(t, strings.HasPrefix(doc, "# acme/widget\n"), "title falls back to owner/name")
	assert.Equal(t, NotSpecified, bodies[TitleDescription])
	assert.Equal(t, "- "+NotSpecified, bodies[TitleFeatures])
	assert.Equal(t, "```bash\n"+NotSpecified+"\n```", bodies[TitleInstallation])
	assert.Equal(t, NotSpecified, bodies[TitleUsage], "usage placeholder is not fenced")
	assert.Equal(t, "- "+NotSpecified, bodies[TitleTechStack])
	assert.Equal(t, NotSpecified, bodies[TitleStructure], "empty tree is not fenced")
	assert.Equal(t, NotSpecified, bodies[TitleLicense])
}

func TestAssemble_BlankNarrativeFieldsFallBack(t *testing.T) {
	narrative := domain.NarrativeSections{
		Description:  ptr("   "),
		Features:     []string{"", " \t "},
		Installation: ptr(""),
		Usage:        ptr("\n"),
	}
	doc, _ := Assemble(emptyMetadata(), narrative)
	bodies := sectionBodies(t, doc)

	assert.Equal(t, NotSpecified, bodies[TitleDescription])
	assert.Equal(t, "- "+NotSpecified, bodies[TitleFeatures])
	assert.Equal(t, NotSpecified, bodies[TitleUsage])
}

func TestAssemble_Description(t *testing.T) {
	testCases := []struct {
		name      string
		metadata  *string
		narrative *string
		expected  string
	}{
		{name: "narrative wins", metadata: ptr("A widget."), narrative: ptr("Better."), expected: "Better."},
		{name: "metadata when narrative absent", metadata: ptr("A widget."), expected: "A widget."},
		{name: "metadata when narrative blank", metadata: ptr("A widget."), narrative: ptr(" "), expected: "A widget."},
		{name: "placeholder when both absent", expected: NotSpecified},
		{name: "placeholder when metadata blank", metadata: ptr(""), expected: NotSpecified},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			md := emptyMetadata()
			md.Description = tc.metadata
			doc, _ := Assemble(md, domain.NarrativeSections{Description: tc.narrative})
			assert.Equal(t, tc.expected, sectionBodies(t, doc)[TitleDescription])
		})
	}
}

func TestAssemble_FenceIdempotence(t *testing.T) {
	testCases := []struct {
		name     string
		install  string
		expected string
	}{
		{name: "backtick fence", install: "```sh\nmake install\n```", expected: "```sh\nmake install\n```"},
		{name: "tilde fence", install: "~~~\nmake install\n~~~", expected: "~~~\nmake install\n~~~"},
		{name: "prose around a fence", install: "Run:\n```\nmake\n```", expected: "Run:\n```\nmake\n```"},
		{name: "plain command", install: "make install", expected: "```bash\nmake install\n```"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, _ := Assemble(fullMetadata(), domain.NarrativeSections{Installation: ptr(tc.install), Usage: ptr(tc.install)})
			bodies := sectionBodies(t, doc)
			assert.Equal(t, tc.expected, bodies[TitleInstallation])
			assert.Equal(t, tc.expected, bodies[TitleUsage])
		})
	}
}

func TestAssemble_IsDeterministic(t *testing.T) {
	narrative := domain.NarrativeSections{Features: []string{"A", "B"}, Usage: ptr("run")}
	first, firstName := Assemble(fullMetadata(), narrative)
	for i := 0; i < 10; i++ {
		doc, name := Assemble(fullMetadata(), narrative)
		assert.Equal(t, first, doc)
		assert.Equal(t, firstName, name)
	}
}

func TestAssemble_DoesNotMutateInputs(t *testing.T) {
	md := fullMetadata()
	narrative := domain.NarrativeSections{Features: []string{" Fast "}}
	Assemble(md, narrative)
	assert.Equal(t, fullMetadata(), md)
	assert.Equal(t, []string{" Fast "}, narrative.Features)
}

func TestAssemble_Outline(t *testing.T) {
	for name, md := range map[string]*domain.Metadata{"full": fullMetadata(), "empty": emptyMetadata()} {
		t.Run(name, func(t *testing.T) {
			doc, _ := Assemble(md, domain.NarrativeSections{Usage: ptr("# not a heading inside a fence")})
			outline := Outline(doc)
			require.Len(t, outline, 8)
			assert.Equal(t, 1, outline[0].Level)

			var titles []string
			for _, h := range outline[1:] {
				assert.Equal(t, 2, h.Level)
				titles = append(titles, h.Text)
			}
			assert.Equal(t, []string{
				TitleDescription, TitleFeatures, TitleInstallation, TitleUsage,
				TitleTechStack, TitleStructure, TitleLicense,
			}, titles)
		})
	}
}

func TestRenderHTML(t *testing.T) {
	doc, _ := Assemble(fullMetadata(), domain.NarrativeSections{})
	html, err := RenderHTML(doc)
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "<h1>widget</h1>")
	assert.Contains(t, out, "<h2>Project Structure</h2>")
	assert.Contains(t, out, `<code class="language-text">`)
	assert.Contains(t, out, "<li>Go</li>")
}

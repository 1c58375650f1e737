// Package readme renders repository metadata and narrative sections into a
// fixed-schema README document.
package readme

import (
	"strings"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

// NotSpecified is rendered wherever data is missing. Sections are never omitted.
const NotSpecified = "Not specified."

// Section titles, in document order after the title heading.
const (
	TitleDescription  = "Description"
	TitleFeatures     = "Features"
	TitleInstallation = "Installation Guide"
	TitleUsage        = "Usage"
	TitleTechStack    = "Tech Stack"
	TitleStructure    = "Project Structure"
	TitleLicense      = "License Information"
)

// section resolves a value from the inputs and formats it as the section body.
type section struct {
	title   string
	resolve func(md *domain.Metadata, n domain.NarrativeSections) []string
	format  func(values []string) string
}

var sections = []section{
	{TitleDescription, resolveDescription, paragraph},
	{TitleFeatures, resolveFeatures, bulletList},
	{TitleInstallation, resolveOptional(func(n domain.NarrativeSections) *string { return n.Installation }), fenced("bash", false)},
	{TitleUsage, resolveOptional(func(n domain.NarrativeSections) *string { return n.Usage }), fenced("bash", true)},
	{TitleTechStack, func(md *domain.Metadata, _ domain.NarrativeSections) []string { return md.Languages }, bulletList},
	{TitleStructure, func(md *domain.Metadata, _ domain.NarrativeSections) []string { return md.PathTree }, pathBlock},
	{TitleLicense, func(md *domain.Metadata, _ domain.NarrativeSections) []string { return nonBlank(md.License) }, paragraph},
}

// Assemble renders the document and its file name. It is pure and total.
func Assemble(md *domain.Metadata, n domain.NarrativeSections) (document, fileName string) {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title(md))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n## ")
		b.WriteString(s.title)
		b.WriteString("\n\n")
		b.WriteString(s.format(s.resolve(md, n)))
		b.WriteString("\n")
	}
	return b.String(), FileName(md)
}

// FileName returns the download name for a repository's README.
func FileName(md *domain.Metadata) string {
	return md.Name + "-README.md"
}

func title(md *domain.Metadata) string {
	if t := strings.TrimSpace(md.DisplayName); t != "" {
		return t
	}
	return md.Owner + "/" + md.Name
}

func resolveDescription(md *domain.Metadata, n domain.NarrativeSections) []string {
	if v := nonBlank(n.Description); v != nil {
		return v
	}
	return nonBlank(md.Description)
}

func resolveFeatures(_ *domain.Metadata, n domain.NarrativeSections) []string {
	var out []string
	for _, f := range n.Features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func resolveOptional(field func(domain.NarrativeSections) *string) func(*domain.Metadata, domain.NarrativeSections) []string {
	return func(_ *domain.Metadata, n domain.NarrativeSections) []string {
		return nonBlank(field(n))
	}
}

// nonBlank returns the trimmed value as a single-element slice, or nil.
func nonBlank(s *string) []string {
	if s == nil {
		return nil
	}
	if v := strings.TrimSpace(*s); v != "" {
		return []string{v}
	}
	return nil
}

func paragraph(values []string) string {
	if len(values) == 0 {
		return NotSpecified
	}
	return values[0]
}

func bulletList(values []string) string {
	if len(values) == 0 {
		return "- " + NotSpecified
	}
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = "- " + v
	}
	return strings.Join(lines, "\n")
}

// fenced wraps the value in a code block unless it already contains one.
// With skipPlaceholder, the NotSpecified placeholder is left bare.
func fenced(lang string, skipPlaceholder bool) func(values []string) string {
	return func(values []string) string {
		body := paragraph(values)
		if hasFence(body) || (skipPlaceholder && body == NotSpecified) {
			return body
		}
		return "```" + lang + "\n" + body + "\n```"
	}
}

func pathBlock(values []string) string {
	if len(values) == 0 {
		return NotSpecified
	}
	return "```text\n" + strings.Join(values, "\n") + "\n```"
}

func hasFence(s string) bool {
	return strings.Contains(s, "```") || strings.Contains(s, "~~~")
}

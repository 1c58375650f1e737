// Package narrative asks a generative text service for the free-text README
// sections and coerces its loosely typed reply into domain.NarrativeSections.
package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

// MaxPromptTreeEntries caps the tree excerpt sent to the model. It is smaller
// than the gateway's cap because the excerpt consumes prompt budget.
const MaxPromptTreeEntries = 120

const instructions = `You are writing sections of a README.md for a GitHub repository.
Use ONLY the repository metadata given below. Do not invent features, commands,
package names, or URLs that the metadata does not support.

Reply with a single JSON object with exactly these keys:
  "description":  string, one or two paragraphs describing the project.
  "features":     array of 4 to 8 short strings, one feature each.
  "installation": string, the commands or steps needed to install the project.
  "usage":        string, a short example of how to run or use the project.

Rules:
- Do not include markdown headings (lines starting with #) in any value.
- Do not wrap values in code fences; plain commands are fine.
- If the metadata is not enough for a key, give your best conservative guess
  based on the languages and files present.`

// excerpt is the subset of metadata the model sees.
type excerpt struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Languages     []string `json:"languages"`
	License       *string  `json:"license"`
	DefaultBranch string   `json:"defaultBranch"`
	Homepage      *string  `json:"homepage"`
	Topics        []string `json:"topics"`
	Tree          []string `json:"tree"`
}

// BuildPrompt returns the instruction block followed by the metadata excerpt as JSON.
func BuildPrompt(md *domain.Metadata) (string, error) {
	tree := md.PathTree
	if len(tree) > MaxPromptTreeEntries {
		tree = tree[:MaxPromptTreeEntries]
	}
	ex := excerpt{
		Name:          md.Owner + "/" + md.Name,
		Description:   md.Description,
		Languages:     md.Languages,
		License:       md.License,
		DefaultBranch: md.DefaultBranch,
		Homepage:      md.Homepage,
		Topics:        md.Topics,
		Tree:          tree,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ex); err != nil {
		return "", fmt.Errorf("failed to encode metadata excerpt: %w", err)
	}
	return instructions + "\n\n[REPOSITORY METADATA]\n" + buf.String(), nil
}

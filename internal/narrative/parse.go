package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/loookla/readme-generator-parth/internal/domain"
)

// ParseSections decodes a model reply into NarrativeSections.
//
// The reply must be a JSON object; anything else is an error and yields an
// empty result. Inside the object each key is validated on its own, so a
// wrongly shaped field is dropped without discarding the others. Non-string
// items inside "features" are skipped.
func ParseSections(reply string) (domain.NarrativeSections, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFence(reply)), &fields); err != nil {
		return domain.NarrativeSections{}, fmt.Errorf("reply is not a JSON object: %w", err)
	}
	if fields == nil {
		return domain.NarrativeSections{}, fmt.Errorf("reply is not a JSON object: null")
	}

	var sections domain.NarrativeSections
	sections.Description = stringField(fields, domain.SectionDescription)
	sections.Installation = stringField(fields, domain.SectionInstallation)
	sections.Usage = stringField(fields, domain.SectionUsage)
	sections.Features = stringsField(fields, domain.SectionFeatures)
	return sections, nil
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func stringsField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if isNull(item) || json.Unmarshal(item, &s) != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// stripFence removes a markdown code fence wrapped around the whole reply,
// which models sometimes add despite the JSON response type.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}

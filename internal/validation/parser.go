package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFence    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// rawVerdict mirrors the service's per-item verdict object
type rawVerdict struct {
	ValidationStatus string      `json:"validation_status"`
	ItemType         string      `json:"item_type"`
	ClaimSummary     string      `json:"claim_summary"`
	Reason           string      `json:"reason"`
	Sources          []rawSource `json:"sources"`
	Citations        []string    `json:"citations"`
	KeyEntities      []string    `json:"key_entities"`
	TimeRelevance    string      `json:"time_relevance"`
	Confidence       float64     `json:"confidence"`
}

type rawSource struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Publisher  string `json:"publisher"`
	SourceType string `json:"source_type"`
	Evidence   string `json:"evidence"`
}

// cleanFencedJSON unwraps JSON that the service returned inside markdown
// code fences. Raw JSON passes through untouched.
func cleanFencedJSON(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	if m := jsonFence.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := genericFence.FindStringSubmatch(content); m != nil {
		extracted := strings.TrimSpace(m[1])
		if extracted != "" && (extracted[0] == '{' || extracted[0] == '[') {
			return extracted
		}
	}

	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// parseVerdicts parses the positional-key response mapping ("Item 1",
// "Item 2", ...). Absent keys are the caller's per-item concern; a payload
// that does not parse at all is a batch-wide concern.
func parseVerdicts(content string) (map[string]rawVerdict, error) {
	cleaned := cleanFencedJSON(content)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON content found after cleanup")
	}

	var verdicts map[string]rawVerdict
	if err := json.Unmarshal([]byte(cleaned), &verdicts); err != nil {
		return nil, fmt.Errorf("decode verdict mapping: %w", err)
	}

	return verdicts, nil
}

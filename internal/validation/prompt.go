package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"factgate/internal/model"
)

const systemPrompt = `You are a strict fact-checking and source-attribution agent.

Task:
- For each discovered item, determine whether it contains a verifiable real-world claim.
- If it is a question/how-to/discussion/opinion (not a factual claim), classify it and mark it unverifiable.

Hard rules (non-negotiable):
1) NEVER treat Reddit (reddit.com, redd.it) as a verification source.
2) NEVER invent URLs, publishers, quotes, numbers, or dates.
3) "verified" requires at least ONE credible non-Reddit source that DIRECTLY substantiates the claim.
4) Prefer primary sources: official announcements, filings, .gov/.edu, company blogs, peer-reviewed papers.
5) If sources are only tangential OR you can't find any non-Reddit sources, use "unverifiable".

For EACH item, return a JSON object with these EXACT fields:
{
  "Item N": {
    "validation_status": "verified | debunked | unverifiable",
    "item_type": "news | discussion | question | opinion",
    "claim_summary": "one-sentence claim being validated (or null if not a claim)",
    "reason": "2-4 sentences, specific and evidence-based",
    "sources": [
      {
        "url": "https://example.com/article",
        "title": "Article title if available",
        "publisher": "Publisher name",
        "source_type": "primary | secondary",
        "evidence": "1 sentence on what this source confirms"
      }
    ],
    "citations": ["https://source1.com", "https://source2.com"],
    "key_entities": ["entity1", "entity2"],
    "time_relevance": "breaking | recent | evergreen | unclear",
    "confidence": 0.0
  }
}

Output:
- Return ONLY valid JSON matching the required schema.
- Keys must be "Item 1", "Item 2", etc., matching the input numbering.`

var (
	bracketPrefix = regexp.MustCompile(`^\s*\[[^\]]+\]\s*`)
	parenPrefix   = regexp.MustCompile(`^\s*\([^)]+\)\s*`)
	trailingNoise = regexp.MustCompile(`[!?]+$`)
)

// BuildPrompt constructs the system and user prompts for a batch, plus the
// search query derived from the first item. The positional "Item N" keys in
// the user prompt are the parsing contract the response must honor.
func BuildPrompt(items []model.Record) (system, user, query string) {
	itemTexts := make([]string, 0, len(items))
	for idx, item := range items {
		title := item.Title
		if title == "" {
			title = "Unknown title"
		}
		rawURL := item.URL
		if rawURL == "" {
			rawURL = "No URL"
		}
		itemTexts = append(itemTexts, fmt.Sprintf(
			"Item %d:\n  Title: %q\n  Subreddit: r/%s\n  Reddit URL: %s",
			idx+1, title, item.Subreddit, rawURL))
	}

	user = fmt.Sprintf(`Validate each item below. For each item:
- Extract the claim being made (if any).
- Classify item_type.
- Decide validation_status.
- Provide 1-5 non-Reddit sources with 1-sentence evidence notes.

Items:
%s`, strings.Join(itemTexts, "\n\n"))

	if len(items) > 0 {
		query = ExtractQuery(items[0].Title, items[0].Subreddit)
	}

	return systemPrompt, user, query
}

// ExtractQuery turns a post title into a concise validation query: tag
// prefixes and trailing punctuation noise are removed, long titles are cut
// at a word boundary, and news-like groupings get a "news" hint appended.
func ExtractQuery(title, subreddit string) string {
	query := bracketPrefix.ReplaceAllString(title, "")
	query = parenPrefix.ReplaceAllString(query, "")
	query = trailingNoise.ReplaceAllString(query, "")

	if len(query) > 100 {
		cut := query[:100]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		query = cut
	}

	switch strings.ToLower(subreddit) {
	case "technology", "science", "worldnews":
		query = query + " news"
	}

	return strings.TrimSpace(query)
}

// BuildSearchURL constructs a deterministic search URL approximating the
// validation query, so citations can be revisited in a browser. The API
// itself returns no share link.
func BuildSearchURL(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	params := url.Values{"q": {query}}
	return "https://www.perplexity.ai/search?" + params.Encode()
}

package model

import "time"

// Record is one discovered item moving through the pipeline.
// The ingestion fields (ID through PublishedAt) are written by Stage 1 and
// never modified here; everything else is annotated by this stage.
type Record struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Subreddit   string `json:"subreddit,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`

	// Canonical origin reference; URL is kept as an alias for older consumers
	OriginPostURL string `json:"origin_post_url,omitempty"`
	OutboundURL   string `json:"outbound_url,omitempty"`

	LinkCheck *LinkCheck `json:"link_check,omitempty"`

	ValidationStatus ValidationStatus `json:"validation_status,omitempty"`
	ItemType         ItemType         `json:"item_type,omitempty"`
	ClaimSummary     string           `json:"claim_summary,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	Sources          []Source         `json:"sources,omitempty"`
	Citations        []string         `json:"citations,omitempty"`
	KeyEntities      []string         `json:"key_entities,omitempty"`
	TimeRelevance    string           `json:"time_relevance,omitempty"`
	Confidence       float64          `json:"confidence,omitempty"`

	SearchQuery string `json:"search_query,omitempty"`
	SearchURL   string `json:"search_url,omitempty"`

	// DowngradeReason is present only when the admission policy downgraded
	// an optimistic verified verdict
	DowngradeReason string `json:"downgrade_reason,omitempty"`

	// RawResponseDebug preserves a truncated copy of an unparseable
	// service payload; never trusted as structured data
	RawResponseDebug string `json:"raw_response_debug,omitempty"`
}

// Source is one piece of external evidence for a claim. URL is always
// normalized and never belongs to the origin platform's domain set.
type Source struct {
	URL        string     `json:"url"`
	Title      string     `json:"title,omitempty"`
	Publisher  string     `json:"publisher,omitempty"`
	SourceType SourceType `json:"source_type"`
	Evidence   string     `json:"evidence,omitempty"`
}

// LinkCheck is the result of probing an origin post URL
type LinkCheck struct {
	Status       LivenessStatus `json:"status"`
	HTTPStatus   int            `json:"http_status,omitempty"`
	FinalURL     string         `json:"final_url,omitempty"`
	LandingTitle string         `json:"landing_title,omitempty"`
	CheckedAt    time.Time      `json:"checked_at"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

package model

// LivenessStatus classifies the outcome of probing an origin post URL
type LivenessStatus string

const (
	LivenessOK          LivenessStatus = "ok"           // Post reachable on the origin platform
	LivenessRedirect    LivenessStatus = "redirect"     // Landed somewhere else (often a removal page)
	LivenessNotFound    LivenessStatus = "not_found"    // HTTP 404
	LivenessForbidden   LivenessStatus = "forbidden"    // HTTP 403
	LivenessRateLimited LivenessStatus = "rate_limited" // HTTP 429
	LivenessError       LivenessStatus = "error"        // Transport failure or unexpected status
)

// ValidForVerification reports whether a liveness status allows a record
// to stay verified. Only ok and redirect qualify.
func (s LivenessStatus) ValidForVerification() bool {
	return s == LivenessOK || s == LivenessRedirect
}

// ValidationStatus is the terminal per-record validation outcome
type ValidationStatus string

const (
	StatusVerified     ValidationStatus = "verified"
	StatusDebunked     ValidationStatus = "debunked"
	StatusUnverifiable ValidationStatus = "unverifiable"

	// Failure classifications produced locally, never by the service
	StatusMissingInResponse ValidationStatus = "missing_in_response"
	StatusAPIError          ValidationStatus = "api_error"
	StatusParseError        ValidationStatus = "parse_error"
	StatusException         ValidationStatus = "exception"

	// StatusUnknown is assigned when the service proposes a value outside
	// the closed set above
	StatusUnknown ValidationStatus = "unknown"
)

// ParseValidationStatus maps a service-proposed status string onto the
// closed status set, defaulting to StatusUnknown
func ParseValidationStatus(s string) ValidationStatus {
	switch ValidationStatus(s) {
	case StatusVerified, StatusDebunked, StatusUnverifiable:
		return ValidationStatus(s)
	default:
		return StatusUnknown
	}
}

// SourceType classifies the authority of a cited source
type SourceType string

const (
	SourcePrimary   SourceType = "primary"   // Official announcements, filings, papers
	SourceSecondary SourceType = "secondary" // Press coverage, aggregators
)

// ParseSourceType maps a service-proposed source type onto the closed set,
// defaulting to secondary
func ParseSourceType(s string) SourceType {
	if SourceType(s) == SourcePrimary {
		return SourcePrimary
	}
	return SourceSecondary
}

// ItemType categorizes what kind of post a record is
type ItemType string

const (
	ItemNews       ItemType = "news"
	ItemDiscussion ItemType = "discussion"
	ItemQuestion   ItemType = "question"
	ItemOpinion    ItemType = "opinion"
	ItemUnknown    ItemType = "unknown"
)

// ParseItemType maps a service-proposed item type onto the closed set
func ParseItemType(s string) ItemType {
	switch ItemType(s) {
	case ItemNews, ItemDiscussion, ItemQuestion, ItemOpinion:
		return ItemType(s)
	default:
		return ItemUnknown
	}
}

package source

import (
	"net/url"
	"strings"
)

// trackingParams is the fixed deny-list of query parameters stripped during
// normalization: campaign tags, click identifiers, and analytics params.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_content":  true,
	"utm_term":     true,
	"ref":          true,
	"source":       true,
	"fbclid":       true,
	"gclid":        true,
	"msclkid":      true,
	"mc_cid":       true,
	"mc_eid":       true,
	"_ga":          true,
	"_gl":          true,
	"affiliate":    true,
	"partner":      true,
	"campaign":     true,
}

// NormalizeURL canonicalizes a citation URL: tracking parameters are
// removed (other parameters keep their relative order), the fragment is
// dropped, and trailing slashes are stripped from the path. Idempotent.
// On parse failure the input is returned unchanged.
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsed.RawQuery = filterQuery(parsed.RawQuery)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.RawPath != "" {
		parsed.RawPath = strings.TrimRight(parsed.RawPath, "/")
	}

	return parsed.String()
}

// filterQuery drops deny-listed parameters from a raw query string while
// preserving the order of everything else. url.Values is a map, so the
// pairs are filtered textually instead.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if trackingParams[strings.ToLower(key)] {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

// ExtractDomain returns the lower-cased host of a URL with any "www."
// prefix removed. Empty or unparsable input yields an empty string.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")

	return domain
}

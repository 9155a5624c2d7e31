package source

import (
	"sort"

	"factgate/internal/model"
)

// Reconciler merges citation streams into a deduplicated, domain-keyed
// source set, excluding anything on the origin platform
type Reconciler struct {
	origin DomainSet
}

// NewReconciler creates a reconciler for the given origin domain set
func NewReconciler(origin DomainSet) *Reconciler {
	return &Reconciler{origin: origin}
}

// Reconcile merges a flat citation URL list with richer structured sources.
// At most one source survives per normalized domain. Structured entries win
// over bare URLs; a primary entry wins over a stored secondary regardless
// of arrival order. Output is sorted by domain so artifacts stay stable,
// but callers must treat it as a set.
func (r *Reconciler) Reconcile(flatCitations []string, structured []model.Source) []model.Source {
	byDomain := make(map[string]model.Source)
	seenURLs := make(map[string]bool)

	for _, src := range structured {
		if src.URL == "" || r.origin.ContainsURL(src.URL) {
			continue
		}

		normalized := NormalizeURL(src.URL)
		if seenURLs[normalized] {
			continue
		}
		seenURLs[normalized] = true

		domain := ExtractDomain(normalized)
		src.URL = normalized

		stored, exists := byDomain[domain]
		if !exists {
			byDomain[domain] = src
		} else if src.SourceType == model.SourcePrimary && stored.SourceType != model.SourcePrimary {
			byDomain[domain] = src
		}
	}

	for _, rawURL := range flatCitations {
		if rawURL == "" || r.origin.ContainsURL(rawURL) {
			continue
		}

		normalized := NormalizeURL(rawURL)
		if seenURLs[normalized] {
			continue
		}
		seenURLs[normalized] = true

		domain := ExtractDomain(normalized)
		if _, exists := byDomain[domain]; !exists {
			byDomain[domain] = model.Source{
				URL:        normalized,
				Publisher:  domain,
				SourceType: model.SourceSecondary,
			}
		}
	}

	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	sources := make([]model.Source, 0, len(byDomain))
	for _, domain := range domains {
		sources = append(sources, byDomain[domain])
	}
	return sources
}

// FilterOrigin drops empty and origin-platform URLs from a flat citation
// list, preserving order. Used for the backward-compatible citations field.
func (r *Reconciler) FilterOrigin(urls []string) []string {
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || r.origin.ContainsURL(u) {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}

// HasExternalSource reports whether at least one source sits outside the
// origin platform. Part of the admission policy's evidence criterion.
func (r *Reconciler) HasExternalSource(sources []model.Source) bool {
	for _, src := range sources {
		if src.URL != "" && !r.origin.ContainsURL(src.URL) {
			return true
		}
	}
	return false
}

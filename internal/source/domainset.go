package source

import (
	"net/url"
	"strings"
)

// DomainSet matches hosts against a set of base domains. A host matches
// when it equals a listed domain or sits under it as a subdomain.
type DomainSet struct {
	domains map[string]bool
}

// NewDomainSet builds a DomainSet from base domains (e.g. "reddit.com")
func NewDomainSet(domains []string) DomainSet {
	set := DomainSet{domains: make(map[string]bool, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set.domains[d] = true
		}
	}
	return set
}

// ContainsHost reports whether the host belongs to the set
func (s DomainSet) ContainsHost(host string) bool {
	host = strings.ToLower(host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}

	if s.domains[host] {
		return true
	}
	for d := range s.domains {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// ContainsURL reports whether the URL's host belongs to the set.
// Unparsable or empty URLs are not in any set.
func (s DomainSet) ContainsURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return s.ContainsHost(parsed.Host)
}

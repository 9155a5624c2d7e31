package linkcheck

import (
	"context"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// titleByteLimit bounds how much of a landing page is read for its title
const titleByteLimit = 64 * 1024

// fetchTitle retrieves the <title> of the page a redirect landed on, giving
// operators context on where the platform sent us (removal notices, interstitials).
// Best-effort: any failure yields an empty string.
func (c *Checker) fetchTitle(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, titleByteLimit))
	if err != nil {
		return ""
	}

	return extractTitle(string(body))
}

// extractTitle walks the parsed document for the first <title> text node
func extractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title
}

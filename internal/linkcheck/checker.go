package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"factgate/internal/model"
	"factgate/internal/source"
)

const errMessageLimit = 100

// Checker probes origin post URLs and classifies the outcome
type Checker struct {
	httpClient   *http.Client
	userAgent    string
	origin       source.DomainSet
	robots       *RobotsGate
	cache        *probeCache
	captureTitle bool
}

// NewChecker creates a checker for the given origin domain set
func NewChecker(cfg model.HTTPConfig, origin source.DomainSet) *Checker {
	var robots *RobotsGate
	if cfg.RespectRobots {
		robots = NewRobotsGate(cfg.UserAgent, cfg.Timeout)
	}

	return &Checker{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent:    cfg.UserAgent,
		origin:       origin,
		robots:       robots,
		cache:        newProbeCache(15 * time.Minute),
		captureTitle: cfg.CaptureTitle,
	}
}

// Check probes a URL believed to reference an origin post. It never
// returns an error: every failure mode is captured in the result status.
func (c *Checker) Check(ctx context.Context, rawURL string) model.LinkCheck {
	checkedAt := time.Now().UTC()

	if rawURL == "" {
		return errorResult(checkedAt, "no URL provided")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errorResult(checkedAt, truncate(fmt.Sprintf("invalid URL: %v", err), errMessageLimit))
	}
	if !c.origin.ContainsHost(parsed.Host) {
		return errorResult(checkedAt, truncate(fmt.Sprintf("not an origin platform URL: %s", parsed.Host), errMessageLimit))
	}

	if cached, found := c.cache.Get(rawURL); found {
		return cached
	}

	if c.robots != nil && !c.robots.Allowed(ctx, rawURL) {
		result := errorResult(checkedAt, "blocked by robots.txt")
		c.cache.Set(rawURL, result)
		return result
	}

	result := c.probe(ctx, rawURL, checkedAt)
	c.cache.Set(rawURL, result)
	return result
}

func (c *Checker) probe(ctx context.Context, rawURL string, checkedAt time.Time) model.LinkCheck {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return errorResult(checkedAt, truncate(fmt.Sprintf("create request: %v", err), errMessageLimit))
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errorResult(checkedAt, "request timed out")
		}
		return errorResult(checkedAt, truncate(fmt.Sprintf("request failed: %v", err), errMessageLimit))
	}
	defer func() { _ = resp.Body.Close() }()

	finalURL := resp.Request.URL.String()
	result := model.LinkCheck{
		HTTPStatus: resp.StatusCode,
		FinalURL:   finalURL,
		CheckedAt:  checkedAt,
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if c.origin.ContainsHost(resp.Request.URL.Host) {
			result.Status = model.LivenessOK
		} else {
			// 200 on a non-origin host means the platform bounced us to
			// another page, usually a removal notice
			result.Status = model.LivenessRedirect
			if c.captureTitle {
				result.LandingTitle = c.fetchTitle(ctx, finalURL)
			}
		}
	case resp.StatusCode == http.StatusMovedPermanently,
		resp.StatusCode == http.StatusFound,
		resp.StatusCode == http.StatusTemporaryRedirect:
		result.Status = model.LivenessRedirect
	case resp.StatusCode == http.StatusNotFound:
		result.Status = model.LivenessNotFound
	case resp.StatusCode == http.StatusForbidden:
		result.Status = model.LivenessForbidden
	case resp.StatusCode == http.StatusTooManyRequests:
		result.Status = model.LivenessRateLimited
	default:
		result.Status = model.LivenessError
	}

	return result
}

func errorResult(checkedAt time.Time, message string) model.LinkCheck {
	return model.LinkCheck{
		Status:       model.LivenessError,
		CheckedAt:    checkedAt,
		ErrorMessage: message,
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// truncate bounds a message to n characters so oversized transport errors
// never bloat the persisted artifact
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

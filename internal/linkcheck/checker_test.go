package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"factgate/internal/model"
	"factgate/internal/source"
)

func newTestChecker(originDomains ...string) *Checker {
	cfg := model.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "factgate-test/0.1",
	}
	return NewChecker(cfg, source.NewDomainSet(originDomains))
}

func TestChecker_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := newTestChecker("127.0.0.1")
	result := checker.Check(context.Background(), server.URL+"/r/technology/comments/abc/")

	if result.Status != model.LivenessOK {
		t.Errorf("Expected status ok, got %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("Expected HTTP 200, got %d", result.HTTPStatus)
	}
	if result.CheckedAt.IsZero() {
		t.Error("Expected CheckedAt to be set")
	}
}

func TestChecker_StatusTable(t *testing.T) {
	tests := []struct {
		httpStatus int
		expected   model.LivenessStatus
		desc       string
	}{
		{http.StatusNotFound, model.LivenessNotFound, "404 maps to not_found"},
		{http.StatusForbidden, model.LivenessForbidden, "403 maps to forbidden"},
		{http.StatusTooManyRequests, model.LivenessRateLimited, "429 maps to rate_limited"},
		{http.StatusInternalServerError, model.LivenessError, "500 maps to error"},
		{http.StatusGone, model.LivenessError, "410 maps to error"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpStatus)
			}))
			defer server.Close()

			checker := newTestChecker("127.0.0.1")
			result := checker.Check(context.Background(), server.URL)

			if result.Status != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result.Status)
			}
			if result.HTTPStatus != tt.httpStatus {
				t.Errorf("Expected HTTP %d recorded, got %d", tt.httpStatus, result.HTTPStatus)
			}
		})
	}
}

func TestChecker_NonOriginURL(t *testing.T) {
	var called atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
	}))
	defer server.Close()

	// Origin set does not include the server host, so no probe may happen
	checker := newTestChecker("reddit.com")
	result := checker.Check(context.Background(), server.URL)

	if result.Status != model.LivenessError {
		t.Errorf("Expected error for non-origin URL, got %s", result.Status)
	}
	if !strings.Contains(result.ErrorMessage, "not an origin platform URL") {
		t.Errorf("Expected descriptive message, got %q", result.ErrorMessage)
	}
	if called.Load() != 0 {
		t.Error("Expected no network call for non-origin URL")
	}
}

func TestChecker_EmptyURL(t *testing.T) {
	checker := newTestChecker("reddit.com")
	result := checker.Check(context.Background(), "")

	if result.Status != model.LivenessError {
		t.Errorf("Expected error, got %s", result.Status)
	}
	if result.ErrorMessage != "no URL provided" {
		t.Errorf("Expected 'no URL provided', got %q", result.ErrorMessage)
	}
}

func TestChecker_OffOriginLanding(t *testing.T) {
	// Landing page that answers 200 with an HTML title
	landing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte("<html><head><title>Post removed</title></head><body></body></html>"))
		}
	}))
	defer landing.Close()

	// Origin server bounces to the landing server
	originSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, landing.URL, http.StatusFound)
	}))
	defer originSrv.Close()

	// The probe enters via localhost so only the entry host is in the
	// origin set; the landing host (127.0.0.1) is not
	originURL := strings.Replace(originSrv.URL, "127.0.0.1", "localhost", 1)

	cfg := model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "factgate-test/0.1",
		CaptureTitle: true,
	}
	checker := NewChecker(cfg, source.NewDomainSet([]string{"localhost"}))
	result := checker.Check(context.Background(), originURL)

	if result.Status != model.LivenessRedirect {
		t.Fatalf("Expected redirect for 200 landing off-origin, got %s (%s)", result.Status, result.ErrorMessage)
	}
	parsed, err := url.Parse(result.FinalURL)
	if err != nil || parsed.Host == "" {
		t.Fatalf("Expected final URL recorded, got %q", result.FinalURL)
	}
	if strings.HasPrefix(parsed.Host, "localhost") {
		t.Errorf("Expected final URL to have left the origin set, got %s", result.FinalURL)
	}
	if result.LandingTitle != "Post removed" {
		t.Errorf("Expected landing title captured, got %q", result.LandingTitle)
	}
}

func TestChecker_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := model.HTTPConfig{
		Timeout:   50 * time.Millisecond,
		UserAgent: "factgate-test/0.1",
	}
	checker := NewChecker(cfg, source.NewDomainSet([]string{"127.0.0.1"}))
	result := checker.Check(context.Background(), server.URL)

	if result.Status != model.LivenessError {
		t.Errorf("Expected error on timeout, got %s", result.Status)
	}
	if result.ErrorMessage != "request timed out" {
		t.Errorf("Expected timeout message, got %q", result.ErrorMessage)
	}
}

func TestChecker_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close() // nothing listens anymore

	checker := newTestChecker("127.0.0.1")
	result := checker.Check(context.Background(), deadURL)

	if result.Status != model.LivenessError {
		t.Errorf("Expected error on connection failure, got %s", result.Status)
	}
	if result.ErrorMessage == "" {
		t.Error("Expected an error message")
	}
	if len(result.ErrorMessage) > errMessageLimit {
		t.Errorf("Expected message bounded to %d chars, got %d", errMessageLimit, len(result.ErrorMessage))
	}
}

func TestChecker_CachesProbeResults(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := newTestChecker("127.0.0.1")
	first := checker.Check(context.Background(), server.URL)
	second := checker.Check(context.Background(), server.URL)

	if calls.Load() != 1 {
		t.Errorf("Expected one probe for repeated URL, got %d", calls.Load())
	}
	if first.Status != second.Status || !first.CheckedAt.Equal(second.CheckedAt) {
		t.Errorf("Expected cached result returned verbatim: %+v vs %+v", first, second)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		html     string
		expected string
		desc     string
	}{
		{"<html><head><title>Hello</title></head></html>", "Hello", "simple title"},
		{"<html><head><title>  spaced  </title></head></html>", "spaced", "whitespace trimmed"},
		{"<html><body><p>no title</p></body></html>", "", "missing title"},
		{"", "", "empty document"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := extractTitle(tt.html); got != tt.expected {
				t.Errorf("extractTitle = %q, want %q", got, tt.expected)
			}
		})
	}
}

package source

import (
	"testing"

	"factgate/internal/model"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(NewDomainSet([]string{"reddit.com", "redd.it"}))
}

func TestReconcile_DomainCollapse(t *testing.T) {
	r := newTestReconciler()

	structured := []model.Source{
		{URL: "https://a.com/article-1", SourceType: model.SourceSecondary},
		{URL: "https://a.com/article-2", SourceType: model.SourceSecondary},
	}

	sources := r.Reconcile(nil, structured)
	if len(sources) != 1 {
		t.Fatalf("expected one source per domain, got %d", len(sources))
	}
	if sources[0].URL != "https://a.com/article-1" {
		t.Errorf("expected first entry to win on same-type collision, got %s", sources[0].URL)
	}
}

func TestReconcile_PrimaryPrecedence(t *testing.T) {
	tests := []struct {
		structured []model.Source
		desc       string
	}{
		{
			structured: []model.Source{
				{URL: "https://a.com/blog", SourceType: model.SourceSecondary},
				{URL: "https://a.com/press-release", SourceType: model.SourcePrimary},
			},
			desc: "later primary overrides earlier secondary",
		},
		{
			structured: []model.Source{
				{URL: "https://a.com/press-release", SourceType: model.SourcePrimary},
				{URL: "https://a.com/blog", SourceType: model.SourceSecondary},
			},
			desc: "earlier primary survives later secondary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sources := newTestReconciler().Reconcile(nil, tt.structured)
			if len(sources) != 1 {
				t.Fatalf("expected one source, got %d", len(sources))
			}
			if sources[0].SourceType != model.SourcePrimary {
				t.Errorf("expected primary entry to win, got %s (%s)", sources[0].SourceType, sources[0].URL)
			}
			if sources[0].URL != "https://a.com/press-release" {
				t.Errorf("expected the primary URL, got %s", sources[0].URL)
			}
		})
	}
}

func TestReconcile_StructuredWinsOverFlat(t *testing.T) {
	r := newTestReconciler()

	flat := []string{"https://a.com/home"}
	structured := []model.Source{
		{URL: "https://a.com/article", Title: "The Article", SourceType: model.SourceSecondary},
	}

	sources := r.Reconcile(flat, structured)
	if len(sources) != 1 {
		t.Fatalf("expected one source, got %d", len(sources))
	}
	if sources[0].Title != "The Article" {
		t.Errorf("expected the structured entry to win the domain, got %+v", sources[0])
	}
}

func TestReconcile_OriginExclusion(t *testing.T) {
	r := newTestReconciler()

	flat := []string{
		"https://www.reddit.com/r/technology/comments/abc/",
		"https://i.redd.it/img.png",
	}
	structured := []model.Source{
		{URL: "https://old.reddit.com/r/science/comments/def/", SourceType: model.SourcePrimary},
	}

	sources := r.Reconcile(flat, structured)
	if len(sources) != 0 {
		t.Fatalf("expected all origin-platform URLs excluded, got %d sources", len(sources))
	}
}

func TestReconcile_FlatDedupAgainstTracking(t *testing.T) {
	// Two spellings of the same page must collapse to one source
	r := newTestReconciler()

	flat := []string{
		"https://a.com/p?utm_source=x",
		"https://a.com/p",
	}

	sources := r.Reconcile(flat, nil)
	if len(sources) != 1 {
		t.Fatalf("expected one source for domain a.com, got %d", len(sources))
	}
	if sources[0].URL != "https://a.com/p" {
		t.Errorf("expected normalized URL, got %s", sources[0].URL)
	}
}

func TestReconcile_FlatDedupAgainstTrailingSlashes(t *testing.T) {
	r := newTestReconciler()

	flat := []string{
		"https://a.com/p/",
		"https://a.com/p//",
	}

	sources := r.Reconcile(flat, nil)
	if len(sources) != 1 {
		t.Fatalf("expected slash variants to collapse to one source, got %d", len(sources))
	}
	if sources[0].URL != "https://a.com/p" {
		t.Errorf("expected normalized URL, got %s", sources[0].URL)
	}
}

func TestReconcile_FlatSynthesizesMinimalSource(t *testing.T) {
	r := newTestReconciler()

	sources := r.Reconcile([]string{"https://www.nature.com/articles/x1"}, nil)
	if len(sources) != 1 {
		t.Fatalf("expected one source, got %d", len(sources))
	}

	src := sources[0]
	if src.Publisher != "nature.com" {
		t.Errorf("expected publisher set to domain, got %q", src.Publisher)
	}
	if src.SourceType != model.SourceSecondary {
		t.Errorf("expected synthesized source to be secondary, got %s", src.SourceType)
	}
	if src.Title != "" || src.Evidence != "" {
		t.Errorf("expected no title/evidence on synthesized source, got %+v", src)
	}
}

func TestReconcile_MixedStreams(t *testing.T) {
	r := newTestReconciler()

	flat := []string{
		"https://b.com/coverage",
		"https://a.com/article?utm_campaign=feed",
		"https://www.reddit.com/r/news/comments/xyz/",
	}
	structured := []model.Source{
		{URL: "https://a.com/article", Publisher: "A News", SourceType: model.SourcePrimary},
	}

	sources := r.Reconcile(flat, structured)
	if len(sources) != 2 {
		t.Fatalf("expected two sources, got %d: %+v", len(sources), sources)
	}

	byDomain := make(map[string]model.Source)
	for _, s := range sources {
		byDomain[ExtractDomain(s.URL)] = s
	}

	if byDomain["a.com"].Publisher != "A News" {
		t.Errorf("expected structured entry for a.com, got %+v", byDomain["a.com"])
	}
	if byDomain["b.com"].Publisher != "b.com" {
		t.Errorf("expected synthesized entry for b.com, got %+v", byDomain["b.com"])
	}
}

func TestFilterOrigin(t *testing.T) {
	r := newTestReconciler()

	urls := []string{
		"https://a.com/1",
		"https://reddit.com/r/x",
		"",
		"https://b.com/2",
	}

	filtered := r.FilterOrigin(urls)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(filtered))
	}
	if filtered[0] != "https://a.com/1" || filtered[1] != "https://b.com/2" {
		t.Errorf("expected order preserved, got %v", filtered)
	}
}

func TestHasExternalSource(t *testing.T) {
	r := newTestReconciler()

	if r.HasExternalSource(nil) {
		t.Error("expected no external source for empty list")
	}
	if r.HasExternalSource([]model.Source{{URL: "https://reddit.com/r/x"}}) {
		t.Error("expected origin-only sources to not count as external")
	}
	if !r.HasExternalSource([]model.Source{{URL: "https://techcrunch.com/x"}}) {
		t.Error("expected external source to be detected")
	}
}

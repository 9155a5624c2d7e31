package validation

import (
	"context"
	"fmt"
	"log/slog"

	"factgate/internal/model"
	"factgate/internal/source"
)

// rawDebugLimit bounds how much of an unparseable payload is preserved
const rawDebugLimit = 500

// BatchClient validates a bounded batch of claims against the external
// service and merges per-item verdicts back into the records
type BatchClient struct {
	svc        Completer
	reconciler *source.Reconciler
	log        *slog.Logger
}

// NewBatchClient creates a batch client. The Completer is the mockable
// transport boundary; the reconciler collapses the verdict's citations.
func NewBatchClient(svc Completer, reconciler *source.Reconciler, log *slog.Logger) *BatchClient {
	if log == nil {
		log = slog.Default()
	}
	return &BatchClient{svc: svc, reconciler: reconciler, log: log}
}

// ValidateBatch annotates every record in the batch with a verdict,
// preserving input order. It never fails the batch: transport errors map to
// api_error, unparseable payloads to parse_error, absent positional keys to
// missing_in_response per item, and panics to exception as a last resort.
func (c *BatchClient) ValidateBatch(ctx context.Context, items []model.Record) (out []model.Record) {
	out = items
	if len(items) == 0 {
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("panic during batch validation", "panic", fmt.Sprint(r))
			for i := range items {
				markFailure(&items[i], model.StatusException)
			}
		}
	}()

	system, user, query := BuildPrompt(items)

	content, err := c.svc.Complete(ctx, system, user)
	if err != nil {
		c.log.Error("validation call failed", "error", err, "batch_size", len(items))
		for i := range items {
			markFailure(&items[i], model.StatusAPIError)
		}
		return out
	}

	verdicts, err := parseVerdicts(content)
	if err != nil {
		c.log.Error("unparseable validation response", "error", err)
		for i := range items {
			markFailure(&items[i], model.StatusParseError)
			items[i].RawResponseDebug = truncate(content, rawDebugLimit)
		}
		return out
	}

	c.merge(items, verdicts, query)
	return out
}

// merge applies verdicts onto records by positional key. A missing key
// degrades that record alone, never the batch.
func (c *BatchClient) merge(items []model.Record, verdicts map[string]rawVerdict, query string) {
	searchURL := BuildSearchURL(query)

	for i := range items {
		item := &items[i]

		if item.URL != "" {
			item.OriginPostURL = item.URL
		}
		item.SearchQuery = query
		item.SearchURL = searchURL

		v, ok := verdicts[fmt.Sprintf("Item %d", i+1)]
		if !ok {
			item.ValidationStatus = model.StatusMissingInResponse
			item.ItemType = model.ItemUnknown
			item.Reason = ""
			item.Sources = nil
			item.Citations = nil
			continue
		}

		item.ValidationStatus = model.ParseValidationStatus(v.ValidationStatus)
		// A successful verdict that omits item_type is assumed to be news;
		// unknown is reserved for unrecognized values and absent verdicts
		if v.ItemType == "" {
			item.ItemType = model.ItemNews
		} else {
			item.ItemType = model.ParseItemType(v.ItemType)
		}
		item.ClaimSummary = v.ClaimSummary
		item.Reason = v.Reason
		item.KeyEntities = v.KeyEntities
		item.TimeRelevance = v.TimeRelevance
		if item.TimeRelevance == "" {
			item.TimeRelevance = "unclear"
		}
		item.Confidence = v.Confidence

		structured := make([]model.Source, 0, len(v.Sources))
		for _, src := range v.Sources {
			if src.URL == "" {
				continue
			}
			structured = append(structured, model.Source{
				URL:        src.URL,
				Title:      src.Title,
				Publisher:  src.Publisher,
				SourceType: model.ParseSourceType(src.SourceType),
				Evidence:   src.Evidence,
			})
		}

		item.Sources = c.reconciler.Reconcile(v.Citations, structured)
		item.Citations = c.reconciler.FilterOrigin(v.Citations)
	}
}

func markFailure(item *model.Record, status model.ValidationStatus) {
	item.ValidationStatus = status
	item.Sources = nil
	item.Citations = nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

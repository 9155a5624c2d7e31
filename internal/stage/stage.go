package stage

import (
	"context"
	"fmt"
	"log/slog"

	"factgate/internal/model"
	"factgate/internal/policy"
)

// Prober checks whether an origin post URL is reachable
type Prober interface {
	Check(ctx context.Context, rawURL string) model.LinkCheck
}

// BatchValidator validates a bounded batch of records against the external
// service, annotating each with a verdict
type BatchValidator interface {
	ValidateBatch(ctx context.Context, items []model.Record) []model.Record
}

// Stage orchestrates the fact-check run: liveness checks, filtering,
// batched validation, admission policy, and final status filtering.
// Processing is sequential by design: the upstream services are throttled
// by pacing, not concurrency.
type Stage struct {
	prober    Prober
	validator BatchValidator
	policy    *policy.Policy
	cfg       model.StageConfig
	batchSize int
	log       *slog.Logger
}

// New creates a stage orchestrator from its collaborators
func New(prober Prober, validator BatchValidator, admission *policy.Policy, cfg model.StageConfig, batchSize int, log *slog.Logger) *Stage {
	if batchSize <= 0 {
		batchSize = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stage{
		prober:    prober,
		validator: validator,
		policy:    admission,
		cfg:       cfg,
		batchSize: batchSize,
		log:       log,
	}
}

// Run processes the working set end to end and returns the finalized,
// filtered records in their original relative order. An empty result after
// liveness filtering is a normal outcome, not an error; the only error
// paths are context cancellation between probes or batches.
func (s *Stage) Run(ctx context.Context, items []model.Record) ([]model.Record, error) {
	s.log.Info("processing items", "count", len(items))

	if s.cfg.CheckOriginLinks {
		if err := s.checkLinks(ctx, items); err != nil {
			return nil, err
		}
	}

	if s.cfg.DropInaccessible {
		before := len(items)
		items = dropInaccessible(items)
		if dropped := before - len(items); dropped > 0 {
			s.log.Info("dropped inaccessible origin posts", "count", dropped)
		}
	}

	if len(items) == 0 {
		s.log.Warn("no items remaining after link check filtering")
		return []model.Record{}, nil
	}

	if err := s.validateBatches(ctx, items); err != nil {
		return nil, err
	}

	for i := range items {
		items[i] = s.policy.Decide(items[i])
	}
	s.logDowngrades(items)

	final := s.filterStatuses(items)
	s.log.Info("validation complete",
		"kept", len(final),
		"total", len(items),
		"keep_statuses", s.cfg.KeepStatuses)

	return final, nil
}

// checkLinks probes every record sequentially with inter-probe pacing
func (s *Stage) checkLinks(ctx context.Context, items []model.Record) error {
	s.log.Info("checking origin link accessibility")

	probePacer := newPacer(s.cfg.ProbeDelay)
	for i := range items {
		if err := probePacer.Wait(ctx); err != nil {
			return fmt.Errorf("link check aborted: %w", err)
		}
		result := s.prober.Check(ctx, items[i].URL)
		items[i].LinkCheck = &result
	}
	return nil
}

// validateBatches partitions the working set into fixed-size batches in
// original order and validates them with inter-batch pacing. Batches are
// subslices, so verdicts land on the records in place.
func (s *Stage) validateBatches(ctx context.Context, items []model.Record) error {
	total := (len(items) + s.batchSize - 1) / s.batchSize
	s.log.Info("validating items", "count", len(items), "batch_size", s.batchSize)

	batchPacer := newPacer(s.cfg.BatchDelay)
	for i, num := 0, 1; i < len(items); i, num = i+s.batchSize, num+1 {
		if err := batchPacer.Wait(ctx); err != nil {
			return fmt.Errorf("validation aborted: %w", err)
		}

		end := i + s.batchSize
		if end > len(items) {
			end = len(items)
		}

		s.log.Info("processing batch", "batch", num, "total", total)
		s.validator.ValidateBatch(ctx, items[i:end])
	}
	return nil
}

func (s *Stage) logDowngrades(items []model.Record) {
	histogram := make(map[string]int)
	downgraded := 0
	for _, item := range items {
		if item.DowngradeReason != "" {
			histogram[item.DowngradeReason]++
			downgraded++
		}
	}
	if downgraded > 0 {
		s.log.Info("downgraded items", "count", downgraded, "reasons", histogram)
	}
}

func (s *Stage) filterStatuses(items []model.Record) []model.Record {
	keep := make(map[string]bool, len(s.cfg.KeepStatuses))
	for _, status := range s.cfg.KeepStatuses {
		keep[status] = true
	}

	final := make([]model.Record, 0, len(items))
	for _, item := range items {
		if keep[string(item.ValidationStatus)] {
			final = append(final, item)
		}
	}
	return final
}

// dropInaccessible removes records whose origin post is conclusively gone.
// Rate-limited and errored probes survive: the admission policy handles
// them without discarding the record outright.
func dropInaccessible(items []model.Record) []model.Record {
	kept := make([]model.Record, 0, len(items))
	for _, item := range items {
		if item.LinkCheck != nil {
			switch item.LinkCheck.Status {
			case model.LivenessNotFound, model.LivenessForbidden:
				continue
			}
		}
		kept = append(kept, item)
	}
	return kept
}

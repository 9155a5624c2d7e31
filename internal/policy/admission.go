package policy

import (
	"strings"

	"factgate/internal/model"
	"factgate/internal/source"
)

// Downgrade reasons recorded on records that fail an acceptance criterion
const (
	ReasonNoExternalSources = "no_external_sources"
	ReasonVague             = "vague_reason"
	livenessReasonPrefix    = "reddit_link_"
)

// Policy applies the verification acceptance criteria. A record the service
// optimistically marked verified stays verified only when its origin post
// is reachable, it carries external evidence (strict mode), and the
// verdict's reasoning is substantive. Any other status passes through
// untouched: downgrading is one-directional.
type Policy struct {
	strict       bool
	vagueMarkers []string
	reconciler   *source.Reconciler
}

// New creates an admission policy
func New(cfg model.PolicyConfig, reconciler *source.Reconciler) *Policy {
	return &Policy{
		strict:       cfg.StrictVerification,
		vagueMarkers: cfg.VagueMarkers,
		reconciler:   reconciler,
	}
}

// Decide finalizes a record's validation status. Pure and total: the input
// record is returned annotated, never re-derived later in the same run.
// Criteria are ordered cheapest-first and short-circuit on the first
// failure, recording a machine-readable downgrade reason.
func (p *Policy) Decide(rec model.Record) model.Record {
	if rec.ValidationStatus != model.StatusVerified {
		return rec
	}

	// Criterion 1: origin post must be reachable
	linkStatus := model.LivenessError
	if rec.LinkCheck != nil {
		linkStatus = rec.LinkCheck.Status
	}
	if !linkStatus.ValidForVerification() {
		rec.ValidationStatus = model.StatusUnverifiable
		rec.DowngradeReason = livenessReasonPrefix + string(linkStatus)
		return rec
	}

	// Criterion 2: at least one non-origin source (strict mode only)
	if p.strict && !p.reconciler.HasExternalSource(rec.Sources) {
		rec.ValidationStatus = model.StatusUnverifiable
		rec.DowngradeReason = ReasonNoExternalSources
		return rec
	}

	// Criterion 3: the verdict's reasoning must be substantive
	reason := strings.ToLower(rec.Reason)
	for _, marker := range p.vagueMarkers {
		if strings.Contains(reason, marker) {
			rec.ValidationStatus = model.StatusUnverifiable
			rec.DowngradeReason = ReasonVague
			return rec
		}
	}

	return rec
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Phase identifies one stage of the fixed five-stage research pipeline.
type Phase string

const (
	PhaseEntityIdentification Phase = "entity-identification"
	PhaseSecurityAnalysis     Phase = "security-analysis"
	PhaseComplianceCheck      Phase = "compliance-check"
	PhaseSourceGathering      Phase = "source-gathering"
	PhaseResearchSynthesis    Phase = "research-synthesis"
)

// PhaseOrder is the fixed forward-only ordering of research phases.
var PhaseOrder = []Phase{
	PhaseEntityIdentification,
	PhaseSecurityAnalysis,
	PhaseComplianceCheck,
	PhaseSourceGathering,
	PhaseResearchSynthesis,
}

// PhaseStatus is the lifecycle state of a single phase.
type PhaseStatus string

const (
	PhasePending  PhaseStatus = "pending"
	PhaseActive   PhaseStatus = "active"
	PhaseComplete PhaseStatus = "complete"
)

// PhaseState pairs a phase with its current status. CompletedAt is set
// when the phase transitions to complete and never changes afterwards.
type PhaseState struct {
	Phase       Phase       `json:"phase" yaml:"phase"`
	Status      PhaseStatus `json:"status" yaml:"status"`
	CompletedAt time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Progress is a point-in-time snapshot of reconstructed research
// progress: the phase state machine plus facts extracted opportunistically
// from the event stream. Partial progress accumulated before a stream
// failure remains valid.
type Progress struct {
	// Phases lists all five phases in pipeline order.
	Phases []PhaseState `json:"phases" yaml:"phases"`

	// Findings are deduplicated vulnerability identifiers seen in event
	// payloads, in insertion order.
	Findings []string `json:"findings,omitempty" yaml:"findings,omitempty"`

	// Sources are deduplicated absolute URLs seen in event payloads, in
	// insertion order, capped at ten.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// TrustScore is the most recent trust score observed in the stream.
	// Valid only when HasTrustScore is true.
	TrustScore    int  `json:"trust_score,omitempty" yaml:"trust_score,omitempty"`
	HasTrustScore bool `json:"has_trust_score,omitempty" yaml:"has_trust_score,omitempty"`

	// ResearchBrief is the final synthesized report text, captured
	// verbatim from the terminal event payload.
	ResearchBrief string `json:"research_brief,omitempty" yaml:"research_brief,omitempty"`

	// Events counts the decoded stream events processed so far.
	Events int `json:"events" yaml:"events"`
}

// PhaseStatusOf returns the status of the named phase, or PhasePending
// when the phase is unknown.
func (p Progress) PhaseStatusOf(phase Phase) PhaseStatus {
	for _, ps := range p.Phases {
		if ps.Phase == phase {
			return ps.Status
		}
	}
	return PhasePending
}

// Done reports whether every phase has completed.
func (p Progress) Done() bool {
	for _, ps := range p.Phases {
		if ps.Status != PhaseComplete {
			return false
		}
	}
	return len(p.Phases) > 0
}

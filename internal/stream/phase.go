// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"strings"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// transitionRule maps node-name keywords to the phase they advance.
type transitionRule struct {
	keywords []string
	target   types.Phase
}

// transitionTable is the declarative dispatch from opaque pipeline node
// names to research phases, in pipeline order. Node naming upstream is
// heuristic, so matching is case-insensitive substring containment.
var transitionTable = []transitionRule{
	{[]string{"entity", "identify"}, types.PhaseEntityIdentification},
	{[]string{"security", "vuln", "cve"}, types.PhaseSecurityAnalysis},
	{[]string{"compliance", "cert"}, types.PhaseComplianceCheck},
	{[]string{"source", "search", "web"}, types.PhaseSourceGathering},
	{[]string{"write", "brief"}, types.PhaseResearchSynthesis},
}

// InferTarget maps a pipeline node name to the phase it advances.
// Composite node names can match several rules ("write_research_brief"
// contains both "search" and "brief"); the furthest-forward match wins,
// which keeps inference consistent with the forward-only phase order.
// Returns false when no keyword matches.
func InferTarget(nodeName string) (types.Phase, bool) {
	name := strings.ToLower(nodeName)
	var (
		target types.Phase
		found  bool
	)
	for _, rule := range transitionTable {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				target = rule.target
				found = true
				break
			}
		}
	}
	return target, found
}

// phaseIndex returns the position of a phase in the fixed order, or -1.
func phaseIndex(p types.Phase) int {
	for i, ph := range types.PhaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stream consumes the research backend's line-delimited event
// stream and incrementally reconstructs a progress model: a forward-only
// phase state machine, deduplicated finding and source sets, a trust
// score, and the final synthesized report text.
package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// dataMarker prefixes frames that carry JSON payloads. Blank lines and
// comment/heartbeat lines (":" prefix) are discarded.
const dataMarker = "data:"

// doneSentinel is the end-of-stream marker some backends emit.
const doneSentinel = "[DONE]"

// Reconstructor rebuilds research progress from arbitrarily chunked
// stream bytes. It is driven by a single consumer via Consume/Finish;
// Snapshot may be called concurrently. It never panics on malformed
// input: bad frames are logged to the warning writer and skipped, and
// partial state accumulated before a failure stays visible.
type Reconstructor struct {
	mu sync.Mutex

	buf    []byte
	phases []types.PhaseState

	findingSeen map[string]bool
	findings    []string
	sourceSeen  map[string]bool
	sources     []string

	trustScore int
	hasScore   bool
	brief      string
	events     int

	warn io.Writer
	now  func() time.Time

	// OnUpdate, when set, is invoked with a fresh snapshot after every
	// decoded event. Called on the consumer goroutine.
	OnUpdate func(types.Progress)
}

// NewReconstructor returns a reconstructor with all phases pending.
// Warnings about malformed frames go to warn; pass io.Discard to
// silence them.
func NewReconstructor(warn io.Writer) *Reconstructor {
	if warn == nil {
		warn = io.Discard
	}
	phases := make([]types.PhaseState, len(types.PhaseOrder))
	for i, p := range types.PhaseOrder {
		phases[i] = types.PhaseState{Phase: p, Status: types.PhasePending}
	}
	return &Reconstructor{
		phases:      phases,
		findingSeen: make(map[string]bool),
		sourceSeen:  make(map[string]bool),
		warn:        warn,
		now:         time.Now,
	}
}

// Consume appends a chunk of stream bytes and processes every complete
// line it closes. The trailing partial line, if any, is retained for
// the next chunk and never parsed prematurely, so reconstruction is
// independent of how the transport fragments the stream.
func (r *Reconstructor) Consume(chunk []byte) {
	r.mu.Lock()
	r.buf = append(r.buf, chunk...)

	var snapshots []types.Progress
	for {
		idx := bytes.IndexByte(r.buf, '\n')
		if idx < 0 {
			break
		}
		line := string(r.buf[:idx])
		r.buf = r.buf[idx+1:]
		if r.processLine(line) {
			snapshots = append(snapshots, r.snapshotLocked())
		}
	}
	r.mu.Unlock()

	r.notify(snapshots)
}

// Finish flushes the buffered tail as a final line. Call once at clean
// end-of-stream.
func (r *Reconstructor) Finish() {
	r.mu.Lock()
	var snapshots []types.Progress
	if len(r.buf) > 0 {
		line := string(r.buf)
		r.buf = nil
		if r.processLine(line) {
			snapshots = append(snapshots, r.snapshotLocked())
		}
	}
	r.mu.Unlock()

	r.notify(snapshots)
}

// Snapshot returns a copy of the current progress state.
func (r *Reconstructor) Snapshot() types.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Reconstructor) notify(snapshots []types.Progress) {
	if r.OnUpdate == nil {
		return
	}
	for _, s := range snapshots {
		r.OnUpdate(s)
	}
}

// processLine handles one complete line and reports whether it decoded
// an event. Caller holds the lock.
func (r *Reconstructor) processLine(line string) bool {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimSpace(line)

	// Blank lines and heartbeat comments are frame separators, not data.
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return false
	}
	if !strings.HasPrefix(trimmed, dataMarker) {
		return false
	}

	payload := strings.TrimSpace(trimmed[len(dataMarker):])
	if payload == "" || payload == doneSentinel {
		return false
	}

	// One frame: a JSON object whose single top-level key names the
	// pipeline node that just ran. A decode failure skips the frame,
	// never the stream.
	var frame map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &frame); err != nil || len(frame) == 0 {
		fmt.Fprintf(r.warn, "warning: skipping malformed frame: %.80s\n", trimmed)
		return false
	}

	nodes := make([]string, 0, len(frame))
	for node := range frame {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		r.applyEvent(node, frame[node], payload)
	}
	return true
}

// applyEvent advances the phase machine and runs opportunistic
// extraction for a single decoded event. Caller holds the lock.
func (r *Reconstructor) applyEvent(node string, payload json.RawMessage, rawText string) {
	r.events++

	if target, ok := InferTarget(node); ok {
		r.advance(target)
	}

	for _, cve := range extractCVEs(rawText) {
		if len(r.findings) >= maxFindings {
			break
		}
		if !r.findingSeen[cve] {
			r.findingSeen[cve] = true
			r.findings = append(r.findings, cve)
		}
	}

	for _, u := range extractURLs(rawText) {
		if len(r.sources) >= maxSources {
			break
		}
		if !r.sourceSeen[u] {
			r.sourceSeen[u] = true
			r.sources = append(r.sources, u)
		}
	}

	if score, ok := extractTrustScore(rawText); ok {
		r.trustScore = score
		r.hasScore = true
	}

	if brief, ok := terminalPayload(payload); ok {
		r.brief = brief
		r.advance(types.PhaseResearchSynthesis)
		r.complete(len(r.phases) - 1)
	}
}

// terminalPayload extracts the final synthesized report text when the
// event payload carries it.
func terminalPayload(payload json.RawMessage) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", false
	}
	for _, key := range []string{"final_report", "research_brief"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || text == "" {
			continue
		}
		return text, true
	}
	return "", false
}

// advance moves the phase machine toward target: every earlier phase is
// completed and the target becomes active unless it already completed.
// Transitions only ever move a phase strictly forward, so a stale or
// duplicate event can never revert completed work.
func (r *Reconstructor) advance(target types.Phase) {
	idx := phaseIndex(target)
	if idx < 0 {
		return
	}
	for i := 0; i < idx; i++ {
		r.complete(i)
	}
	if r.phases[idx].Status == types.PhasePending {
		r.phases[idx].Status = types.PhaseActive
	}
}

// complete marks phase i complete, recording the completion timestamp
// on the first transition only.
func (r *Reconstructor) complete(i int) {
	if r.phases[i].Status == types.PhaseComplete {
		return
	}
	r.phases[i].Status = types.PhaseComplete
	r.phases[i].CompletedAt = r.now()
}

func (r *Reconstructor) snapshotLocked() types.Progress {
	p := types.Progress{
		Phases:        make([]types.PhaseState, len(r.phases)),
		TrustScore:    r.trustScore,
		HasTrustScore: r.hasScore,
		ResearchBrief: r.brief,
		Events:        r.events,
	}
	copy(p.Phases, r.phases)
	if len(r.findings) > 0 {
		p.Findings = append([]string(nil), r.findings...)
	}
	if len(r.sources) > 0 {
		p.Sources = append([]string(nil), r.sources...)
	}
	return p
}

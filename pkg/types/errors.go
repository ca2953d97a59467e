// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared across stages. Callers classify failures with
// errors.Is; stages add context with fmt.Errorf and %w.
var (
	// ErrInvalidInput marks an empty or malformed query, rejected
	// before any I/O is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a cache miss where the caller required a hit,
	// such as an access-record write or a report requested by key.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable marks an unreachable or misconfigured
	// collaborator (entity extraction, research backend). Retry policy
	// belongs to the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrStreamAborted marks caller-initiated cancellation of a
	// research stream. It is a normal termination path, not a failure;
	// no cache entry is written for an aborted run.
	ErrStreamAborted = errors.New("stream aborted")
)

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CacheEntry is a stored trust report keyed by normalized entity string.
// An entry is written exactly once, after a research run completes
// successfully; it is read many times and never deleted by this layer.
type CacheEntry struct {
	// Key is the normalized (trimmed, lower-cased) lookup key.
	Key string `json:"key" yaml:"key"`

	// CachedAt is when the entry was written. Staleness policy, if any,
	// is layered on top of this timestamp by the caller.
	CachedAt time.Time `json:"cached_at" yaml:"cached_at"`

	// Query is the original query text that produced the report.
	Query string `json:"query" yaml:"query"`

	// Report is the structured trust report.
	Report *Report `json:"report" yaml:"report"`
}

// AccessRecord is one row of a user's append-only report-view history.
type AccessRecord struct {
	// ID is a unique identifier for the record.
	ID string `json:"id" yaml:"id"`

	// UserID identifies whose history this record belongs to.
	UserID string `json:"user_id" yaml:"user_id"`

	// EntityKey is the cache key of the viewed report.
	EntityKey string `json:"entity_key" yaml:"entity_key"`

	// AccessedAt is when the report was viewed.
	AccessedAt time.Time `json:"accessed_at" yaml:"accessed_at"`

	// TrustScore, ProductName, and Vendor snapshot the report at view
	// time; they are not updated if the report changes later.
	TrustScore  int    `json:"trust_score" yaml:"trust_score"`
	ProductName string `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	Vendor      string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
}

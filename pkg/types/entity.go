// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Entity is a canonical product or vendor record from the registry.
// Registry records are looked up during resolution and never mutated.
type Entity struct {
	// ID is the registry identifier (e.g. "slack-technologies").
	ID string `json:"id" yaml:"id"`

	// Name is the canonical display name (e.g. "Slack Technologies, LLC").
	Name string `json:"name" yaml:"name"`

	// Aliases are alternate names the entity is known by.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// CacheID is an optional explicit cache key for this entity's report.
	// When set it takes precedence over ID and Name during cache lookup.
	CacheID string `json:"cache_id,omitempty" yaml:"cache_id,omitempty"`
}

// Registry is an ordered collection of entities. Iteration order is the
// file order of the source document; fuzzy-match ties resolve to the
// earliest entry, so the order must stay stable.
type Registry struct {
	Entities []Entity `json:"entities" yaml:"entities"`
}

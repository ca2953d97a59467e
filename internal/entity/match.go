// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"strings"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// Strategy matches a normalized key against registry entities. Each
// strategy scans in registry order and returns the first entity it
// accepts, or nil. Strategies are tried in sequence so additional ones
// (e.g. token-set similarity) can be appended without restructuring
// callers.
type Strategy interface {
	Name() string
	Match(key string, entities []types.Entity) *types.Entity
}

// DefaultStrategies is the standard two-phase fallback: exact name or
// alias equality, then bidirectional substring containment.
var DefaultStrategies = []Strategy{exactStrategy{}, containmentStrategy{}}

// Match resolves a normalized key against the registry, trying each
// strategy in order. A nil result is a normal miss, not a failure; ties
// within a strategy resolve to the earliest registry entry.
func Match(key string, entities []types.Entity, strategies []Strategy) *types.Entity {
	if key == "" {
		return nil
	}
	for _, s := range strategies {
		if e := s.Match(key, entities); e != nil {
			return e
		}
	}
	return nil
}

// exactStrategy accepts an entity whose normalized canonical name or
// alias equals the key.
type exactStrategy struct{}

func (exactStrategy) Name() string { return "exact" }

func (exactStrategy) Match(key string, entities []types.Entity) *types.Entity {
	for i := range entities {
		if names := entityNames(&entities[i]); containsString(names, key) {
			return &entities[i]
		}
	}
	return nil
}

// containmentStrategy accepts an entity whose name contains the key or
// whose key contains the name, in either direction. "slack" matches
// "slack technologies, llc" and vice versa.
type containmentStrategy struct{}

func (containmentStrategy) Name() string { return "containment" }

func (containmentStrategy) Match(key string, entities []types.Entity) *types.Entity {
	for i := range entities {
		for _, name := range entityNames(&entities[i]) {
			if strings.Contains(name, key) || strings.Contains(key, name) {
				return &entities[i]
			}
		}
	}
	return nil
}

// entityNames returns the entity's canonical name and aliases, normalized.
func entityNames(e *types.Entity) []string {
	names := make([]string, 0, 1+len(e.Aliases))
	names = append(names, strings.ToLower(strings.TrimSpace(e.Name)))
	for _, a := range e.Aliases {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			names = append(names, a)
		}
	}
	return names
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

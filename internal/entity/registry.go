// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// LoadRegistry reads the known-entity registry from a YAML file. The
// slice preserves file order, which is the documented fuzzy-match
// tie-break order. A missing path returns an empty registry rather than
// an error; resolution degrades to cache-key-only lookups.
func LoadRegistry(path string) (*types.Registry, error) {
	if path == "" {
		return &types.Registry{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.Registry{}, nil
		}
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}

	var reg types.Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}

	for i, e := range reg.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("registry %s: entry %d has no name", path, i)
		}
	}

	return &reg, nil
}

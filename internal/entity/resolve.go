// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"fmt"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// Resolution is the outcome of resolving raw query text.
type Resolution struct {
	// Query is the original raw query.
	Query string

	// Key is the normalized cache lookup key.
	Key string

	// Hash reports whether the query was a file digest. Hash queries
	// skip the extraction call.
	Hash bool

	// Extracted is the entity name returned by the extractor, empty
	// when extraction was bypassed.
	Extracted string

	// Entity is the matched registry record, nil on a normal miss.
	Entity *types.Entity
}

// Resolve turns raw query text into a normalized key and, when
// possible, a known registry entity. Empty input fails with
// ErrInvalidInput before any I/O. Hash queries bypass extraction; for
// everything else the extractor (when configured) supplies the
// canonical name that is then matched against the registry.
func Resolve(ctx context.Context, raw string, reg *types.Registry, ex Extractor) (*Resolution, error) {
	key, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Query: raw, Key: key}

	if IsHash(key) {
		res.Hash = true
		return res, nil
	}

	if ex != nil {
		name, err := ex.ExtractEntity(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("extracting entity: %w", err)
		}
		res.Extracted = name
		if key, err = Normalize(name); err != nil {
			return nil, err
		}
		res.Key = key
	}

	if reg != nil {
		res.Entity = Match(res.Key, reg.Entities, DefaultStrategies)
	}

	return res, nil
}

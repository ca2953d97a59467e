// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entity resolves free-text queries to normalized cache keys
// and known registry entities.
package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// hashPattern matches MD5 (32), SHA-1 (40), and SHA-256 (64) hex digests.
var hashPattern = regexp.MustCompile(`^(?:[0-9a-fA-F]{32}|[0-9a-fA-F]{40}|[0-9a-fA-F]{64})$`)

// Normalize canonicalizes raw query text into a lookup key: surrounding
// whitespace stripped, lower-cased. Hash-like tokens keep their content
// but are still case-folded, so case-insensitive equality is the sole
// matching criterion at the cache layer.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty query: %w", types.ErrInvalidInput)
	}
	return strings.ToLower(trimmed), nil
}

// IsHash reports whether the (trimmed) input is a 32, 40, or 64
// hex-character file digest. Hash queries bypass entity extraction.
func IsHash(s string) bool {
	return hashPattern.MatchString(strings.TrimSpace(s))
}

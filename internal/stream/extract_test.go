// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCVEs(t *testing.T) {
	text := `Found CVE-2024-1234 and cve-2023-98765 in the changelog; CVE-2024-1234 recurs.`
	got := extractCVEs(text)
	assert.Equal(t, []string{"CVE-2024-1234", "CVE-2023-98765", "CVE-2024-1234"}, got)
}

func TestExtractCVEs_RejectsShortSequence(t *testing.T) {
	assert.Empty(t, extractCVEs("CVE-2024-123 is not a valid identifier"))
}

func TestExtractURLs(t *testing.T) {
	text := `See https://example.com/security, and ("https://trust.example.org/report").`
	got := extractURLs(text)
	assert.Equal(t, []string{"https://example.com/security", "https://trust.example.org/report"}, got)
}

func TestExtractURLs_StripsJSONPunctuation(t *testing.T) {
	text := `{"url": "https://nvd.nist.gov/vuln/detail/CVE-2024-1234"}`
	got := extractURLs(text)
	require.Len(t, got, 1)
	assert.Equal(t, "https://nvd.nist.gov/vuln/detail/CVE-2024-1234", got[0])
}

func TestExtractTrustScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
		ok   bool
	}{
		{"json field", `{"trust_score": 78}`, 78, true},
		{"prose", "the trust score is 91 out of 100", 91, true},
		{"escaped json", `"trust_score\": 64`, 64, true},
		{"zero", `{"trust_score": 0}`, 0, true},
		{"hundred", `{"trust_score": 100}`, 100, true},
		{"over range", `{"trust_score": 250}`, 0, false},
		{"absent", "no score here", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractTrustScore(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

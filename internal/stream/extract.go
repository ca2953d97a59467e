// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"regexp"
	"strconv"
	"strings"
)

// Opportunistic extraction patterns applied to the raw JSON text of
// every event. This is best-effort enrichment, not the system of
// record (the final synthesized report is): zero matches is fine and
// extraction never fails the stream.
var (
	cvePattern        = regexp.MustCompile(`(?i)CVE-\d{4}-\d{4,}`)
	urlPattern        = regexp.MustCompile(`https?://[^\s"'<>\\]+`)
	trustScorePattern = regexp.MustCompile(`(?i)trust[_ ]?score\\?"?\D{0,16}?(\d{1,3})`)
)

// maxSources caps the source URL set; maxFindings caps the findings set.
const (
	maxSources  = 10
	maxFindings = 50
)

// extractCVEs returns the vulnerability identifiers in text, upper-cased
// for stable dedup.
func extractCVEs(text string) []string {
	matches := cvePattern.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.ToUpper(m)
	}
	return matches
}

// extractURLs returns the absolute URLs in text, with trailing JSON and
// sentence punctuation stripped.
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.TrimRight(m, `",.;)]}`)
	}
	return matches
}

// extractTrustScore returns the first trust-score value in text, if any.
// Values outside 0-100 are ignored.
func extractTrustScore(text string) (int, bool) {
	m := trustScorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil || score < 0 || score > 100 {
		return 0, false
	}
	return score, true
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/trust-engine/internal/httputil"
)

// extractionPromptTmpl is the prompt sent to the Claude API to pull a
// single entity name out of free-form query text. The contract forbids
// commentary: the response is either a verbatim hash or a best-guess
// canonical product name, nothing else.
var extractionPromptTmpl = template.Must(template.New("identify").Parse(`You are an entity extraction system for a software trust assessment service. Given a user query, respond with exactly one of:

- If the query contains a file hash (a 32, 40, or 64 hex-character string), respond with that hash verbatim.
- Otherwise, respond with the canonical name of the software product or vendor the query refers to (e.g. "Slack", "Notion", "1Password").

Respond with the name or hash only. Do not add commentary, punctuation, or explanation.

Query:
{{.Query}}
`))

// Extractor abstracts the entity extraction call so tests can supply a
// mock and hash queries can bypass it entirely.
type Extractor interface {
	ExtractEntity(ctx context.Context, query string) (string, error)
}

// ClaudeExtractor calls the Claude API to extract an entity name from
// query text.
type ClaudeExtractor struct {
	APIKey string
	Model  string
	Client *http.Client
}

// ExtractEntity sends the extraction prompt and returns the trimmed
// single-line response.
func (c *ClaudeExtractor) ExtractEntity(ctx context.Context, query string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := httputil.CallClaude(ctx, c.Client, c.APIKey, c.Model, buf.String())
	if err != nil {
		return "", err
	}

	// The contract is a bare name or hash; keep only the first line in
	// case the model wraps it anyway.
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		return "", fmt.Errorf("extraction returned empty entity name")
	}
	return line, nil
}

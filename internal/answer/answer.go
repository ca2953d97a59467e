// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer responds to user questions about a cached trust
// report, grounded strictly in the report content.
package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/trust-engine/internal/httputil"
	"github.com/pdiddy/trust-engine/pkg/types"
)

// InsufficientInformation is the sentinel response when the report does
// not contain enough evidence to answer the question. The prompt
// contract requires the model to return it verbatim instead of
// introducing facts from outside the supplied context.
const InsufficientInformation = "insufficient information"

// answerPromptTmpl grounds the model in the cached report JSON and
// forbids outside knowledge.
var answerPromptTmpl = template.Must(template.New("answer").Parse(`You are answering a question about a software trust assessment report. Use only the report below as your source of truth. Do not introduce facts that are not in the report.

If the report does not contain enough information to answer, respond with exactly: {{.Sentinel}}

Report (JSON):
{{.Report}}

Question:
{{.Question}}
`))

// Answerer abstracts the question-answering call so tests can supply a mock.
type Answerer interface {
	Answer(ctx context.Context, report *types.Report, question string) (string, error)
}

// ClaudeAnswerer answers report questions through the Claude API.
type ClaudeAnswerer struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Answer renders the grounding prompt and returns the model's response.
// An empty question is rejected with ErrInvalidInput before any I/O.
func (c *ClaudeAnswerer) Answer(ctx context.Context, report *types.Report, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty question: %w", types.ErrInvalidInput)
	}
	if report == nil {
		return "", fmt.Errorf("no report to answer from: %w", types.ErrInvalidInput)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report context: %w", err)
	}

	var buf bytes.Buffer
	err = answerPromptTmpl.Execute(&buf, struct {
		Sentinel string
		Report   string
		Question string
	}{
		Sentinel: InsufficientInformation,
		Report:   string(reportJSON),
		Question: question,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := httputil.CallClaude(ctx, c.Client, c.APIKey, c.Model, buf.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// IsInsufficient reports whether a response is the explicit
// insufficient-information sentinel.
func IsInsufficient(response string) bool {
	return strings.EqualFold(strings.TrimSpace(response), InsufficientInformation)
}

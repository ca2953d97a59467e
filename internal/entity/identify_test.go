// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trust-engine/internal/httputil"
)

// stubClaude serves a canned Messages API text response.
func stubClaude(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
}

func TestClaudeExtractor_ReturnsEntityName(t *testing.T) {
	ts := stubClaude(t, "Slack")
	defer ts.Close()

	old := httputil.ClaudeAPIURL
	httputil.ClaudeAPIURL = ts.URL
	defer func() { httputil.ClaudeAPIURL = old }()

	ex := &ClaudeExtractor{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	name, err := ex.ExtractEntity(context.Background(), "is slack safe for enterprise use?")
	require.NoError(t, err)
	assert.Equal(t, "Slack", name)
}

func TestClaudeExtractor_KeepsFirstLineOnly(t *testing.T) {
	ts := stubClaude(t, "Notion\nThe query refers to the Notion workspace app.")
	defer ts.Close()

	old := httputil.ClaudeAPIURL
	httputil.ClaudeAPIURL = ts.URL
	defer func() { httputil.ClaudeAPIURL = old }()

	ex := &ClaudeExtractor{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	name, err := ex.ExtractEntity(context.Background(), "tell me about notion")
	require.NoError(t, err)
	assert.Equal(t, "Notion", name)
}

func TestClaudeExtractor_EmptyResponseIsError(t *testing.T) {
	ts := stubClaude(t, "   \n")
	defer ts.Close()

	old := httputil.ClaudeAPIURL
	httputil.ClaudeAPIURL = ts.URL
	defer func() { httputil.ClaudeAPIURL = old }()

	ex := &ClaudeExtractor{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	_, err := ex.ExtractEntity(context.Background(), "???")
	assert.ErrorContains(t, err, "empty entity name")
}

func TestClaudeExtractor_PromptCarriesQuery(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		prompt = req.Messages[0].Content
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "Zoom"}},
		})
	}))
	defer ts.Close()

	old := httputil.ClaudeAPIURL
	httputil.ClaudeAPIURL = ts.URL
	defer func() { httputil.ClaudeAPIURL = old }()

	ex := &ClaudeExtractor{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	_, err := ex.ExtractEntity(context.Background(), "can I trust zoom with meetings?")
	require.NoError(t, err)
	assert.True(t, strings.Contains(prompt, "can I trust zoom with meetings?"))
}

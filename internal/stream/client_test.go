// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trust-engine/internal/httputil"
	"github.com/pdiddy/trust-engine/pkg/types"
)

func init() {
	// Keep 429 backoff out of test wall time.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func TestClient_RunConsumesStream(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query

		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`data: {"identify_entity": {"entity": "Slack"}}`,
			`data: {"write_report": {"final_report": "Slack report text"}}`,
		} {
			io.WriteString(w, line+"\n\n")
			flusher.Flush()
		}
	}))
	defer ts.Close()

	c := &Client{Endpoint: ts.URL, HTTP: ts.Client(), UserAgent: "trust-engine/test"}
	rec := NewReconstructor(io.Discard)

	err := c.Run(context.Background(), "slack", rec)
	require.NoError(t, err)

	assert.Equal(t, "slack", gotQuery)
	p := rec.Snapshot()
	assert.True(t, p.Done())
	assert.Equal(t, "Slack report text", p.ResearchBrief)
}

func TestClient_MissingEndpoint(t *testing.T) {
	c := &Client{}
	err := c.Run(context.Background(), "slack", NewReconstructor(io.Discard))
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}

func TestClient_Non200IsUpstreamUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{Endpoint: ts.URL, HTTP: ts.Client()}
	err := c.Run(context.Background(), "slack", NewReconstructor(io.Discard))
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}

func TestClient_UnreachableBackend(t *testing.T) {
	c := &Client{Endpoint: "http://127.0.0.1:1/run"}
	err := c.Run(context.Background(), "slack", NewReconstructor(io.Discard))
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
}

func TestClient_CancellationIsStreamAborted(t *testing.T) {
	started := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"identify_entity\": {}}\n\n")
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	c := &Client{Endpoint: ts.URL, HTTP: ts.Client()}
	rec := NewReconstructor(io.Discard)
	err := c.Run(ctx, "slack", rec)
	assert.ErrorIs(t, err, types.ErrStreamAborted)
}

func TestClient_RetriesOn429(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "data: {\"write_report\": {\"final_report\": \"ok\"}}\n")
	}))
	defer ts.Close()

	c := &Client{Endpoint: ts.URL, HTTP: ts.Client(), MaxRetries: 2}
	rec := NewReconstructor(io.Discard)
	err := c.Run(context.Background(), "slack", rec)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, "ok", rec.Snapshot().ResearchBrief)
}

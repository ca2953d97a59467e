// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/trust-engine/internal/httputil"
	"github.com/pdiddy/trust-engine/pkg/types"
)

// Client opens a research stream for an entity and feeds it to a
// Reconstructor chunk by chunk.
type Client struct {
	// Endpoint is the research backend URL. Empty is a configuration
	// error reported before any connection attempt.
	Endpoint string

	// HTTP is the transport; http.DefaultClient when nil. The caller
	// controls timeouts and cancellation through ctx.
	HTTP *http.Client

	// Token, when set, is sent as a bearer token.
	Token string

	UserAgent  string
	MaxRetries int
}

// runRequest is the request body sent to the research backend.
type runRequest struct {
	Query string `json:"query"`
}

// Run posts the entity query to the research backend and consumes the
// response body until end of stream, feeding every chunk to rec.
// Events are processed strictly in arrival order. A clean end of
// stream flushes the reconstructor and returns nil; caller-initiated
// cancellation returns ErrStreamAborted; an unreachable or non-OK
// backend returns ErrUpstreamUnavailable.
func (c *Client) Run(ctx context.Context, query string, rec *Reconstructor) error {
	if c.Endpoint == "" {
		return fmt.Errorf("research endpoint not configured: %w", types.ErrUpstreamUnavailable)
	}

	body, err := json.Marshal(runRequest{Query: query})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("research stream: %w", types.ErrStreamAborted)
		}
		return fmt.Errorf("connecting to research backend: %v: %w", err, types.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("research backend returned HTTP %d: %w", resp.StatusCode, types.ErrUpstreamUnavailable)
	}

	// Read in transport-sized chunks; the reconstructor handles line
	// reassembly across chunk boundaries.
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			rec.Consume(buf[:n])
		}
		if err == io.EOF {
			rec.Finish()
			return nil
		}
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return fmt.Errorf("research stream: %w", types.ErrStreamAborted)
			}
			return fmt.Errorf("reading research stream: %w", err)
		}
	}
}

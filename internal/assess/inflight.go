// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"sync"

	"github.com/pdiddy/trust-engine/pkg/types"
)

// group is a per-key in-flight registry guaranteeing at most one
// research run per normalized key. A second caller for the same key
// attaches to the existing computation instead of starting another.
type group struct {
	mu    sync.Mutex
	calls map[string]*call
}

// call is one in-flight research run. done is closed when the run
// finishes, after entry and err are set.
type call struct {
	done  chan struct{}
	entry *types.CacheEntry
	err   error
}

// begin registers a run for key. The second return is true when an
// existing run was found; the caller should wait on its done channel
// instead of starting a stream.
func (g *group) begin(key string) (*call, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		return c, true
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	return c, false
}

// finish publishes the outcome of a run and releases the key.
func (g *group) finish(key string, c *call, entry *types.CacheEntry, err error) {
	c.entry = entry
	c.err = err

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	close(c.done)
}

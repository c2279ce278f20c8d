// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"sort"
	"sync"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// resultCache holds finished results keyed by task id. It is warmed
// from the storage mirror at startup, so completed research survives
// restarts.
type resultCache struct {
	mu      sync.RWMutex
	results map[string]types.ResearchResult
}

func newResultCache() *resultCache {
	return &resultCache{results: make(map[string]types.ResearchResult)}
}

func (c *resultCache) Put(r types.ResearchResult) {
	c.mu.Lock()
	c.results[r.TaskID] = r
	c.mu.Unlock()
}

func (c *resultCache) Get(taskID string) (types.ResearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[taskID]
	return r, ok
}

func (c *resultCache) Delete(taskID string) {
	c.mu.Lock()
	delete(c.results, taskID)
	c.mu.Unlock()
}

// List returns all results, newest first.
func (c *resultCache) List() []types.ResearchResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.ResearchResult, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (c *resultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

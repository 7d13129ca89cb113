package catalog

import (
	"context"
	"sort"
	"sync"

	"confgate/internal/hosting"
	pstrings "confgate/pkg/platform/strings"
)

// InMemoryCatalog keeps the per-folder type listings in process memory.
// Suitable for single-instance deployments and tests; folders not present
// resolve to an empty listing.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	byFolder map[string][]string
}

// NewInMemory creates an empty in-memory catalog.
func NewInMemory() *InMemoryCatalog {
	return &InMemoryCatalog{
		byFolder: make(map[string][]string),
	}
}

// SetTypes replaces the type listing for a folder. Names are trimmed and
// deduplicated; seeding usually comes from operator-provided lists.
func (c *InMemoryCatalog) SetTypes(folder string, types ...string) {
	sorted := pstrings.DedupeAndTrim(types)
	sort.Strings(sorted)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byFolder[folderKey(folder)] = sorted
}

// ListTypes returns the sorted type names registered for the domain's folder.
func (c *InMemoryCatalog) ListTypes(ctx context.Context, d hosting.Domain) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := c.byFolder[folderKey(d.Folder)]
	out := make([]string, len(types))
	copy(out, types)
	return out, nil
}

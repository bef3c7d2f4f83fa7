package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/abdulhalimzhr/tokotok/storage"
)

// CategoryCache persists the category list so the filter UI keeps a
// usable list across sessions even when the categories endpoint is down.
// It is overwritten only on a successful remote fetch and never actively
// invalidated.
type CategoryCache struct {
	kv  storage.KV
	key string
}

// NewCategoryCache wraps a KV store under a single named key.
func NewCategoryCache(kv storage.KV, key string) *CategoryCache {
	return &CategoryCache{kv: kv, key: key}
}

// Load returns the cached category list. Missing or corrupt entries are
// a cache miss, never a failure; corruption is recovered silently.
func (c *CategoryCache) Load() ([]string, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}

	raw, ok, err := c.kv.Get(c.key)
	if err != nil {
		slog.Debug("category cache read failed", slog.Any("error", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		slog.Debug("discarding corrupt category cache", slog.Any("error", err))
		return nil, false
	}
	if len(categories) == 0 {
		return nil, false
	}
	return categories, true
}

// Save replaces the cached list. Called only after a successful fetch.
func (c *CategoryCache) Save(categories []string) error {
	if c == nil || c.kv == nil {
		return nil
	}

	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := c.kv.Set(c.key, raw); err != nil {
		return fmt.Errorf("persist categories: %w", err)
	}
	return nil
}

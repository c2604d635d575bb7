package storage

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Cached fronts a Store with an LRU read cache. Misses are cached too, so
// repeated lookups of absent keys skip the backend.
type Cached struct {
	inner Store
	cache *lru.Cache[string, *string]
}

// NewCached wraps inner with a cache holding up to size entries.
func NewCached(inner Store, size int) (*Cached, error) {
	c, err := lru.New[string, *string](size)
	if err != nil {
		return nil, errors.Wrap(err, "lru cache")
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) Get(key string) (*string, error) {
	if v, ok := c.cache.Get(key); ok {
		return copyValue(v), nil
	}
	v, err := c.inner.Get(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, copyValue(v))
	return v, nil
}

func (c *Cached) Set(key, value string) error {
	c.cache.Remove(key)
	if err := c.inner.Set(key, value); err != nil {
		return err
	}
	c.cache.Add(key, &value)
	return nil
}

func (c *Cached) Delete(key string) error {
	c.cache.Remove(key)
	if err := c.inner.Delete(key); err != nil {
		return err
	}
	c.cache.Add(key, nil)
	return nil
}

// ApplyBatch drops every touched key from the cache, whether or not the write succeeds.
func (c *Cached) ApplyBatch(sets map[string]string, deletes []string) error {
	defer c.purge(sets, deletes)
	return c.inner.ApplyBatch(sets, deletes)
}

func (c *Cached) purge(sets map[string]string, deletes []string) {
	for k := range sets {
		c.cache.Remove(k)
	}
	for _, k := range deletes {
		c.cache.Remove(k)
	}
}

// Len reports how many keys are currently cached.
func (c *Cached) Len() int { return c.cache.Len() }

func (c *Cached) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}

func copyValue(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

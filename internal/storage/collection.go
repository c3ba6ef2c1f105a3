package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Collection is one named record set stored as a whole JSON array blob.
// Reads parse the full array; writes serialize it back. Writers are queued
// on mu so read-modify-write cycles never interleave.
type Collection[T any] struct {
	mu    sync.Mutex
	key   string
	blobs BlobStore
}

func newCollection[T any](key string, blobs BlobStore) *Collection[T] {
	return &Collection[T]{key: key, blobs: blobs}
}

// ensure creates the empty collection when the key is absent.
func (c *Collection[T]) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok, err := c.blobs.Get(ctx, c.key)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return c.blobs.Set(ctx, c.key, []byte("[]"))
}

// All returns every record in insertion order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

// Find returns the first record matching fn, or ErrNotFound.
func (c *Collection[T]) Find(ctx context.Context, fn func(T) bool) (T, error) {
	var zero T
	records, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	for _, rec := range records {
		if fn(rec) {
			return rec, nil
		}
	}
	return zero, ErrNotFound
}

// Filter returns every record matching fn in insertion order.
func (c *Collection[T]) Filter(ctx context.Context, fn func(T) bool) ([]T, error) {
	records, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if fn(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Append adds rec at the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, rec T) error {
	return c.Mutate(ctx, func(records []T) ([]T, bool, error) {
		return append(records, rec), true, nil
	})
}

// Mutate runs fn over the current records under the writer lock and persists
// the returned slice when fn reports a change.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, changed, err := fn(records)
	if err != nil || !changed {
		return err
	}
	return c.store(ctx, updated)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	blob, ok, err := c.blobs.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !ok || len(blob) == 0 {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) store(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.blobs.Set(ctx, c.key, blob); err != nil {
		return fmt.Errorf("store %s: %w", c.key, err)
	}
	return nil
}

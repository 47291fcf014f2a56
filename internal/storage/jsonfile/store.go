// Package jsonfile persists collections as whole JSON files: every read
// loads the full collection, every write replaces it. This matches the
// product's last-write-wins persistence model; anything stronger belongs in
// a different store behind the same ports.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

const (
	hotelsFile = "hotels.json"
	usersFile  = "users.json"
)

// Collection is one JSON-file-backed record set. The mutex serializes file
// access within the process; cross-process writers still race (documented
// limitation of the flat-file model).
type Collection[T any] struct {
	mu   sync.Mutex
	path string
}

func NewHotels(dir string) *Collection[domain.Hotel] {
	return &Collection[domain.Hotel]{path: filepath.Join(dir, hotelsFile)}
}

func NewUsers(dir string) *Collection[domain.User] {
	return &Collection[domain.User]{path: filepath.Join(dir, usersFile)}
}

// ReadAll returns the full collection. A missing file is an empty
// collection, not an error.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		observability.ObserveStore("jsonfile", "read", nil)
		return []T{}, nil
	}
	if err != nil {
		observability.ObserveStore("jsonfile", "read", err)
		return nil, fmt.Errorf("jsonfile: read %s: %w", c.path, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		observability.ObserveStore("jsonfile", "read", err)
		return nil, fmt.Errorf("jsonfile: decode %s: %w", c.path, err)
	}
	observability.ObserveStore("jsonfile", "read", nil)
	return items, nil
}

// WriteAll replaces the collection. The file is written to a sibling temp
// file and renamed into place so readers never observe a half-written
// collection.
func (c *Collection[T]) WriteAll(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		observability.ObserveStore("jsonfile", "write", err)
		return fmt.Errorf("jsonfile: mkdir: %w", err)
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		observability.ObserveStore("jsonfile", "write", err)
		return fmt.Errorf("jsonfile: encode %s: %w", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		observability.ObserveStore("jsonfile", "write", err)
		return fmt.Errorf("jsonfile: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		observability.ObserveStore("jsonfile", "write", err)
		return fmt.Errorf("jsonfile: rename %s: %w", tmp, err)
	}
	observability.ObserveStore("jsonfile", "write", nil)
	return nil
}

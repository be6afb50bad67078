package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores each entry as a JSON file named by the key's hash,
// sharded into two-character subdirectories.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get implements Cache. Corrupt and expired entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set implements Cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Delete implements Cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Usage summarises the entries on disk.
type Usage struct {
	Entries int
	Bytes   int64
	Expired int
}

// Usage walks the cache and reports its size. Unreadable entries count as
// expired.
func (c *FileCache) Usage() (Usage, error) {
	var u Usage
	now := time.Now()
	err := c.walk(func(path string, size int64) {
		u.Entries++
		u.Bytes += size
		if c.stale(path, now) {
			u.Expired++
		}
	})
	return u, err
}

// Prune removes expired and corrupt entries and returns how many went.
func (c *FileCache) Prune() (int, error) {
	removed := 0
	now := time.Now()
	err := c.walk(func(path string, _ int64) {
		if c.stale(path, now) && os.Remove(path) == nil {
			removed++
		}
	})
	return removed, err
}

// Clear removes every entry and returns how many files were deleted.
func (c *FileCache) Clear() (int, error) {
	removed := 0
	err := c.walk(func(path string, _ int64) {
		if os.Remove(path) == nil {
			removed++
		}
	})
	if err != nil {
		return removed, err
	}
	shards, _ := os.ReadDir(c.dir)
	for _, shard := range shards {
		if shard.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, shard.Name()))
		}
	}
	return removed, nil
}

// walk calls fn for every entry file. A missing root is an empty cache.
func (c *FileCache) walk(fn func(path string, size int64)) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.dir {
				return err
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info.Size())
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) stale(path string, now time.Time) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	var entry fileEntry
	if json.Unmarshal(data, &entry) != nil {
		return true
	}
	return !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt)
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)

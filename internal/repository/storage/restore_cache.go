package storage

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// RestoreCache remembers which backup was last restored so repeated runs skip
// redundant restores.
type RestoreCache struct {
	path string
}

// CacheEntry records one restore.
type CacheEntry struct {
	Name     string    `json:"name"`
	DateTime time.Time `json:"datetime"`
}

// NewRestoreCache creates a RestoreCache backed by the given file.
func NewRestoreCache(path string) *RestoreCache {
	return &RestoreCache{path: path}
}

// LastRestored returns the most recent entry, or nil when no restore has been
// recorded yet.
func (c *RestoreCache) LastRestored() (*CacheEntry, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Record stores the backup name with the current time.
func (c *RestoreCache) Record(name string) error {
	data, err := json.Marshal(CacheEntry{Name: name, DateTime: time.Now()})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

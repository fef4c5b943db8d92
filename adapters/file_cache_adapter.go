package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// FileCacheAdapter is the default cache adapter implementation using the
// file system. All keys live in one JSON object on disk.
type FileCacheAdapter struct {
	filepath string
	mu       sync.Mutex
}

// Ensure FileCacheAdapter implements CacheAdapter interface
var _ CacheAdapter = (*FileCacheAdapter)(nil)

// NewFileCacheAdapter creates a new FileCacheAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where values will be stored
func NewFileCacheAdapter(filepath string) *FileCacheAdapter {
	return &FileCacheAdapter{filepath: filepath}
}

// Get reads key from the file. A missing file is an empty cache.
func (f *FileCacheAdapter) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set rewrites the file with key set to value.
func (f *FileCacheAdapter) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, data, 0o644)
}

// Clear removes the cache file.
func (f *FileCacheAdapter) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.filepath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileCacheAdapter) load() (map[string]string, error) {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

package utils

import (
	"os"
	"sync"
	"time"
)

// fileStamp identifies one version of a file on disk
type fileStamp struct {
	modTime time.Time
	size    int64
}

func stampOf(info os.FileInfo) fileStamp {
	return fileStamp{modTime: info.ModTime(), size: info.Size()}
}

type cacheEntry[V any] struct {
	value V
	stamp fileStamp
}

// FileCache caches a value derived from a file and drops it once the file
// changes size or modification time. It is safe for concurrent use.
type FileCache[V any] struct {
	items map[string]cacheEntry[V]
	mutex sync.RWMutex
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		items: make(map[string]cacheEntry[V]),
	}
}

// Get returns the cached value for path if the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	var zero V

	c.mutex.RLock()
	entry, exists := c.items[path]
	c.mutex.RUnlock()
	if !exists {
		return zero, false
	}

	info, err := os.Stat(path)
	if err == nil && stampOf(info) == entry.stamp {
		return entry.value, true
	}

	c.Delete(path)
	return zero, false
}

// Set caches value for path, stamped with the file's current metadata
func (c *FileCache[V]) Set(path string, value V) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[path] = cacheEntry[V]{value: value, stamp: stampOf(info)}
	return nil
}

// Delete removes the entry for path
func (c *FileCache[V]) Delete(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, path)
}

// Clear removes every entry
func (c *FileCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]cacheEntry[V])
}

// Size returns the number of cached entries
func (c *FileCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

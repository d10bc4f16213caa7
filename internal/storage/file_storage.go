// internal/storage/file_storage.go

// Package storage provides the JSON file store the studio persists scenario
// documents to. One directory per scenario, writes are atomic via a temp
// file rename, and reads go through a small TTL cache.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileStorage is a concurrency-safe store rooted at BaseDir. Callers address
// content by (dirPath, filename) relative to the root; locking is per file.
type FileStorage struct {
	BaseDir string

	fileLocks sync.Map // full path -> *sync.RWMutex

	cache        map[string]cacheEntry
	cacheMu      sync.RWMutex
	cacheTTL     time.Duration
	maxCacheSize int
}

type cacheEntry struct {
	data    []byte
	storedAt time.Time
}

// NewFileStorage creates the base directory if needed and starts the
// background cache sweep.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	fs := &FileStorage{
		BaseDir:      baseDir,
		cache:        make(map[string]cacheEntry),
		cacheTTL:     5 * time.Minute,
		maxCacheSize: 100,
	}
	fs.startCacheSweep()
	return fs, nil
}

func (fs *FileStorage) lockFor(fullPath string) *sync.RWMutex {
	value, _ := fs.fileLocks.LoadOrStore(fullPath, &sync.RWMutex{})
	return value.(*sync.RWMutex)
}

// SaveRaw writes content to dirPath/filename atomically: the bytes land in a
// temp file first and replace the target with a rename, so a crashed write
// never leaves a truncated document behind.
func (fs *FileStorage) SaveRaw(dirPath, filename string, content []byte) error {
	fullDir := filepath.Join(fs.BaseDir, dirPath)
	fullPath := filepath.Join(fullDir, filename)

	lock := fs.lockFor(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace file: %w", err)
	}

	fs.invalidate(fullPath)
	return nil
}

// SaveJSON marshals data with indentation and saves it atomically.
func (fs *FileStorage) SaveJSON(dirPath, filename string, data interface{}) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return fs.SaveRaw(dirPath, filename, content)
}

// LoadRaw reads dirPath/filename, serving from cache while the entry is
// fresh.
func (fs *FileStorage) LoadRaw(dirPath, filename string) ([]byte, error) {
	fullPath := filepath.Join(fs.BaseDir, dirPath, filename)

	if data, ok := fs.cached(fullPath); ok {
		return data, nil
	}

	lock := fs.lockFor(fullPath)
	lock.RLock()
	defer lock.RUnlock()

	// Another reader may have filled the cache while we waited.
	if data, ok := fs.cached(fullPath); ok {
		return data, nil
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	fs.store(fullPath, content)
	return content, nil
}

// LoadJSON reads and unmarshals dirPath/filename into v.
func (fs *FileStorage) LoadJSON(dirPath, filename string, v interface{}) error {
	content, err := fs.LoadRaw(dirPath, filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

// FileExists reports whether dirPath/filename exists.
func (fs *FileStorage) FileExists(dirPath, filename string) bool {
	_, err := os.Stat(filepath.Join(fs.BaseDir, dirPath, filename))
	return err == nil
}

// DirExists reports whether dirPath exists and is a directory.
func (fs *FileStorage) DirExists(dirPath string) bool {
	info, err := os.Stat(filepath.Join(fs.BaseDir, dirPath))
	return err == nil && info.IsDir()
}

// DeleteFile removes dirPath/filename. Missing files are an error so callers
// can distinguish "deleted" from "never existed".
func (fs *FileStorage) DeleteFile(dirPath, filename string) error {
	fullPath := filepath.Join(fs.BaseDir, dirPath, filename)

	lock := fs.lockFor(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", fullPath)
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	fs.invalidate(fullPath)
	return nil
}

// DeleteDir removes dirPath and everything under it, dropping any cache
// entries for the subtree.
func (fs *FileStorage) DeleteDir(dirPath string) error {
	fullPath := filepath.Join(fs.BaseDir, dirPath)

	lock := fs.lockFor(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("dir not found: %s", fullPath)
	}
	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("delete dir: %w", err)
	}

	fs.cacheMu.Lock()
	for key := range fs.cache {
		if strings.HasPrefix(key, fullPath) {
			delete(fs.cache, key)
		}
	}
	fs.cacheMu.Unlock()
	return nil
}

// ListDirs returns the names of the subdirectories of dirPath.
func (fs *FileStorage) ListDirs(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.BaseDir, dirPath))
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	return dirs, nil
}

func (fs *FileStorage) cached(path string) ([]byte, bool) {
	fs.cacheMu.RLock()
	defer fs.cacheMu.RUnlock()
	entry, ok := fs.cache[path]
	if !ok || time.Since(entry.storedAt) >= fs.cacheTTL {
		return nil, false
	}
	return entry.data, true
}

func (fs *FileStorage) store(path string, data []byte) {
	fs.cacheMu.Lock()
	defer fs.cacheMu.Unlock()
	fs.cache[path] = cacheEntry{data: data, storedAt: time.Now()}
	fs.evictOverflowLocked()
}

func (fs *FileStorage) invalidate(path string) {
	fs.cacheMu.Lock()
	delete(fs.cache, path)
	fs.cacheMu.Unlock()
}

func (fs *FileStorage) startCacheSweep() {
	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			fs.cacheMu.Lock()
			now := time.Now()
			for path, entry := range fs.cache {
				if now.Sub(entry.storedAt) > fs.cacheTTL {
					delete(fs.cache, path)
				}
			}
			fs.evictOverflowLocked()
			fs.cacheMu.Unlock()
		}
	}()
}

// evictOverflowLocked drops the oldest entries until the cache fits. Caller
// holds cacheMu.
func (fs *FileStorage) evictOverflowLocked() {
	excess := len(fs.cache) - fs.maxCacheSize
	if excess <= 0 {
		return
	}

	type aged struct {
		path     string
		storedAt time.Time
	}
	entries := make([]aged, 0, len(fs.cache))
	for path, entry := range fs.cache {
		entries = append(entries, aged{path, entry.storedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].storedAt.Before(entries[j].storedAt)
	})
	for i := 0; i < excess; i++ {
		delete(fs.cache, entries[i].path)
	}
}

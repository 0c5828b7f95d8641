package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	cacheVersion = 1
	defaultTTL   = 30 * 24 * time.Hour
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheCorrupt = errors.New("cache corrupt")
)

// Entry is one extracted palette, keyed by the artwork url it came from.
type Entry struct {
	Version   uint8
	URL       string
	Swatches  map[string]string
	CreatedAt int64
	ExpiresAt int64
}

// DiskCache keeps palettes in memory and mirrors them to one gob file per
// artwork url. An empty base path keeps everything in memory.
type DiskCache struct {
	basePath string
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	memCache map[string]*Entry
}

func Open(dir string) (*DiskCache, error) {
	if dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, err
		}
	}

	return &DiskCache{
		basePath: dir,
		ttl:      defaultTTL,
		now:      time.Now,
		memCache: make(map[string]*Entry),
	}, nil
}

func NewMemory() *DiskCache {
	c, _ := Open("")
	return c
}

func (c *DiskCache) Path() string {
	return c.basePath
}

func generateKey(artworkURL string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(artworkURL)))
	return hex.EncodeToString(hash[:12])
}

func (c *DiskCache) getFilePath(key string) string {
	if c.basePath == "" {
		return ""
	}
	return filepath.Join(c.basePath, key+".bin")
}

func (c *DiskCache) Get(artworkURL string) (*Entry, error) {
	if artworkURL == "" {
		return nil, ErrCacheMiss
	}

	key := generateKey(artworkURL)
	now := c.now().Unix()

	c.mu.RLock()
	entry, exists := c.memCache[key]
	c.mu.RUnlock()

	if exists {
		if entry.ExpiresAt > now {
			return entry, nil
		}
		c.mu.Lock()
		delete(c.memCache, key)
		c.mu.Unlock()
	}

	if c.basePath == "" {
		if exists {
			return nil, ErrCacheExpired
		}
		return nil, ErrCacheMiss
	}

	filePath := c.getFilePath(key)
	entry, err := c.readFromDisk(filePath)
	if err != nil {
		return nil, err
	}

	if entry.ExpiresAt <= now {
		_ = os.Remove(filePath)
		return nil, ErrCacheExpired
	}

	c.mu.Lock()
	c.memCache[key] = entry
	c.mu.Unlock()

	return entry, nil
}

func (c *DiskCache) Set(artworkURL string, swatches map[string]string) error {
	if artworkURL == "" || len(swatches) == 0 {
		return errors.New("invalid cache entry")
	}

	key := generateKey(artworkURL)
	now := c.now()

	entry := &Entry{
		Version:   cacheVersion,
		URL:       artworkURL,
		Swatches:  make(map[string]string, len(swatches)),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(c.ttl).Unix(),
	}
	for name, v := range swatches {
		entry.Swatches[name] = v
	}

	c.mu.Lock()
	c.memCache[key] = entry
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	return c.writeToDisk(c.getFilePath(key), entry)
}

func (c *DiskCache) readFromDisk(filePath string) (*Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	defer file.Close()

	var entry Entry
	err = gob.NewDecoder(file).Decode(&entry)
	if err != nil {
		return nil, ErrCacheCorrupt
	}

	// version mismatch means stale format
	if entry.Version != cacheVersion {
		_ = os.Remove(filePath)
		return nil, ErrCacheCorrupt
	}

	return &entry, nil
}

func (c *DiskCache) writeToDisk(filePath string, entry *Entry) error {
	tmpPath := filePath + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(entry)
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Sync()
	if err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, filePath)
}

func (c *DiskCache) Delete(artworkURL string) error {
	key := generateKey(artworkURL)

	c.mu.Lock()
	delete(c.memCache, key)
	c.mu.Unlock()

	if c.basePath == "" {
		return nil
	}

	err := os.Remove(c.getFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *DiskCache) Clear() error {
	c.mu.Lock()
	c.memCache = make(map[string]*Entry)
	c.mu.Unlock()

	files, err := c.files()
	if err != nil {
		return err
	}
	for _, path := range files {
		_ = os.Remove(path)
	}
	return nil
}

// Prune removes expired and unreadable files and reports how many went.
func (c *DiskCache) Prune() (int, error) {
	files, err := c.files()
	if err != nil {
		return 0, err
	}

	pruned := 0
	now := c.now().Unix()

	for _, path := range files {
		entry, err := c.readFromDisk(path)
		if err != nil || entry.ExpiresAt <= now {
			_ = os.Remove(path)
			pruned++
		}
	}

	return pruned, nil
}

func (c *DiskCache) Stats() (count int, sizeBytes int64, err error) {
	files, err := c.files()
	if err != nil {
		return 0, 0, err
	}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		count++
		sizeBytes += info.Size()
	}

	return count, sizeBytes, nil
}

func (c *DiskCache) ListAll() ([]*Entry, error) {
	files, err := c.files()
	if err != nil {
		return nil, err
	}

	var result []*Entry
	for _, path := range files {
		entry, err := c.readFromDisk(path)
		if err != nil {
			continue
		}
		result = append(result, entry)
	}

	return result, nil
}

func (c *DiskCache) files() ([]string, error) {
	if c.basePath == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(c.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".bin") {
			continue
		}
		paths = append(paths, filepath.Join(c.basePath, entry.Name()))
	}
	return paths, nil
}

// Package cache is a process-local, time-bounded store of update-check
// outcomes, persisted best-effort to a single JSON file so results survive
// across process runs.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a stored outcome stays fresh.
const DefaultTTL = 3600 * time.Second

// DefaultPath returns the shared cache file location under the system temp
// directory. Every process using the library reads and writes the same file;
// concurrent writers race as last-writer-wins, which at worst costs one
// redundant registry query on the next run.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "updates_cache.json")
}

// Record is a stored update outcome. A nil *Record in an Entry means the
// check ran and found nothing newer, which is itself worth caching.
type Record struct {
	CrateName        string     `json:"crate_name"`
	RunningVersion   string     `json:"running_version"`
	AvailableVersion string     `json:"available_version"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
}

// Key identifies a check: the crate asked about and the version in use.
type Key struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry pairs an outcome with the time it was stored. Readers treat entries
// older than the TTL as absent; stale entries stay on disk until overwritten.
type Entry struct {
	Timestamp int64   `json:"timestamp"`
	Result    *Record `json:"result,omitempty"`
}

// Cache is safe for concurrent use. The mutex covers only map access, never
// network time, so one goroutine's slow check does not block another's
// lookup.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]Entry

	path string
	ttl  time.Duration
	now  func() time.Time
	log  *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source, letting tests age entries without
// sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger used for swallowed persistence errors.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New creates a cache backed by the file at path and loads any previously
// persisted entries. A missing, unreadable, or undecodable file leaves the
// cache empty; persistence is an optimization, never a requirement.
func New(path string, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]Entry),
		path:    path,
		ttl:     ttl,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.restore()
	return c
}

// Get returns the stored outcome for (name, version) if a fresh entry
// exists. The second return distinguishes a fresh "no update" outcome
// (nil, true) from a miss or stale entry (nil, false).
func (c *Cache) Get(name, version string) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[Key{Name: name, Version: version}]
	if !ok {
		return nil, false
	}
	if c.now().Unix()-entry.Timestamp >= int64(c.ttl/time.Second) {
		return nil, false
	}
	return entry.Result, true
}

// Put stores an outcome for (name, version) stamped with the current time,
// unconditionally replacing any prior entry.
func (c *Cache) Put(name, version string, rec *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key{Name: name, Version: version}] = Entry{
		Timestamp: c.now().Unix(),
		Result:    rec,
	}
}

// fileEntry flattens a map entry for serialization; Go cannot marshal maps
// with struct keys. The file layout is private to this library.
type fileEntry struct {
	Key
	Entry
}

type fileFormat struct {
	Entries []fileEntry `json:"entries"`
}

// Save writes the whole map to the cache file. Failures are logged and
// swallowed; the in-memory cache stays authoritative for this process.
func (c *Cache) Save() {
	c.mu.Lock()
	ff := fileFormat{Entries: make([]fileEntry, 0, len(c.entries))}
	for k, e := range c.entries {
		ff.Entries = append(ff.Entries, fileEntry{Key: k, Entry: e})
	}
	c.mu.Unlock()

	data, err := json.Marshal(ff)
	if err != nil {
		c.log.Debug("encode cache", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		c.log.Debug("write cache", zap.String("path", c.path), zap.Error(err))
	}
}

func (c *Cache) restore() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		c.log.Debug("decode cache", zap.String("path", c.path), zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fe := range ff.Entries {
		c.entries[fe.Key] = fe.Entry
	}
}

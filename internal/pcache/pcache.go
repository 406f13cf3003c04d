// Package pcache stores compiled patterns on disk so repeated runs over an
// unchanged graph skip the compiler.
package pcache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hlrev/internal/pattern"
	"hlrev/internal/project"
)

// SchemaVersion is bumped whenever Entry changes shape. Entries written
// under another schema read as misses.
const SchemaVersion uint16 = 1

// Cache is a directory of msgpack-encoded entries. Safe for concurrent use.
// A nil *Cache is a valid cache that never hits.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Entry is one cached pattern.
type Entry struct {
	Schema   uint16
	Root     int
	MaxDepth int
	Text     string
	Decls    []string
	Empty    bool // nothing beyond the prelude
}

// FromPattern builds the entry for p, compiled from root under maxDepth.
func FromPattern(p *pattern.Pattern, root, maxDepth int) *Entry {
	decls := make([]string, len(p.Decls))
	for i, d := range p.Decls {
		decls[i] = d.Name
	}
	return &Entry{Root: root, MaxDepth: maxDepth, Text: p.Text, Decls: decls, Empty: p.Empty()}
}

// Key identifies the compilation of root (a bytecode index) in the graph
// with the given digest, under maxDepth.
func Key(graph project.Digest, root, maxDepth int) project.Digest {
	return project.Combine(graph, project.Uint64(uint64(root)), project.Uint64(uint64(maxDepth)))
}

// DefaultDir is $XDG_CACHE_HOME/hlrev, falling back to ~/.cache/hlrev.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "hlrev"), nil
}

// Open returns a cache rooted at dir, or at DefaultDir when dir is empty.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir reports the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "patterns", hex.EncodeToString(key[:])+".mp")
}

// Put stores e under key, replacing any previous entry.
func (c *Cache) Put(key project.Digest, e *Entry) (err error) {
	if c == nil || e == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(f.Name()))
		}
	}()

	stored := *e
	stored.Schema = SchemaVersion
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the entry stored under key. A missing file or a schema mismatch
// is a miss, not an error.
func (c *Cache) Get(key project.Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("pcache: %s: %w", f.Name(), err)
	}
	if e.Schema != SchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "patterns")
	old := dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

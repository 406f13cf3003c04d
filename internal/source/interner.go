package source

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
)

// StringID identifies an interned display name.
type StringID uint32

// NoStringID is reserved for the empty string.
const NoStringID StringID = 0

// Interner deduplicates display names coming from a type graph document.
// Safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // id -> string (byID[0] = "" for NoStringID)
	index map[string]StringID // string -> id
}

// NewInterner returns an interner holding only the empty string.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern stores s and returns its ID. Interning the same string twice
// returns the same ID.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("string table overflow: %w", err))
	}
	// own copy so callers can reuse their buffers
	cpy := string([]byte(s))
	id = StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id was handed out by this interner.
func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len counts interned strings, NoStringID included. Never less than 1.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of the string table indexed by StringID.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}

// Package inspect holds a loaded type graph together with the user's current
// selection and compiles patterns for the selected class.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"hlrev/internal/pattern"
	"hlrev/internal/pcache"
	"hlrev/internal/project"
	"hlrev/internal/trace"
	"hlrev/internal/types"
)

var (
	ErrNotLoaded    = errors.New("no bytecode loaded")
	ErrNoSelection  = errors.New("nothing selected")
	ErrNotClass     = errors.New("selection is not a class")
	ErrOutOfBounds  = errors.New("class index out of bounds")
	ErrEmptyPattern = errors.New("type has no layout")
	ErrNoMatch      = errors.New("no class with that name")
)

// Config tunes pattern generation.
type Config struct {
	MaxDepth int  // <= 0: pattern.DefaultMaxDepth
	Strict   bool // reject roots that produce only the prelude
	Cache    *pcache.Cache
	Logger   *zap.Logger
}

// Workspace is safe for concurrent use. Generation holds the read lock for
// the whole compiler call, so Load waits for running generations.
type Workspace struct {
	mu       sync.RWMutex
	cfg      Config
	graph    *types.Graph
	digest   project.Digest
	selected *Item
}

func New(cfg Config) *Workspace {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = pattern.DefaultMaxDepth
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Workspace{cfg: cfg}
}

// Load replaces the graph and clears the selection. digest identifies the
// graph in cache keys.
func (w *Workspace) Load(g *types.Graph, digest project.Digest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.graph = g
	w.digest = digest
	w.selected = nil
}

// Graph returns the loaded graph, or nil.
func (w *Workspace) Graph() *types.Graph {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.graph
}

func (w *Workspace) Select(it Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = &it
}

func (w *Workspace) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selected = nil
}

func (w *Workspace) Selected() (Item, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.selected == nil {
		return Item{}, false
	}
	return *w.selected, true
}

// SelectByName selects the first obj or struct whose name matches,
// ignoring case, either as written or after sanitizing.
func (w *Workspace) SelectByName(name string) (Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.graph == nil {
		return Item{}, ErrNotLoaded
	}
	for _, id := range w.graph.OfKind(types.KindObj, types.KindStruct) {
		tn := w.graph.TypeName(id)
		if strings.EqualFold(tn, name) || strings.EqualFold(pattern.Sanitize(tn), name) {
			it := Class(w.graph.Index(id))
			w.selected = &it
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %q", ErrNoMatch, name)
}

// GeneratePattern compiles the selected class.
func (w *Workspace) GeneratePattern(ctx context.Context) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.graph == nil {
		return "", ErrNotLoaded
	}
	if w.selected == nil {
		return "", ErrNoSelection
	}
	it := *w.selected
	if it.Kind != ItemClass {
		return "", fmt.Errorf("%w: %s selected", ErrNotClass, it.Kind)
	}
	root, ok := w.graph.ByIndex(it.Index)
	if !ok {
		return "", fmt.Errorf("%w: %d of %d", ErrOutOfBounds, it.Index, w.graph.Len())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, span := trace.Start(ctx, trace.ScopeType, "type:"+w.graph.TypeName(root))
	defer span.End("")

	text, empty := w.compile(root, it.Index, span)
	if empty && w.cfg.Strict {
		return "", fmt.Errorf("%w: %s is a %s", ErrEmptyPattern, it, types.Label(w.graph, root))
	}
	return text, nil
}

// compile runs the compiler through the cache. Cache failures only log.
func (w *Workspace) compile(root types.TypeID, index int, span *trace.Span) (string, bool) {
	key := pcache.Key(w.digest, index, w.cfg.MaxDepth)
	if w.cfg.Cache != nil {
		entry, ok, err := w.cfg.Cache.Get(key)
		if err != nil {
			w.cfg.Logger.Warn("pattern cache read failed", zap.Int("index", index), zap.Error(err))
		}
		if ok {
			span.WithExtra("cached", "true")
			return entry.Text, entry.Empty
		}
	}

	p := pattern.Compile(w.graph, root, pattern.WithMaxDepth(w.cfg.MaxDepth), pattern.WithLogger(w.cfg.Logger))
	span.WithExtra("decls", fmt.Sprint(len(p.Decls)))
	if w.cfg.Cache != nil {
		if err := w.cfg.Cache.Put(key, pcache.FromPattern(p, index, w.cfg.MaxDepth)); err != nil {
			w.cfg.Logger.Warn("pattern cache write failed", zap.Int("index", index), zap.Error(err))
		}
	}
	return p.Text, p.Empty()
}

// SavePattern generates the selected class's pattern and writes it to path.
func (w *Workspace) SavePattern(ctx context.Context, path string) error {
	text, err := w.GeneratePattern(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

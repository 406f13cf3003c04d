// Package batch compiles patterns for many root types at once.
//
// Each root gets its own compiler call; the graph is shared read-only, so
// roots compile in parallel. Results come back in root order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hlrev/internal/pattern"
	"hlrev/internal/pcache"
	"hlrev/internal/project"
	"hlrev/internal/trace"
	"hlrev/internal/types"
)

// Ext is the extension of written pattern files.
const Ext = ".hexpat"

var (
	ErrNoGraph     = errors.New("batch: no graph")
	ErrUnknownRoot = errors.New("batch: root type does not exist")
)

// Request describes one batch run.
type Request struct {
	Graph    *types.Graph
	Roots    []types.TypeID
	OutDir   string // empty: compile only, write nothing
	Jobs     int    // <= 0: GOMAXPROCS
	MaxDepth int    // <= 0: pattern.DefaultMaxDepth

	// Cache is consulted when non-nil. Digest identifies Graph in cache keys.
	Cache  *pcache.Cache
	Digest project.Digest

	Progress ProgressSink
	Logger   *zap.Logger
}

// Item is the outcome for one root.
type Item struct {
	Root    types.TypeID
	Name    string
	Path    string // written file, empty when OutDir is empty
	Text    string
	Cached  bool
	Elapsed time.Duration
}

// Result lists items in the order of Request.Roots.
type Result struct {
	Items  []Item
	Cached int
}

// Run compiles every root. A failed write or a cancelled context stops the
// run and is returned together with the items finished so far.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil || req.Graph == nil {
		return Result{}, ErrNoGraph
	}
	for _, id := range req.Roots {
		if _, ok := req.Graph.Resolve(id); !ok {
			return Result{}, fmt.Errorf("%w: id %d", ErrUnknownRoot, id)
		}
	}
	if len(req.Roots) == 0 {
		return Result{}, nil
	}
	if req.OutDir != "" {
		if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("batch: %w", err)
		}
	}

	r := newRunner(req)
	ctx, span := trace.Start(ctx, trace.ScopeBatch, "batch")
	span.WithExtra("roots", strconv.Itoa(len(req.Roots))).WithExtra("jobs", strconv.Itoa(r.jobs))
	for _, name := range r.names {
		r.sink.OnEvent(Event{Name: name, Stage: StageCompile, Status: StatusQueued})
	}

	items := make([]Item, len(req.Roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.jobs, len(req.Roots)))
	for i := range req.Roots {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			item, err := r.one(gctx, i)
			items[i] = item
			return err
		})
	}
	err := g.Wait()

	res := Result{Items: items}
	for _, it := range items {
		if it.Cached {
			res.Cached++
		}
	}
	detail := "ok"
	if err != nil {
		detail = err.Error()
	}
	span.WithExtra("cached", strconv.Itoa(res.Cached)).End(detail)
	return res, err
}

type runner struct {
	req      *Request
	names    []string
	jobs     int
	maxDepth int
	sink     ProgressSink
	log      *zap.Logger
}

func newRunner(req *Request) *runner {
	r := &runner{
		req:      req,
		names:    FileNames(req.Graph, req.Roots),
		jobs:     req.Jobs,
		maxDepth: req.MaxDepth,
		sink:     req.Progress,
		log:      req.Logger,
	}
	if r.jobs <= 0 {
		r.jobs = runtime.GOMAXPROCS(0)
	}
	if r.maxDepth <= 0 {
		r.maxDepth = pattern.DefaultMaxDepth
	}
	if r.sink == nil {
		r.sink = nopSink{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

func (r *runner) one(ctx context.Context, i int) (Item, error) {
	id := r.req.Roots[i]
	name := r.names[i]
	item := Item{Root: id, Name: name}
	start := time.Now()

	_, span := trace.Start(ctx, trace.ScopeType, "type:"+name)
	defer func() { span.End("") }()

	key := pcache.Key(r.req.Digest, r.req.Graph.Index(id), r.maxDepth)
	if r.req.Cache != nil {
		r.sink.OnEvent(Event{Name: name, Stage: StageCache, Status: StatusWorking})
		entry, ok, err := r.req.Cache.Get(key)
		if err != nil {
			r.log.Warn("pattern cache read failed", zap.String("type", name), zap.Error(err))
		}
		if ok {
			item.Text = entry.Text
			item.Cached = true
		}
	}

	if !item.Cached {
		r.sink.OnEvent(Event{Name: name, Stage: StageCompile, Status: StatusWorking})
		p := pattern.Compile(r.req.Graph, id, pattern.WithMaxDepth(r.maxDepth), pattern.WithLogger(r.log))
		item.Text = p.Text
		if r.req.Cache != nil {
			if err := r.req.Cache.Put(key, pcache.FromPattern(p, r.req.Graph.Index(id), r.maxDepth)); err != nil {
				r.log.Warn("pattern cache write failed", zap.String("type", name), zap.Error(err))
			}
		}
	}

	if r.req.OutDir != "" {
		r.sink.OnEvent(Event{Name: name, Stage: StageWrite, Status: StatusWorking})
		item.Path = filepath.Join(r.req.OutDir, name+Ext)
		if err := os.WriteFile(item.Path, []byte(item.Text), 0o644); err != nil {
			item.Elapsed = time.Since(start)
			r.sink.OnEvent(Event{Name: name, Stage: StageWrite, Status: StatusError, Err: err, Elapsed: item.Elapsed})
			return item, fmt.Errorf("batch: %s: %w", name, err)
		}
	}

	item.Elapsed = time.Since(start)
	status := StatusDone
	if item.Cached {
		status = StatusCached
		span.WithExtra("cached", "true")
	}
	r.sink.OnEvent(Event{Name: name, Stage: StageWrite, Status: status, Elapsed: item.Elapsed})
	return item, nil
}

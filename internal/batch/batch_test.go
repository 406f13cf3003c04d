package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hlrev/internal/pattern"
	"hlrev/internal/pcache"
	"hlrev/internal/project"
	"hlrev/internal/types"
)

// sampleGraph: i32, Base{id}, Player: Base{hp, next: null<Player>},
// State enum, an unnamed obj and a second "Base" in another package.
func sampleGraph(t *testing.T) *types.Graph {
	t.Helper()
	g := types.NewGraph()
	i32 := g.Types.Add(types.Type{Kind: types.KindI32})
	base := g.Types.AddObj(types.KindObj, types.ObjInfo{
		Name:   g.Name("Base"),
		Fields: []types.Field{{Name: g.Name("id"), Type: i32}},
	})
	player := types.TypeID(g.Len() + 1)
	nullPlayer := player + 1
	g.Types.AddObj(types.KindObj, types.ObjInfo{
		Name:  g.Name("game.Player"),
		Super: base,
		Fields: []types.Field{
			{Name: g.Name("hp"), Type: i32},
			{Name: g.Name("next"), Type: nullPlayer},
		},
	})
	g.Types.Add(types.Type{Kind: types.KindNull, Elem: player})
	g.Types.AddEnum(types.EnumInfo{Name: g.Name("State"), Constructs: []types.EnumConstruct{{Name: g.Name("Idle")}}})
	g.Types.AddObj(types.KindObj, types.ObjInfo{})
	g.Types.AddObj(types.KindStruct, types.ObjInfo{Name: g.Name("base")})
	return g
}

func TestClassesAndFileNames(t *testing.T) {
	g := sampleGraph(t)
	roots := Classes(g)
	if len(roots) != 4 {
		t.Fatalf("expected 4 classes, got %d", len(roots))
	}
	got := FileNames(g, roots)
	want := []string{"Base", "game_Player", "type5", "base_6"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FileNames = %v, want %v", got, want)
		}
	}
}

func TestFileNamesAvoidGeneratedSuffixClash(t *testing.T) {
	g := types.NewGraph()
	var roots []types.TypeID
	for _, name := range []string{"A_3", "A", "X", "A", "a_3"} {
		roots = append(roots, g.Types.AddObj(types.KindObj, types.ObjInfo{Name: g.Name(name)}))
	}
	got := FileNames(g, roots)
	want := []string{"A_3", "A", "X", "A_4", "a_3_4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FileNames = %v, want %v", got, want)
		}
	}
	seen := make(map[string]bool)
	for _, n := range got {
		key := strings.ToLower(n)
		if seen[key] {
			t.Fatalf("duplicate file stem %q in %v", n, got)
		}
		seen[key] = true
	}
}

func TestRunKeepsEveryRootWithClashingNames(t *testing.T) {
	g := types.NewGraph()
	var roots []types.TypeID
	for _, name := range []string{"A_3", "A", "X", "A"} {
		roots = append(roots, g.Types.AddObj(types.KindObj, types.ObjInfo{Name: g.Name(name)}))
	}
	out := t.TempDir()
	res, err := Run(context.Background(), &Request{Graph: g, Roots: roots, OutDir: out, Jobs: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(roots) || len(res.Items) != len(roots) {
		t.Fatalf("expected %d files, got %d", len(roots), len(entries))
	}
}

func TestRunMatchesSequentialGenerate(t *testing.T) {
	g := sampleGraph(t)
	roots := Classes(g)
	out := t.TempDir()

	res, err := Run(context.Background(), &Request{Graph: g, Roots: roots, OutDir: out, Jobs: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Items) != len(roots) {
		t.Fatalf("expected %d items, got %d", len(roots), len(res.Items))
	}
	for i, it := range res.Items {
		if it.Root != roots[i] {
			t.Fatalf("item %d out of order", i)
		}
		want := pattern.Generate(g, roots[i])
		if it.Text != want {
			t.Fatalf("item %d text differs from Generate:\n%s\nvs\n%s", i, it.Text, want)
		}
		data, err := os.ReadFile(filepath.Join(out, it.Name+Ext))
		if err != nil {
			t.Fatalf("read %s: %v", it.Name, err)
		}
		if string(data) != want {
			t.Fatalf("file %s differs from text", it.Name)
		}
	}
}

func TestRunUsesCache(t *testing.T) {
	g := sampleGraph(t)
	roots := Classes(g)
	cache, err := pcache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("pcache.Open: %v", err)
	}
	req := &Request{Graph: g, Roots: roots, Cache: cache, Digest: project.Digest{9}}

	first, err := Run(context.Background(), req)
	if err != nil || first.Cached != 0 {
		t.Fatalf("first run: cached=%d err=%v", first.Cached, err)
	}
	second, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Cached != len(roots) {
		t.Fatalf("expected every root cached, got %d", second.Cached)
	}
	for i := range roots {
		if second.Items[i].Text != first.Items[i].Text {
			t.Fatalf("cached text differs for %s", first.Items[i].Name)
		}
	}

	req.MaxDepth = 3
	third, err := Run(context.Background(), req)
	if err != nil || third.Cached != 0 {
		t.Fatalf("changed depth must miss: cached=%d err=%v", third.Cached, err)
	}
}

func TestRunReportsProgress(t *testing.T) {
	g := sampleGraph(t)
	roots := Classes(g)
	ch := make(chan Event, 64)

	_, err := Run(context.Background(), &Request{Graph: g, Roots: roots, Progress: ChannelSink{Ch: ch}})
	close(ch)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	queued := map[string]bool{}
	done := map[string]bool{}
	for ev := range ch {
		switch {
		case ev.Status == StatusQueued:
			queued[ev.Name] = true
		case ev.Terminal():
			if ev.Status != StatusDone {
				t.Fatalf("unexpected terminal event %+v", ev)
			}
			done[ev.Name] = true
		}
	}
	if len(queued) != len(roots) || len(done) != len(roots) {
		t.Fatalf("queued=%v done=%v", queued, done)
	}
}

func TestRunRejectsBadRequests(t *testing.T) {
	if _, err := Run(context.Background(), nil); !errors.Is(err, ErrNoGraph) {
		t.Fatalf("expected ErrNoGraph, got %v", err)
	}
	g := sampleGraph(t)
	_, err := Run(context.Background(), &Request{Graph: g, Roots: []types.TypeID{99}})
	if !errors.Is(err, ErrUnknownRoot) {
		t.Fatalf("expected ErrUnknownRoot, got %v", err)
	}
	res, err := Run(context.Background(), &Request{Graph: g})
	if err != nil || len(res.Items) != 0 {
		t.Fatalf("empty run: %+v %v", res, err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	g := sampleGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &Request{Graph: g, Roots: Classes(g), Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunWriteFailureStops(t *testing.T) {
	g := sampleGraph(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "Base"+Ext)
	if err := os.Mkdir(blocker, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := Run(context.Background(), &Request{Graph: g, Roots: Classes(g)[:1], OutDir: dir})
	if err == nil {
		t.Fatalf("expected write error")
	}
}

func TestChannelSinkConcurrent(t *testing.T) {
	ch := make(chan Event, 16)
	sink := ChannelSink{Ch: ch}
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.OnEvent(Event{Name: "x", Status: StatusDone})
		}()
	}
	wg.Wait()
	close(ch)
	n := 0
	for range ch {
		n++
	}
	if n != 8 {
		t.Fatalf("expected 8 events, got %d", n)
	}
	ChannelSink{}.OnEvent(Event{})
}

package pcache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"hlrev/internal/pattern"
	"hlrev/internal/project"
	"hlrev/internal/types"
)

func TestPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key(project.Digest{1}, 3, 100)
	in := &Entry{Root: 3, MaxDepth: 100, Text: "struct A {\n};\n\n", Decls: []string{"A"}}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Text != in.Text || got.Root != 3 || len(got.Decls) != 1 || got.Schema != SchemaVersion {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestMissAndKeys(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok, err := c.Get(Key(project.Digest{}, 0, 0)); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	g := project.Digest{7}
	if Key(g, 1, 100) == Key(g, 2, 100) || Key(g, 1, 100) == Key(g, 1, 50) {
		t.Fatalf("keys must depend on root and depth")
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key(project.Digest{2}, 0, 100)
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data, err := msgpack.Marshal(&Entry{Schema: SchemaVersion + 1, Text: "stale"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("expected miss on schema mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestDropAll(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll on empty cache: %v", err)
	}
	key := Key(project.Digest{3}, 0, 1)
	if err := c.Put(key, &Entry{Text: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatalf("entry survived DropAll")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if err := c.Put(project.Digest{}, &Entry{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if _, ok, err := c.Get(project.Digest{}); ok || err != nil {
		t.Fatalf("nil Get: ok=%v err=%v", ok, err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := Key(project.Digest{}, i%2, 100)
			if err := c.Put(key, &Entry{Root: i % 2, Text: "t"}); err != nil {
				t.Errorf("Put: %v", err)
			}
			if _, _, err := c.Get(key); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "hlrev") {
		t.Fatalf("unexpected dir %q", dir)
	}
}

func TestFromPattern(t *testing.T) {
	g := types.NewGraph()
	root := g.Types.AddObj(types.KindObj, types.ObjInfo{Name: g.Name("A")})
	scalar := g.Types.Add(types.Type{Kind: types.KindI32})

	e := FromPattern(pattern.Compile(g, root), 0, 7)
	if e.Empty || e.MaxDepth != 7 || len(e.Decls) != 3 || e.Decls[2] != "A" {
		t.Fatalf("unexpected entry %+v", e)
	}
	if !FromPattern(pattern.Compile(g, scalar), 1, 7).Empty {
		t.Fatalf("scalar root should produce an empty entry")
	}
}

package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := in.Intern("hl.types.ArrayObj")
	if id1 == NoStringID {
		t.Fatalf("non-empty string interned as NoStringID")
	}
	if id2 := in.Intern("hl.types.ArrayObj"); id1 != id2 {
		t.Fatalf("same string got different ids: %d != %d", id1, id2)
	}
	if s, ok := in.Lookup(id1); !ok || s != "hl.types.ArrayObj" {
		t.Fatalf("lookup returned %q ok=%v", s, ok)
	}
	if id3 := in.Intern("String"); id3 == id1 {
		t.Fatalf("different strings share id %d", id3)
	}
	if in.Len() != 3 {
		t.Fatalf("expected len 3, got %d", in.Len())
	}
}

func TestInternerHas(t *testing.T) {
	in := NewInterner()
	if !in.Has(NoStringID) {
		t.Fatalf("NoStringID must always be present")
	}
	id := in.Intern("x")
	if !in.Has(id) {
		t.Fatalf("interned id %d reported missing", id)
	}
	if in.Has(StringID(9999)) {
		t.Fatalf("unknown id reported present")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLookup should panic on an unknown id")
		}
	}()
	in.MustLookup(StringID(42))
}

func TestInternerSnapshotIsCopy(t *testing.T) {
	in := NewInterner()
	in.Intern("a")
	snap := in.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	snap[1] = "mutated"
	if s, _ := in.Lookup(1); s != "a" {
		t.Fatalf("snapshot aliases interner storage")
	}
}

func TestInternerConcurrentIntern(t *testing.T) {
	in := NewInterner()
	const goroutines = 32
	const strings = 500

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for i := range strings {
				in.Intern(fmt.Sprintf("s_%d", i))
			}
		}()
	}
	wg.Wait()

	if in.Len() != strings+1 {
		t.Fatalf("expected %d strings, got %d", strings+1, in.Len())
	}
}

package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"hlrev/internal/pattern"
	"hlrev/internal/types"
)

// sampleDoc covers every kind with a side table plus a forward reference.
func sampleDoc() *Document {
	return &Document{
		Version: CurrentVersion,
		Types: []TypeDoc{
			{Kind: "i32"},
			{Kind: "bytes"},
			{Kind: "obj", Name: "Base", Fields: []FieldDoc{{Name: "id", Type: 0}}},
			{Kind: "obj", Name: "game.Player", Super: Ref(2), Fields: []FieldDoc{
				{Name: "name", Type: 1},
				{Name: "next", Type: 4},
				{Name: "state", Type: 5},
			}},
			{Kind: "null", Elem: Ref(3)},
			{Kind: "enum", Name: "State", Constructs: []ConstructDoc{
				{Name: "Idle"},
				{Name: "Moving", Params: []int{0, 0}},
			}},
			{Kind: "fun", Args: []int{3}, Ret: Ref(0)},
			{Kind: "virtual", Fields: []FieldDoc{{Name: "x", Type: 0}}},
			{Kind: "abstract", Name: "hl_tls"},
			{Kind: "struct", Name: "Vec", Fields: []FieldDoc{{Name: "x", Type: 0}}},
		},
	}
}

func TestBuildRegistersInOrder(t *testing.T) {
	g, err := Build(sampleDoc())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Len() != 10 {
		t.Fatalf("expected 10 types, got %d", g.Len())
	}
	id, ok := g.ByIndex(3)
	if !ok {
		t.Fatalf("index 3 missing")
	}
	info, ok := g.ObjInfo(id)
	if !ok {
		t.Fatalf("index 3 has no obj info")
	}
	if got := g.DisplayName(info.Name); got != "game.Player" {
		t.Fatalf("unexpected name %q", got)
	}
	if g.Index(info.Super) != 2 {
		t.Fatalf("super should be index 2, got %d", g.Index(info.Super))
	}
	if g.Index(info.Fields[1].Type) != 4 {
		t.Fatalf("forward field ref should be index 4, got %d", g.Index(info.Fields[1].Type))
	}
	enumID, _ := g.ByIndex(5)
	enum, ok := g.EnumInfo(enumID)
	if !ok || len(enum.Constructs) != 2 || len(enum.Constructs[1].Params) != 2 {
		t.Fatalf("unexpected enum info %+v", enum)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name  string
		types []TypeDoc
		kind  ErrorKind
		index int
	}{
		{"unknown kind", []TypeDoc{{Kind: "tuple"}}, ErrUnknownKind, 0},
		{"field out of range", []TypeDoc{{Kind: "i32"}, {Kind: "obj", Name: "A", Fields: []FieldDoc{{Name: "f", Type: 7}}}}, ErrBadRef, 1},
		{"negative super", []TypeDoc{{Kind: "obj", Name: "A", Super: Ref(-1)}}, ErrBadRef, 0},
		{"ref without elem", []TypeDoc{{Kind: "ref"}}, ErrMissingRef, 0},
		{"fun without ret", []TypeDoc{{Kind: "fun", Args: []int{}}}, ErrMissingRef, 0},
		{"enum param out of range", []TypeDoc{{Kind: "enum", Name: "E", Constructs: []ConstructDoc{{Name: "A", Params: []int{1}}}}}, ErrBadRef, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(&Document{Version: CurrentVersion, Types: tc.types})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, &Error{Kind: tc.kind}) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if gerr.Index != tc.index {
				t.Fatalf("expected index %d, got %d", tc.index, gerr.Index)
			}
		})
	}
}

func TestBuildRejectsNewerVersion(t *testing.T) {
	_, err := Build(&Document{Version: CurrentVersion + 1})
	if !errors.Is(err, &Error{Kind: ErrVersion}) {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestFromGraphInvertsBuild(t *testing.T) {
	doc := sampleDoc()
	g, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	back := FromGraph(g)
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", doc, back)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	doc := sampleDoc()
	want, err := Digest(doc)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	for _, f := range []Format{FormatJSON, FormatMsgpack, FormatCBOR} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, f, doc); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(doc, got) {
				t.Fatalf("decoded document differs:\nwant %+v\ngot  %+v", doc, got)
			}
			sum, err := Digest(got)
			if err != nil {
				t.Fatalf("Digest: %v", err)
			}
			if sum != want {
				t.Fatalf("digest changed across %s", f)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"g.json", "g.mp", "g.cbor"} {
		path := filepath.Join(dir, name)
		if err := SaveFile(path, sampleDoc()); err != nil {
			t.Fatalf("SaveFile(%s): %v", name, err)
		}
		g, _, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		root, _ := g.ByIndex(3)
		if text := pattern.Generate(g, root); !bytes.Contains([]byte(text), []byte("struct game_Player {")) {
			t.Fatalf("%s: pattern missing player struct:\n%s", name, text)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.json":    FormatJSON,
		"a.JSON":    FormatJSON,
		"a.msgpack": FormatMsgpack,
		"a.mp":      FormatMsgpack,
		"a.cbor":    FormatCBOR,
	}
	for path, want := range cases {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("a.txt"); !errors.Is(err, &Error{Kind: ErrFormat}) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("{not json")), FormatJSON)
	if !errors.Is(err, &Error{Kind: ErrDecode}) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestBuiltGraphSatisfiesCompiler(t *testing.T) {
	var _ pattern.Graph = (*types.Graph)(nil)
}

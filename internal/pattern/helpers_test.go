package pattern

import (
	"strings"
	"testing"

	"hlrev/internal/types"
)

const prelude = "struct StDynamic {\n" +
	"    s32* hl_type: u64;\n" +
	"};\n\n" +
	"struct Array {\n" +
	"\tu64 stack;\n" +
	"\ts32* hl_type: u64;\n" +
	"\ts32 size;\n" +
	"\ts32 pad;\n" +
	"\tStDynamic* elements[]: u64;\n" +
	"};\n\n"

// graphBuilder registers types in order; forward references use the ids
// returned by reserve-free arithmetic (index+1), like the document loader.
type graphBuilder struct {
	t *testing.T
	g *types.Graph
}

func newGraph(t *testing.T) *graphBuilder {
	t.Helper()
	return &graphBuilder{t: t, g: types.NewGraph()}
}

func (b *graphBuilder) next() types.TypeID {
	return types.TypeID(b.g.Len() + 1)
}

func (b *graphBuilder) scalar(k types.Kind) types.TypeID {
	return b.g.Types.Add(types.Type{Kind: k})
}

func (b *graphBuilder) wrap(k types.Kind, inner types.TypeID) types.TypeID {
	return b.g.Types.Add(types.Type{Kind: k, Elem: inner})
}

type fieldSpec struct {
	name string
	typ  types.TypeID
}

func (b *graphBuilder) obj(name string, super types.TypeID, fields ...fieldSpec) types.TypeID {
	return b.objKind(types.KindObj, name, super, fields...)
}

func (b *graphBuilder) objKind(kind types.Kind, name string, super types.TypeID, fields ...fieldSpec) types.TypeID {
	fs := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		fs = append(fs, types.Field{Name: b.g.Name(f.name), Type: f.typ})
	}
	return b.g.Types.AddObj(kind, types.ObjInfo{Name: b.g.Name(name), Super: super, Fields: fs})
}

func (b *graphBuilder) enum(name string, cases ...string) types.TypeID {
	cs := make([]types.EnumConstruct, 0, len(cases))
	for _, c := range cases {
		cs = append(cs, types.EnumConstruct{Name: b.g.Name(c)})
	}
	return b.g.Types.AddEnum(types.EnumInfo{Name: b.g.Name(name), Constructs: cs})
}

func headerCount(text, header string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if line == header {
			n++
		}
	}
	return n
}

func declHeaders(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "struct ") || strings.HasPrefix(line, "enum ") {
			out = append(out, line)
		}
	}
	return out
}

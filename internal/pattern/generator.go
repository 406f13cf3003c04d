package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hlrev/internal/source"
	"hlrev/internal/types"
)

// Graph is the read-only view of a type graph the compiler needs.
// *types.Graph satisfies it. Callers must keep the graph unchanged for the
// duration of a Compile call.
type Graph interface {
	Resolve(id types.TypeID) (types.Type, bool)
	ObjInfo(id types.TypeID) (*types.ObjInfo, bool)
	EnumInfo(id types.TypeID) (*types.EnumInfo, bool)
	DisplayName(id source.StringID) string
}

// DeclKind distinguishes struct and enum declarations.
type DeclKind uint8

const (
	DeclStruct DeclKind = iota + 1
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Decl names one emitted declaration.
type Decl struct {
	Kind DeclKind
	Name string
}

// Pattern is the result of one compilation.
type Pattern struct {
	Root  types.TypeID
	Text  string
	Decls []Decl // emission order, prelude included
}

// Empty reports whether nothing beyond the prelude was emitted, i.e. the
// root type has no declaration of its own.
func (p *Pattern) Empty() bool {
	return p == nil || len(p.Decls) <= len(preludeNames)
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.Text
}

// Generate compiles root and returns the pattern text.
func Generate(g Graph, root types.TypeID, opts ...Option) string {
	return Compile(g, root, opts...).Text
}

// Compile compiles root into a pattern. It never fails: roots without a
// declaration (functions, scalars, unresolved ids...) yield the prelude only.
func Compile(g Graph, root types.TypeID, opts ...Option) *Pattern {
	e := newEmitter(g, buildOptions(opts))
	e.writePrelude()
	if g != nil && root != types.NoTypeID {
		e.expand(root, 0)
	}
	return &Pattern{Root: root, Text: e.out.String(), Decls: e.decls}
}

// emitter holds the state of a single compilation. It is never shared.
type emitter struct {
	g        Graph
	log      *zap.Logger
	maxDepth int

	memo  map[string]struct{} // declaration names, filled before recursing
	out   strings.Builder
	decls []Decl

	// lastArray names the most recent array container. Arrays carry no
	// element type, so array-typed fields point at whichever container was
	// emitted last.
	lastArray string
}

func newEmitter(g Graph, o options) *emitter {
	return &emitter{
		g:        g,
		log:      o.log,
		maxDepth: o.maxDepth,
		memo:     make(map[string]struct{}, 32),
	}
}

func (e *emitter) expand(id types.TypeID, depth int) {
	if depth > e.maxDepth {
		e.log.Debug("depth cap reached", zap.Uint32("type", uint32(id)), zap.Int("depth", depth))
		return
	}
	e.resolve(id).expand(e, depth)
}

func (e *emitter) leaf(id types.TypeID, depth int) fieldType {
	if depth > e.maxDepth {
		return dynamicField
	}
	return e.resolve(id).leaf(e, depth)
}

// claim records name as emitted and reports whether it was new.
func (e *emitter) claim(name string) bool {
	if _, ok := e.memo[name]; ok {
		return false
	}
	e.memo[name] = struct{}{}
	return true
}

func (e *emitter) emitObject(info *types.ObjInfo, depth int) {
	name := Sanitize(e.g.DisplayName(info.Name))
	if !e.claim(name) {
		return
	}

	if info.Super != types.NoTypeID {
		e.expand(info.Super, depth+1)
	}
	for _, f := range info.Fields {
		e.expand(f.Type, depth+1)
	}

	var b strings.Builder
	b.WriteString("struct " + name + " {\n")
	b.WriteString("    " + typePointerField + "\n")
	if super, ok := e.superName(info.Super); ok {
		b.WriteString("    " + super + " super;\n")
	}
	for i, f := range info.Fields {
		ft := e.leaf(f.Type, 0)
		b.WriteString("    " + ft.render(e.memberName(f.Name, "field", i)) + ";\n")
	}
	b.WriteString("};\n\n")
	e.out.WriteString(b.String())
	e.decls = append(e.decls, Decl{Kind: DeclStruct, Name: name})
}

// superName resolves a superclass reference, looking through ref wrappers,
// to the declaration name of an object type.
func (e *emitter) superName(id types.TypeID) (string, bool) {
	for range e.maxDepth {
		if id == types.NoTypeID {
			return "", false
		}
		tt, ok := e.g.Resolve(id)
		if !ok {
			return "", false
		}
		switch {
		case tt.Kind == types.KindRef:
			id = tt.Elem
		case tt.Kind.IsObjectLike():
			info, ok := e.g.ObjInfo(id)
			if !ok {
				return "", false
			}
			return Sanitize(e.g.DisplayName(info.Name)), true
		default:
			return "", false
		}
	}
	return "", false
}

func (e *emitter) emitEnum(info *types.EnumInfo) {
	name := Sanitize(e.g.DisplayName(info.Name))
	if !e.claim(name) {
		return
	}

	var b strings.Builder
	b.WriteString("enum " + name + ": s32 {\n")
	for i, c := range info.Constructs {
		// construct parameters are not laid out
		b.WriteString("    " + e.memberName(c.Name, "case", i) + " = " + strconv.Itoa(i) + ",\n")
	}
	b.WriteString("};\n\n")
	e.out.WriteString(b.String())
	e.decls = append(e.decls, Decl{Kind: DeclEnum, Name: name})
}

// emitArray appends a fresh array container and makes it the target of
// array-typed fields from now on.
func (e *emitter) emitArray() {
	n := len(e.memo) - len(preludeNames)
	name := fmt.Sprintf("%s_%d", arrayDecl, n)
	for !e.claim(name) {
		n++
		name = fmt.Sprintf("%s_%d", arrayDecl, n)
	}
	e.writeArrayBlock(name)
	e.lastArray = name
}

// arrayRef is the leaf type of array-typed fields. Before any array
// container was emitted it falls back to the prelude's generic one.
func (e *emitter) arrayRef() fieldType {
	if e.lastArray == "" {
		return structField(arrayDecl)
	}
	return structField(e.lastArray)
}

func (e *emitter) memberName(id source.StringID, fallback string, index int) string {
	if name := Sanitize(e.g.DisplayName(id)); name != "" {
		return name
	}
	return fallback + strconv.Itoa(index)
}

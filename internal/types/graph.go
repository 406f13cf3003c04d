package types

import (
	"hlrev/internal/source"
)

// Graph is a loaded, read-only type graph: the type table plus the string
// table its names point into. Build it once, then share it freely between
// readers.
type Graph struct {
	Types   *Table
	Strings *source.Interner
}

// NewGraph returns an empty graph ready for registration.
func NewGraph() *Graph {
	return &Graph{Types: NewTable(), Strings: source.NewInterner()}
}

// Len returns the number of types in bytecode order.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return g.Types.Len()
}

// ByIndex maps a bytecode type index to its TypeID.
func (g *Graph) ByIndex(index int) (TypeID, bool) {
	if index < 0 || index >= g.Len() {
		return NoTypeID, false
	}
	return TypeID(index + 1), true
}

// Index is the inverse of ByIndex; -1 for NoTypeID.
func (g *Graph) Index(id TypeID) int {
	return int(id) - 1
}

// Resolve returns the node descriptor for id.
func (g *Graph) Resolve(id TypeID) (Type, bool) {
	if g == nil {
		return Type{}, false
	}
	return g.Types.Lookup(id)
}

// ObjInfo returns obj/struct metadata.
func (g *Graph) ObjInfo(id TypeID) (*ObjInfo, bool) {
	if g == nil {
		return nil, false
	}
	return g.Types.ObjInfo(id)
}

// EnumInfo returns enum metadata.
func (g *Graph) EnumInfo(id TypeID) (*EnumInfo, bool) {
	if g == nil {
		return nil, false
	}
	return g.Types.EnumInfo(id)
}

// VirtualInfo returns virtual metadata.
func (g *Graph) VirtualInfo(id TypeID) (*VirtualInfo, bool) {
	if g == nil {
		return nil, false
	}
	return g.Types.VirtualInfo(id)
}

// DisplayName resolves an interned name; unknown ids render as "".
func (g *Graph) DisplayName(id source.StringID) string {
	if g == nil || g.Strings == nil {
		return ""
	}
	s, _ := g.Strings.Lookup(id)
	return s
}

// Name interns s in the graph's string table.
func (g *Graph) Name(s string) source.StringID {
	return g.Strings.Intern(s)
}

// TypeName returns the declared name of a nominal type (obj, struct, enum,
// abstract) and "" for everything else.
func (g *Graph) TypeName(id TypeID) string {
	tt, ok := g.Resolve(id)
	if !ok {
		return ""
	}
	switch tt.Kind {
	case KindObj, KindStruct:
		if info, ok := g.Types.ObjInfo(id); ok {
			return g.DisplayName(info.Name)
		}
	case KindEnum:
		if info, ok := g.Types.EnumInfo(id); ok {
			return g.DisplayName(info.Name)
		}
	case KindAbstract:
		if info, ok := g.Types.AbstractInfo(id); ok {
			return g.DisplayName(info.Name)
		}
	}
	return ""
}

package types

import (
	"hlrev/internal/source"
)

// Field is a named member of an object, struct or virtual.
type Field struct {
	Name source.StringID
	Type TypeID
}

// ObjInfo stores metadata for obj and struct types.
type ObjInfo struct {
	Name   source.StringID
	Super  TypeID // NoTypeID when the class has no parent
	Fields []Field
}

// VirtualInfo stores the field list of an anonymous virtual.
type VirtualInfo struct {
	Fields []Field
}

// AbstractInfo names an opaque host type.
type AbstractInfo struct {
	Name source.StringID
}

// AddObj registers an obj or struct type.
func (t *Table) AddObj(kind Kind, info ObjInfo) TypeID {
	if !kind.IsObjectLike() {
		panic("types: AddObj with non-object kind " + kind.String())
	}
	t.objs = append(t.objs, ObjInfo{
		Name:   info.Name,
		Super:  info.Super,
		Fields: cloneFields(info.Fields),
	})
	return t.appendType(Type{Kind: kind, Payload: slotOf(len(t.objs))})
}

// ObjInfo returns metadata for an obj or struct TypeID.
func (t *Table) ObjInfo(id TypeID) (*ObjInfo, bool) {
	tt, ok := t.Lookup(id)
	if !ok || !tt.Kind.IsObjectLike() {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(t.objs) {
		return nil, false
	}
	return &t.objs[tt.Payload], true
}

// AddVirtual registers a virtual type.
func (t *Table) AddVirtual(info VirtualInfo) TypeID {
	t.virtuals = append(t.virtuals, VirtualInfo{Fields: cloneFields(info.Fields)})
	return t.appendType(Type{Kind: KindVirtual, Payload: slotOf(len(t.virtuals))})
}

// VirtualInfo returns the field list of a virtual TypeID.
func (t *Table) VirtualInfo(id TypeID) (*VirtualInfo, bool) {
	tt, ok := t.Lookup(id)
	if !ok || tt.Kind != KindVirtual {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(t.virtuals) {
		return nil, false
	}
	return &t.virtuals[tt.Payload], true
}

// AddAbstract registers an abstract type.
func (t *Table) AddAbstract(info AbstractInfo) TypeID {
	t.abstracts = append(t.abstracts, info)
	return t.appendType(Type{Kind: KindAbstract, Payload: slotOf(len(t.abstracts))})
}

// AbstractInfo returns metadata for an abstract TypeID.
func (t *Table) AbstractInfo(id TypeID) (*AbstractInfo, bool) {
	tt, ok := t.Lookup(id)
	if !ok || tt.Kind != KindAbstract {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(t.abstracts) {
		return nil, false
	}
	return &t.abstracts[tt.Payload], true
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

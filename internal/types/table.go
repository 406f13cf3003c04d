package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Table stores the type graph in bytecode order: the type at bytecode
// index i has TypeID i+1. Nominal kinds keep their metadata in side tables
// addressed by Type.Payload; slot 0 of every side table is a sentinel.
type Table struct {
	types     []Type
	objs      []ObjInfo
	enums     []EnumInfo
	funs      []FunInfo
	virtuals  []VirtualInfo
	abstracts []AbstractInfo
}

// NewTable returns an empty table with sentinel slots reserved.
func NewTable() *Table {
	return &Table{
		types:     []Type{{Kind: KindInvalid}},
		objs:      []ObjInfo{{}},
		enums:     []EnumInfo{{}},
		funs:      []FunInfo{{}},
		virtuals:  []VirtualInfo{{}},
		abstracts: []AbstractInfo{{}},
	}
}

// Len returns the number of registered types, the sentinel excluded.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.types) - 1
}

// Add appends a structural descriptor (scalars, ref/null/packed wrappers,
// dyn, array, bytes...). Nominal kinds must go through their Add* helper.
func (t *Table) Add(tt Type) TypeID {
	return t.appendType(tt)
}

// Lookup returns the descriptor for id.
func (t *Table) Lookup(id TypeID) (Type, bool) {
	if t == nil || id == NoTypeID || int(id) >= len(t.types) {
		return Type{}, false
	}
	return t.types[id], true
}

// MustLookup panics when id is invalid.
func (t *Table) MustLookup(id TypeID) Type {
	tt, ok := t.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

func (t *Table) appendType(tt Type) TypeID {
	n, err := safecast.Conv[uint32](len(t.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	t.types = append(t.types, tt)
	return TypeID(n)
}

func slotOf(n int) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("side table overflow: %w", err))
	}
	return slot
}

func cloneIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}

package types //nolint:revive

import (
	"hlrev/internal/source"
)

// EnumConstruct is one constructor of an enum; Params are its payload types.
type EnumConstruct struct {
	Name   source.StringID
	Params []TypeID
}

// EnumInfo stores metadata for an enum type.
type EnumInfo struct {
	Name       source.StringID
	Constructs []EnumConstruct
}

// AddEnum registers an enum type.
func (t *Table) AddEnum(info EnumInfo) TypeID {
	t.enums = append(t.enums, EnumInfo{
		Name:       info.Name,
		Constructs: cloneConstructs(info.Constructs),
	})
	return t.appendType(Type{Kind: KindEnum, Payload: slotOf(len(t.enums))})
}

// EnumInfo returns metadata for the provided enum TypeID.
func (t *Table) EnumInfo(id TypeID) (*EnumInfo, bool) {
	tt, ok := t.Lookup(id)
	if !ok || tt.Kind != KindEnum {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(t.enums) {
		return nil, false
	}
	return &t.enums[tt.Payload], true
}

func cloneConstructs(cs []EnumConstruct) []EnumConstruct {
	if len(cs) == 0 {
		return nil
	}
	out := make([]EnumConstruct, len(cs))
	for i, c := range cs {
		out[i] = EnumConstruct{Name: c.Name, Params: cloneIDs(c.Params)}
	}
	return out
}

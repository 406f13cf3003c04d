package types //nolint:revive

// FunInfo stores the signature of fun and method types.
type FunInfo struct {
	Args []TypeID
	Ret  TypeID
}

// AddFun registers a fun or method type.
func (t *Table) AddFun(kind Kind, info FunInfo) TypeID {
	if kind != KindFun && kind != KindMethod {
		panic("types: AddFun with non-function kind " + kind.String())
	}
	t.funs = append(t.funs, FunInfo{Args: cloneIDs(info.Args), Ret: info.Ret})
	return t.appendType(Type{Kind: kind, Payload: slotOf(len(t.funs))})
}

// FunInfo retrieves the signature by TypeID.
func (t *Table) FunInfo(id TypeID) (*FunInfo, bool) {
	tt, ok := t.Lookup(id)
	if !ok || (tt.Kind != KindFun && tt.Kind != KindMethod) {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(t.funs) {
		return nil, false
	}
	return &t.funs[tt.Payload], true
}

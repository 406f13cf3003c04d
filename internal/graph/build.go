package graph

import (
	"fmt"

	"fortio.org/safecast"

	"hlrev/internal/types"
)

// Build validates doc and registers its types into a fresh graph.
func Build(doc *Document) (*types.Graph, error) {
	if doc == nil {
		return nil, docError(ErrDecode, "nil document")
	}
	if doc.Version > CurrentVersion {
		return nil, docError(ErrVersion, "version %d, newest supported is %d", doc.Version, CurrentVersion)
	}
	b := &builder{g: types.NewGraph(), n: len(doc.Types)}
	if _, err := safecast.Conv[uint32](b.n); err != nil {
		return nil, docError(ErrBadRef, "too many types: %v", err)
	}
	for i := range doc.Types {
		if err := b.add(i, &doc.Types[i]); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

type builder struct {
	g *types.Graph
	n int
}

// ref converts a bytecode index into the TypeID it will have once every
// type is registered. Forward references are fine.
func (b *builder) ref(owner, index int, what string) (types.TypeID, error) {
	if index < 0 || index >= b.n {
		return types.NoTypeID, typeError(ErrBadRef, owner, "%s refers to type#%d of %d", what, index, b.n)
	}
	return types.TypeID(index + 1), nil
}

func (b *builder) optRef(owner int, index *int, what string) (types.TypeID, error) {
	if index == nil {
		return types.NoTypeID, nil
	}
	return b.ref(owner, *index, what)
}

func (b *builder) refs(owner int, indices []int, what string) ([]types.TypeID, error) {
	if len(indices) == 0 {
		return nil, nil
	}
	out := make([]types.TypeID, len(indices))
	for i, idx := range indices {
		id, err := b.ref(owner, idx, fmt.Sprintf("%s[%d]", what, i))
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (b *builder) fields(owner int, docs []FieldDoc) ([]types.Field, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]types.Field, len(docs))
	for i, f := range docs {
		id, err := b.ref(owner, f.Type, "field "+f.Name)
		if err != nil {
			return nil, err
		}
		out[i] = types.Field{Name: b.g.Name(f.Name), Type: id}
	}
	return out, nil
}

func (b *builder) add(index int, td *TypeDoc) error {
	kind, ok := types.ParseKind(td.Kind)
	if !ok {
		return typeError(ErrUnknownKind, index, "%q", td.Kind)
	}

	var err error
	switch kind {
	case types.KindObj, types.KindStruct:
		var info types.ObjInfo
		info.Name = b.g.Name(td.Name)
		if info.Super, err = b.optRef(index, td.Super, "super"); err != nil {
			return err
		}
		if info.Fields, err = b.fields(index, td.Fields); err != nil {
			return err
		}
		b.g.Types.AddObj(kind, info)

	case types.KindEnum:
		info := types.EnumInfo{Name: b.g.Name(td.Name)}
		for i, c := range td.Constructs {
			params, err := b.refs(index, c.Params, fmt.Sprintf("construct %d params", i))
			if err != nil {
				return err
			}
			info.Constructs = append(info.Constructs, types.EnumConstruct{Name: b.g.Name(c.Name), Params: params})
		}
		b.g.Types.AddEnum(info)

	case types.KindFun, types.KindMethod:
		var info types.FunInfo
		if info.Args, err = b.refs(index, td.Args, "args"); err != nil {
			return err
		}
		if td.Ret == nil {
			return typeError(ErrMissingRef, index, "%s without ret", kind)
		}
		if info.Ret, err = b.ref(index, *td.Ret, "ret"); err != nil {
			return err
		}
		b.g.Types.AddFun(kind, info)

	case types.KindVirtual:
		var info types.VirtualInfo
		if info.Fields, err = b.fields(index, td.Fields); err != nil {
			return err
		}
		b.g.Types.AddVirtual(info)

	case types.KindAbstract:
		b.g.Types.AddAbstract(types.AbstractInfo{Name: b.g.Name(td.Name)})

	case types.KindRef, types.KindNull, types.KindPacked:
		if td.Elem == nil {
			return typeError(ErrMissingRef, index, "%s without elem", kind)
		}
		elem, err := b.ref(index, *td.Elem, "elem")
		if err != nil {
			return err
		}
		b.g.Types.Add(types.Type{Kind: kind, Elem: elem})

	default:
		b.g.Types.Add(types.Type{Kind: kind})
	}
	return nil
}

// FromGraph is the inverse of Build.
func FromGraph(g *types.Graph) *Document {
	doc := &Document{Version: CurrentVersion, Types: make([]TypeDoc, 0, g.Len())}
	index := func(id types.TypeID) int { return g.Index(id) }
	optIndex := func(id types.TypeID) *int {
		if id == types.NoTypeID {
			return nil
		}
		return Ref(index(id))
	}
	fieldDocs := func(fs []types.Field) []FieldDoc {
		if len(fs) == 0 {
			return nil
		}
		out := make([]FieldDoc, len(fs))
		for i, f := range fs {
			out[i] = FieldDoc{Name: g.DisplayName(f.Name), Type: index(f.Type)}
		}
		return out
	}
	indices := func(ids []types.TypeID) []int {
		if len(ids) == 0 {
			return nil
		}
		out := make([]int, len(ids))
		for i, id := range ids {
			out[i] = index(id)
		}
		return out
	}

	for i := range g.Len() {
		id, _ := g.ByIndex(i)
		tt, _ := g.Resolve(id)
		td := TypeDoc{Kind: tt.Kind.String()}
		switch tt.Kind {
		case types.KindObj, types.KindStruct:
			if info, ok := g.ObjInfo(id); ok {
				td.Name = g.DisplayName(info.Name)
				td.Super = optIndex(info.Super)
				td.Fields = fieldDocs(info.Fields)
			}
		case types.KindEnum:
			if info, ok := g.EnumInfo(id); ok {
				td.Name = g.DisplayName(info.Name)
				for _, c := range info.Constructs {
					td.Constructs = append(td.Constructs, ConstructDoc{Name: g.DisplayName(c.Name), Params: indices(c.Params)})
				}
			}
		case types.KindFun, types.KindMethod:
			if info, ok := g.Types.FunInfo(id); ok {
				td.Args = indices(info.Args)
				td.Ret = optIndex(info.Ret)
			}
		case types.KindVirtual:
			if info, ok := g.VirtualInfo(id); ok {
				td.Fields = fieldDocs(info.Fields)
			}
		case types.KindAbstract:
			td.Name = g.TypeName(id)
		case types.KindRef, types.KindNull, types.KindPacked:
			td.Elem = optIndex(tt.Elem)
		}
		doc.Types = append(doc.Types, td)
	}
	return doc
}

package types

import (
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(g *Graph, id TypeID) string {
	return labelDepth(g, id, 0)
}

func labelDepth(g *Graph, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := g.Resolve(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindObj, KindStruct, KindEnum, KindAbstract:
		if name := g.TypeName(id); name != "" {
			return name
		}
		return tt.Kind.String()
	case KindRef, KindNull, KindPacked:
		return tt.Kind.String() + "<" + labelDepth(g, tt.Elem, depth+1) + ">"
	case KindFun, KindMethod:
		info, ok := g.Types.FunInfo(id)
		if !ok {
			return tt.Kind.String()
		}
		args := make([]string, 0, len(info.Args))
		for _, a := range info.Args {
			args = append(args, labelDepth(g, a, depth+1))
		}
		return "(" + strings.Join(args, ", ") + ") -> " + labelDepth(g, info.Ret, depth+1)
	case KindVirtual:
		info, ok := g.Types.VirtualInfo(id)
		if !ok {
			return "virtual<>"
		}
		fields := make([]string, 0, len(info.Fields))
		for _, f := range info.Fields {
			fields = append(fields, g.DisplayName(f.Name)+": "+labelDepth(g, f.Type, depth+1))
		}
		return "virtual<" + strings.Join(fields, ", ") + ">"
	default:
		return tt.Kind.String()
	}
}

package pattern

import (
	"fmt"

	"go.uber.org/zap"

	"hlrev/internal/types"
)

// node is one resolved type-graph node. Every kind of the type system maps
// to exactly one variant, and each variant answers both questions the
// compiler asks: which declarations it needs (expand) and how a field of
// this type is written (leaf).
type node interface {
	expand(e *emitter, depth int)
	leaf(e *emitter, depth int) fieldType
}

type (
	scalarNode struct{ kind types.Kind }
	bytesNode  struct{}
	dynNode    struct{}
	arrayNode  struct{}
	objNode    struct {
		kind types.Kind
		info *types.ObjInfo
	}
	enumNode struct{ info *types.EnumInfo }
	refNode  struct{ inner types.TypeID }
	nullNode struct{ inner types.TypeID }
	// opaqueNode covers kinds with no declaration and a boxed-value leaf:
	// functions, virtuals and the runtime-internal kinds.
	opaqueNode struct{ kind types.Kind }
)

// resolve is the single place that dispatches on types.Kind.
func (e *emitter) resolve(id types.TypeID) node {
	tt, ok := e.g.Resolve(id)
	if !ok {
		e.log.Debug("unresolved type", zap.Uint32("type", uint32(id)))
		return opaqueNode{kind: types.KindInvalid}
	}
	switch tt.Kind {
	case types.KindVoid, types.KindU8, types.KindU16, types.KindI32,
		types.KindI64, types.KindF32, types.KindF64, types.KindBool:
		return scalarNode{kind: tt.Kind}
	case types.KindBytes:
		return bytesNode{}
	case types.KindDyn:
		return dynNode{}
	case types.KindArray:
		return arrayNode{}
	case types.KindObj, types.KindStruct:
		info, ok := e.g.ObjInfo(id)
		if !ok {
			e.log.Debug("object without metadata", zap.Uint32("type", uint32(id)))
			return opaqueNode{kind: tt.Kind}
		}
		return objNode{kind: tt.Kind, info: info}
	case types.KindEnum:
		info, ok := e.g.EnumInfo(id)
		if !ok {
			e.log.Debug("enum without metadata", zap.Uint32("type", uint32(id)))
			return opaqueNode{kind: tt.Kind}
		}
		return enumNode{info: info}
	case types.KindRef:
		return refNode{inner: tt.Elem}
	case types.KindNull:
		return nullNode{inner: tt.Elem}
	case types.KindFun, types.KindMethod, types.KindVirtual, types.KindType,
		types.KindDynObj, types.KindAbstract, types.KindPacked, types.KindGuid,
		types.KindInvalid:
		return opaqueNode{kind: tt.Kind}
	default:
		panic(fmt.Sprintf("pattern: unhandled type kind %v", tt.Kind))
	}
}

func (scalarNode) expand(*emitter, int) {}

func (n scalarNode) leaf(*emitter, int) fieldType {
	switch n.kind {
	case types.KindVoid:
		return basicField("u64")
	case types.KindU8:
		return basicField("u8")
	case types.KindU16:
		return basicField("u16")
	case types.KindI32:
		return basicField("s32")
	case types.KindI64:
		return basicField("s64")
	case types.KindF32:
		return basicField("float")
	case types.KindF64:
		return basicField("double")
	case types.KindBool:
		return basicField("bool")
	default:
		return dynamicField
	}
}

func (bytesNode) expand(*emitter, int) {}

func (bytesNode) leaf(*emitter, int) fieldType { return arrayOf(basicField("u8")) }

func (dynNode) expand(*emitter, int) {}

func (dynNode) leaf(*emitter, int) fieldType { return dynamicField }

func (arrayNode) expand(e *emitter, _ int) { e.emitArray() }

func (arrayNode) leaf(e *emitter, _ int) fieldType { return e.arrayRef() }

func (n objNode) expand(e *emitter, depth int) {
	e.emitObject(n.info, depth)
}

func (n objNode) leaf(e *emitter, _ int) fieldType {
	raw := e.g.DisplayName(n.info.Name)
	if raw == arrayObjectName {
		return e.arrayRef()
	}
	return structField(Sanitize(raw))
}

func (n enumNode) expand(e *emitter, _ int) { e.emitEnum(n.info) }

// enum values are heap blocks; a field holds a pointer to one
func (enumNode) leaf(*emitter, int) fieldType { return dynamicField }

func (n refNode) expand(e *emitter, depth int) { e.expand(n.inner, depth+1) }

func (n refNode) leaf(e *emitter, depth int) fieldType { return e.leaf(n.inner, depth+1) }

// Nullable is transparent for expansion; only the field line shows it.
func (n nullNode) expand(e *emitter, depth int) { e.expand(n.inner, depth+1) }

func (n nullNode) leaf(e *emitter, depth int) fieldType {
	return nullableOf(e.leaf(n.inner, depth+1))
}

func (opaqueNode) expand(*emitter, int) {}

func (opaqueNode) leaf(*emitter, int) fieldType { return dynamicField }

package types

import "fmt"

// TypeID identifies a node of the type graph.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates every node kind of the bytecode type system.
// The set is closed; code switching on Kind is expected to be exhaustive.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindU8
	KindU16
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindBytes
	KindDyn
	KindFun
	KindObj
	KindArray
	KindType
	KindRef
	KindVirtual
	KindDynObj
	KindAbstract
	KindEnum
	KindNull
	KindMethod
	KindStruct
	KindPacked
	KindGuid
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindVoid:     "void",
	KindU8:       "u8",
	KindU16:      "u16",
	KindI32:      "i32",
	KindI64:      "i64",
	KindF32:      "f32",
	KindF64:      "f64",
	KindBool:     "bool",
	KindBytes:    "bytes",
	KindDyn:      "dyn",
	KindFun:      "fun",
	KindObj:      "obj",
	KindArray:    "array",
	KindType:     "type",
	KindRef:      "ref",
	KindVirtual:  "virtual",
	KindDynObj:   "dynobj",
	KindAbstract: "abstract",
	KindEnum:     "enum",
	KindNull:     "null",
	KindMethod:   "method",
	KindStruct:   "struct",
	KindPacked:   "packed",
	KindGuid:     "guid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if k == int(KindInvalid) {
			continue
		}
		if name == s {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// IsScalar reports fixed-width primitive kinds.
func (k Kind) IsScalar() bool {
	switch k {
	case KindVoid, KindU8, KindU16, KindI32, KindI64, KindF32, KindF64, KindBool:
		return true
	default:
		return false
	}
}

// IsObjectLike reports kinds carrying ObjInfo.
func (k Kind) IsObjectLike() bool {
	return k == KindObj || k == KindStruct
}

// HasElem reports kinds that wrap a single inner type in Type.Elem.
func (k Kind) HasElem() bool {
	return k == KindRef || k == KindNull || k == KindPacked
}

// Type is a compact descriptor for any node of the graph.
type Type struct {
	Kind    Kind
	Elem    TypeID // inner type for ref/null/packed
	Payload uint32 // slot in the side table of the kind
}

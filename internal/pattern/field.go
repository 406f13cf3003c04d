package pattern

// fieldShape classifies how a field type is written inline.
type fieldShape uint8

const (
	shapeBasic fieldShape = iota
	shapeStruct
	shapeArray
	shapeNullable
)

// fieldType is the result of the leaf mapping.
type fieldType struct {
	shape fieldShape
	name  string     // keyword for basic, declaration name for struct
	elem  *fieldType // element for array, inner for nullable
}

func basicField(keyword string) fieldType { return fieldType{shape: shapeBasic, name: keyword} }

func structField(name string) fieldType { return fieldType{shape: shapeStruct, name: name} }

func arrayOf(elem fieldType) fieldType { return fieldType{shape: shapeArray, elem: &elem} }

func nullableOf(inner fieldType) fieldType { return fieldType{shape: shapeNullable, elem: &inner} }

var dynamicField = structField(dynamicDecl)

// named reports the element name when ft is a plain basic or struct type.
func (ft fieldType) named() (string, bool) {
	if ft.shape == shapeBasic || ft.shape == shapeStruct {
		return ft.name, true
	}
	return "", false
}

// render writes one field line body, without indentation or semicolon.
func (ft fieldType) render(field string) string {
	switch ft.shape {
	case shapeArray:
		elem := dynamicDecl
		if ft.elem != nil {
			if name, ok := ft.elem.named(); ok {
				elem = name
			}
		}
		return elem + "* " + field + "[]: u64"
	case shapeNullable:
		inner := dynamicDecl
		if ft.elem != nil {
			if name, ok := ft.elem.named(); ok {
				inner = name
			}
		}
		return "nullable<" + inner + "> " + field
	default:
		return ft.name + " " + field
	}
}

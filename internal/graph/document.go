package graph

// CurrentVersion is the document version written by this package.
const CurrentVersion = 1

// Document is a serialized type graph.
type Document struct {
	Version int       `json:"version" msgpack:"version" cbor:"version"`
	Types   []TypeDoc `json:"types" msgpack:"types" cbor:"types"`
}

// TypeDoc is one type of the graph. Which fields are meaningful depends on
// Kind (see types.Kind for the names).
type TypeDoc struct {
	Kind       string         `json:"kind" msgpack:"kind" cbor:"kind"`
	Name       string         `json:"name,omitempty" msgpack:"name,omitempty" cbor:"name,omitempty"`
	Super      *int           `json:"super,omitempty" msgpack:"super,omitempty" cbor:"super,omitempty"`
	Elem       *int           `json:"elem,omitempty" msgpack:"elem,omitempty" cbor:"elem,omitempty"`
	Fields     []FieldDoc     `json:"fields,omitempty" msgpack:"fields,omitempty" cbor:"fields,omitempty"`
	Constructs []ConstructDoc `json:"constructs,omitempty" msgpack:"constructs,omitempty" cbor:"constructs,omitempty"`
	Args       []int          `json:"args,omitempty" msgpack:"args,omitempty" cbor:"args,omitempty"`
	Ret        *int           `json:"ret,omitempty" msgpack:"ret,omitempty" cbor:"ret,omitempty"`
}

// FieldDoc is a named member of an obj, struct or virtual.
type FieldDoc struct {
	Name string `json:"name" msgpack:"name" cbor:"name"`
	Type int    `json:"type" msgpack:"type" cbor:"type"`
}

// ConstructDoc is one enum constructor.
type ConstructDoc struct {
	Name   string `json:"name" msgpack:"name" cbor:"name"`
	Params []int  `json:"params,omitempty" msgpack:"params,omitempty" cbor:"params,omitempty"`
}

// Ref returns a pointer to index, for optional references.
func Ref(index int) *int {
	return &index
}

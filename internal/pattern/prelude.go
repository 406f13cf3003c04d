package pattern

const (
	dynamicDecl = "StDynamic"
	arrayDecl   = "Array"

	// the pointer to the runtime type descriptor heading every boxed value
	typePointerField = "s32* hl_type: u64;"

	// magic object name the runtime uses for its array class
	arrayObjectName = "array"
)

var preludeNames = []string{dynamicDecl, arrayDecl}

func (e *emitter) writePrelude() {
	e.memo[dynamicDecl] = struct{}{}
	e.out.WriteString("struct " + dynamicDecl + " {\n    " + typePointerField + "\n};\n\n")
	e.decls = append(e.decls, Decl{Kind: DeclStruct, Name: dynamicDecl})

	e.memo[arrayDecl] = struct{}{}
	e.writeArrayBlock(arrayDecl)
}

// writeArrayBlock appends an array container declaration. The body is the
// runtime array header followed by the element pointers.
func (e *emitter) writeArrayBlock(name string) {
	e.out.WriteString("struct " + name + " {\n")
	e.out.WriteString("\tu64 stack;\n")
	e.out.WriteString("\t" + typePointerField + "\n")
	e.out.WriteString("\ts32 size;\n")
	e.out.WriteString("\ts32 pad;\n")
	e.out.WriteString("\t" + dynamicDecl + "* elements[]: u64;\n")
	e.out.WriteString("};\n\n")
	e.decls = append(e.decls, Decl{Kind: DeclStruct, Name: name})
}

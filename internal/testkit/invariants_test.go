package testkit

import (
	"strings"
	"testing"
)

const prelude = "struct StDynamic {\n    s32* hl_type: u64;\n};\n\n" +
	"struct Array {\n\tu64 stack;\n\ts32* hl_type: u64;\n\ts32 size;\n\ts32 pad;\n\tStDynamic* elements[]: u64;\n};\n\n"

func TestCheckPatternAccepts(t *testing.T) {
	text := prelude +
		"enum State: s32 {\n    Idle = 0,\n    Dead = 1,\n};\n\n" +
		"struct Player {\n    s32* hl_type: u64;\n    Base super;\n    u8* name[]: u64;\n    nullable<Player> next;\n    StDynamic state;\n};\n\n" +
		"struct Base {\n    s32* hl_type: u64;\n};\n\n"
	if err := CheckPattern(text); err != nil {
		t.Fatalf("CheckPattern: %v", err)
	}
	if err := CheckPattern(prelude); err != nil {
		t.Fatalf("prelude alone: %v", err)
	}
}

func TestCheckPatternRejects(t *testing.T) {
	cases := map[string]string{
		"missing prelude": "struct A {\n};\n\n",
		"duplicate":       prelude + "struct A {\n};\n\nstruct A {\n};\n\n",
		"unterminated":    prelude + "struct A {\n    s32 x;\n",
		"undeclared":      prelude + "struct A {\n    Ghost g;\n};\n\n",
		"bad enum number": prelude + "enum E: s32 {\n    X = 1,\n};\n\n",
		"no blank line":   prelude + "struct A {\n};\nstruct B {\n};\n\n",
		"stray text":      prelude + "hello\n",
		"missing semi":    prelude + "struct A {\n    s32 x\n};\n\n",
	}
	for name, text := range cases {
		if err := CheckPattern(text); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestCheckPatternReportsLine(t *testing.T) {
	err := CheckPattern(prelude + "struct A {\n    Ghost g;\n};\n\n")
	if err == nil || !strings.Contains(err.Error(), "line 14") {
		t.Fatalf("expected line 14 in error, got %v", err)
	}
}

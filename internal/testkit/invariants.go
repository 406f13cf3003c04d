// Package testkit checks structural invariants of compiled patterns. Tests
// across the module run it over compiler output.
package testkit

import (
	"fmt"
	"strconv"
	"strings"
)

var builtinTypes = map[string]bool{
	"u8": true, "u16": true, "u64": true, "s32": true, "s64": true,
	"float": true, "double": true, "bool": true,
}

type typeRef struct {
	name string
	line int
}

// CheckPattern verifies that text:
//  1. opens with the StDynamic and Array prelude
//  2. is a sequence of terminated struct/enum blocks, each followed by a blank line
//  3. declares every name at most once
//  4. only references builtin or declared type names
//  5. numbers enum cases 0..n-1
func CheckPattern(text string) error {
	if !strings.HasPrefix(text, "struct StDynamic {\n") {
		return fmt.Errorf("pattern does not start with the StDynamic prelude")
	}
	lines := strings.Split(text, "\n")
	declared := make(map[string]bool)
	var order []string
	var refs []typeRef

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		name, isEnum, err := parseHeader(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if declared[name] {
			return fmt.Errorf("line %d: %q declared twice", i+1, name)
		}
		declared[name] = true
		order = append(order, name)

		start := i
		for i++; i < len(lines) && lines[i] != "};"; i++ {
			member := strings.TrimSpace(lines[i])
			if isEnum {
				if err := checkCase(member, i-start-1); err != nil {
					return fmt.Errorf("line %d: %w", i+1, err)
				}
				continue
			}
			typ, err := fieldType(member)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			if !builtinTypes[typ] {
				refs = append(refs, typeRef{name: typ, line: i + 1})
			}
		}
		if i >= len(lines) {
			return fmt.Errorf("line %d: %q is not terminated", start+1, name)
		}
		if i+1 >= len(lines) || lines[i+1] != "" {
			return fmt.Errorf("line %d: missing blank line after %q", i+1, name)
		}
	}

	if len(order) < 2 || order[0] != "StDynamic" || order[1] != "Array" {
		return fmt.Errorf("prelude order is %v", order)
	}
	for _, r := range refs {
		if !declared[r.name] {
			return fmt.Errorf("line %d: undeclared type %q", r.line, r.name)
		}
	}
	return nil
}

func parseHeader(line string) (string, bool, error) {
	if rest, ok := strings.CutPrefix(line, "struct "); ok {
		name, ok := strings.CutSuffix(rest, " {")
		if !ok || name == "" {
			return "", false, fmt.Errorf("malformed struct header %q", line)
		}
		return name, false, nil
	}
	if rest, ok := strings.CutPrefix(line, "enum "); ok {
		name, ok := strings.CutSuffix(rest, ": s32 {")
		if !ok || name == "" {
			return "", true, fmt.Errorf("malformed enum header %q", line)
		}
		return name, true, nil
	}
	return "", false, fmt.Errorf("expected a declaration, got %q", line)
}

// fieldType returns the type a struct member refers to.
func fieldType(member string) (string, error) {
	body, ok := strings.CutSuffix(member, ";")
	if !ok {
		return "", fmt.Errorf("member %q lacks ';'", member)
	}
	if inner, ok := strings.CutPrefix(body, "nullable<"); ok {
		end := strings.IndexByte(inner, '>')
		if end <= 0 {
			return "", fmt.Errorf("malformed nullable %q", member)
		}
		return inner[:end], nil
	}
	typ, _, ok := strings.Cut(body, " ")
	if !ok || typ == "" {
		return "", fmt.Errorf("malformed member %q", member)
	}
	return strings.TrimSuffix(typ, "*"), nil
}

func checkCase(member string, want int) error {
	body, ok := strings.CutSuffix(member, ",")
	if !ok {
		return fmt.Errorf("enum case %q lacks ','", member)
	}
	name, num, ok := strings.Cut(body, " = ")
	if !ok || name == "" {
		return fmt.Errorf("malformed enum case %q", member)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n != want {
		return fmt.Errorf("enum case %q should be numbered %d", member, want)
	}
	return nil
}

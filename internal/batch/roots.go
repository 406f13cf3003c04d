package batch

import (
	"fmt"
	"strings"

	"hlrev/internal/pattern"
	"hlrev/internal/types"
)

// Classes returns every obj and struct type in bytecode order.
func Classes(g *types.Graph) []types.TypeID {
	return g.OfKind(types.KindObj, types.KindStruct)
}

// FileNames assigns each root a distinct file stem: the sanitized type name,
// or "type<index>" for unnamed types. Stems compare case-insensitively. A
// later duplicate gets "_<index>", bumped until no earlier stem holds it.
func FileNames(g *types.Graph, roots []types.TypeID) []string {
	names := make([]string, len(roots))
	seen := make(map[string]struct{}, len(roots))
	taken := func(name string) bool {
		_, ok := seen[strings.ToLower(name)]
		return ok
	}
	for i, id := range roots {
		idx := g.Index(id)
		name := pattern.Sanitize(g.TypeName(id))
		if name == "" {
			name = fmt.Sprintf("type%d", idx)
		}
		for base, k := name, idx; taken(name); k++ {
			name = fmt.Sprintf("%s_%d", base, k)
		}
		seen[strings.ToLower(name)] = struct{}{}
		names[i] = name
	}
	return names
}

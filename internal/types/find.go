package types //nolint:revive

import (
	"strings"
)

// FindByName returns every nominal type whose declared name matches name,
// ignoring case, in bytecode order.
func (g *Graph) FindByName(name string) []TypeID {
	if g == nil || name == "" {
		return nil
	}
	var out []TypeID
	for i := range g.Len() {
		id := TypeID(i + 1)
		if strings.EqualFold(g.TypeName(id), name) {
			out = append(out, id)
		}
	}
	return out
}

// OfKind returns every TypeID whose kind is one of kinds, in bytecode order.
func (g *Graph) OfKind(kinds ...Kind) []TypeID {
	if g == nil {
		return nil
	}
	var out []TypeID
	for i := range g.Len() {
		id := TypeID(i + 1)
		tt, _ := g.Resolve(id)
		for _, k := range kinds {
			if tt.Kind == k {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

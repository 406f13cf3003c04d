package inspect

import (
	"fmt"
	"strings"
)

// ItemKind is the category of a selectable bytecode item.
type ItemKind uint8

const (
	ItemClass ItemKind = iota + 1
	ItemFunction
	ItemNative
	ItemGlobal
	ItemString
	ItemConstant
)

var itemKindNames = [...]string{
	ItemClass:    "class",
	ItemFunction: "function",
	ItemNative:   "native",
	ItemGlobal:   "global",
	ItemString:   "string",
	ItemConstant: "constant",
}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) && itemKindNames[k] != "" {
		return itemKindNames[k]
	}
	return fmt.Sprintf("ItemKind(%d)", k)
}

// ParseItemKind accepts the names printed by ItemKind.String.
func ParseItemKind(s string) (ItemKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range itemKindNames {
		if name != "" && name == s {
			return ItemKind(k), true
		}
	}
	return 0, false
}

// Item points at one entry of a bytecode section. For classes Index is the
// type's bytecode index.
type Item struct {
	Kind  ItemKind
	Index int
}

func (it Item) String() string {
	return fmt.Sprintf("%s@%d", it.Kind, it.Index)
}

// Class selects the type at bytecode index.
func Class(index int) Item {
	return Item{Kind: ItemClass, Index: index}
}

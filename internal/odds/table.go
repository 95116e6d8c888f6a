package odds

import "fmt"

// Table is an immutable, ordered set of packs keyed by id.
type Table struct {
	packs []Pack
	index map[string]int
}

// NewTable indexes packs in the given order. Later duplicates of an id are
// ignored.
func NewTable(packs []Pack) *Table {
	t := &Table{index: make(map[string]int, len(packs))}
	for _, p := range packs {
		if _, dup := t.index[p.ID]; dup {
			continue
		}
		t.index[p.ID] = len(t.packs)
		t.packs = append(t.packs, p)
	}
	return t
}

// Lookup returns the pack with the given id.
func (t *Table) Lookup(id string) (Pack, error) {
	i, ok := t.index[id]
	if !ok {
		return Pack{}, fmt.Errorf("%w: %q", ErrPackNotFound, id)
	}
	return t.packs[i], nil
}

// List returns every pack in catalog order.
func (t *Table) List() []Pack {
	return append([]Pack(nil), t.packs...)
}

// ByTheme filters the catalog to one theme.
func (t *Table) ByTheme(theme Theme) []Pack {
	var out []Pack
	for _, p := range t.packs {
		if p.Theme == theme {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) Len() int { return len(t.packs) }

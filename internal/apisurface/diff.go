// SPDX-License-Identifier: MPL-2.0

package apisurface

// Change records one item whose declaration text differs between two
// snapshots under the same name.
type Change struct {
	Name string
	Old  string
	New  string
}

// APIDiff is the structural difference between two snapshots. All three
// slices are sorted by item name.
type APIDiff struct {
	Added   []Item
	Removed []Item
	Changed []Change
}

// Empty reports whether the two snapshots were identical.
func (d APIDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Breaking reports whether the diff removes or alters existing items.
// Additions alone are never breaking.
func (d APIDiff) Breaking() bool {
	return len(d.Removed) > 0 || len(d.Changed) > 0
}

// Diff compares two snapshots. An item present in both under the same name
// with different declaration text yields exactly one Changed entry, never an
// Added/Removed pair; byte-identical items appear nowhere.
func Diff(old, new PublicAPI) APIDiff {
	var d APIDiff
	for _, name := range old.Names() {
		oldDecl, _ := old.Decl(name)
		newDecl, ok := new.Decl(name)
		switch {
		case !ok:
			d.Removed = append(d.Removed, Item{Name: name, Decl: oldDecl})
		case oldDecl != newDecl:
			d.Changed = append(d.Changed, Change{Name: name, Old: oldDecl, New: newDecl})
		}
	}
	for _, name := range new.Names() {
		if _, ok := old.Decl(name); !ok {
			decl, _ := new.Decl(name)
			d.Added = append(d.Added, Item{Name: name, Decl: decl})
		}
	}
	return d
}

// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"fmt"
	"sort"
	"strings"
)

// Item is one public declaration in canonical textual form.
type Item struct {
	// Name is the item's stable identity, e.g. "func wire.NewConn" or
	// "method (*wire.Conn) Close". Two revisions of the same item share it.
	Name string
	// Decl is the full rendered declaration line, beginning with Name.
	Decl string
}

// PublicAPI is an order-independent set of public item declarations for one
// module under one feature configuration at one revision. The zero value is
// an empty surface.
type PublicAPI struct {
	items map[string]string
}

// NewPublicAPI builds a surface from items. Later duplicates of a name win.
func NewPublicAPI(items ...Item) PublicAPI {
	api := PublicAPI{items: make(map[string]string, len(items))}
	for _, it := range items {
		api.items[it.Name] = it.Decl
	}
	return api
}

func (a *PublicAPI) add(name, decl string) {
	if a.items == nil {
		a.items = make(map[string]string)
	}
	a.items[name] = decl
}

// Len returns the number of items.
func (a PublicAPI) Len() int { return len(a.items) }

// Decl returns the declaration for name and whether it is present.
func (a PublicAPI) Decl(name string) (string, bool) {
	decl, ok := a.items[name]
	return decl, ok
}

// Names returns all item names, sorted.
func (a PublicAPI) Names() []string {
	names := make([]string, 0, len(a.items))
	for name := range a.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Items returns all items sorted by name.
func (a PublicAPI) Items() []Item {
	items := make([]Item, 0, len(a.items))
	for _, name := range a.Names() {
		items = append(items, Item{Name: name, Decl: a.items[name]})
	}
	return items
}

// Equal reports whether two surfaces contain the same declaration set.
func (a PublicAPI) Equal(b PublicAPI) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for name, decl := range a.items {
		if other, ok := b.items[name]; !ok || other != decl {
			return false
		}
	}
	return true
}

// Render returns the canonical file form: one declaration per line, sorted.
func (a PublicAPI) Render() string {
	if len(a.items) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, name := range a.Names() {
		sb.WriteString(a.items[name])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PackageAPISet maps every catalog configuration to its surface snapshot for
// one module at one revision.
type PackageAPISet map[FeatureConfig]PublicAPI

// Complete verifies the set carries exactly one snapshot per catalog entry.
// Consumers treat an incomplete set as a precondition failure.
func (s PackageAPISet) Complete() error {
	for _, cfg := range Configs() {
		if _, ok := s[cfg]; !ok {
			return fmt.Errorf("missing %s snapshot", cfg)
		}
	}
	return nil
}

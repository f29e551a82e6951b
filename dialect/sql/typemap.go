package sql

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/schema"
)

// Template placeholders substituted by TypeMap.Resolve.
const (
	SizePlaceholder      = "$size"
	PrecisionPlaceholder = "$precision"
)

// TypeMap maps semantic types to native type templates. Each type has an
// optional default template, used when no size is given, and any number of
// size tiers. TypeMap is filled once at construction and read-only after.
type TypeMap struct {
	types map[schema.Type]*typeEntry
}

type typeEntry struct {
	def   string
	tiers []typeTier
}

type typeTier struct {
	max      int
	template string
}

// NewTypeMap returns an empty TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{types: make(map[schema.Type]*typeEntry)}
}

func (m *TypeMap) entry(t schema.Type) *typeEntry {
	e, ok := m.types[t]
	if !ok {
		e = &typeEntry{}
		m.types[t] = e
	}
	return e
}

// Set sets the default template of t.
func (m *TypeMap) Set(t schema.Type, template string) *TypeMap {
	m.entry(t).def = template
	return m
}

// SetMax adds a template used for sizes up to and including limit. Tiers
// are kept in ascending order of limit.
func (m *TypeMap) SetMax(t schema.Type, limit int, template string) *TypeMap {
	e := m.entry(t)
	i, found := slices.BinarySearchFunc(e.tiers, limit, func(tt typeTier, limit int) int {
		return cmp.Compare(tt.max, limit)
	})
	if found {
		e.tiers[i].template = template
		return m
	}
	e.tiers = slices.Insert(e.tiers, i, typeTier{max: limit, template: template})
	return m
}

// Has reports whether t has any mapping.
func (m *TypeMap) Has(t schema.Type) bool {
	_, ok := m.types[t]
	return ok
}

// Resolve returns the native type of t. A size <= 0 selects the default
// template. Otherwise the first tier whose max is >= size wins, falling back
// to the default template if no tier fits.
func (m *TypeMap) Resolve(t schema.Type, size, precision int) (string, error) {
	e, ok := m.types[t]
	if !ok {
		return "", migrix.NewUnmappedTypeError(t.String(), size)
	}
	template := e.def
	if size > 0 {
		for _, tt := range e.tiers {
			if tt.max >= size {
				template = tt.template
				break
			}
		}
	}
	if template == "" {
		return "", migrix.NewUnmappedTypeError(t.String(), size)
	}
	return expand(template, size, precision), nil
}

func expand(template string, size, precision int) string {
	if !strings.Contains(template, "$") {
		return template
	}
	return strings.NewReplacer(
		SizePlaceholder, strconv.Itoa(size),
		PrecisionPlaceholder, strconv.Itoa(precision),
	).Replace(template)
}

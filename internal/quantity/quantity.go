// Package quantity extracts a canonical floor-area value from the quantity
// sets attached to a space.
package quantity

import (
	"strings"

	"vkfcheck/internal/model"
)

// DefaultAreaNames are the recognized area quantity names in normalized form.
var DefaultAreaNames = []string{
	"NETFLOORAREA",
	"GROSSFLOORAREA",
	"NETAREA",
	"GROSSAREA",
	"AREA",
}

// NormalizeName uppercases a quantity name and strips spaces and underscores,
// so "net_floor_area", "NetFloorArea" and "NET FLOOR AREA" compare equal.
func NormalizeName(name string) string {
	name = strings.ToUpper(name)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return -1
		}
		return r
	}, name)
}

// Extractor finds the first recognized area quantity of a space.
type Extractor struct {
	names map[string]struct{}
}

// NewExtractor creates an extractor for the given names. Names are normalized;
// an empty list uses DefaultAreaNames.
func NewExtractor(names ...string) *Extractor {
	if len(names) == 0 {
		names = DefaultAreaNames
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if key := NormalizeName(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return &Extractor{names: set}
}

// Recognizes reports whether name normalizes to a recognized area name.
func (x *Extractor) Recognizes(name string) bool {
	_, ok := x.names[NormalizeName(name)]
	return ok
}

// Area returns the value of the first area quantity whose name is recognized.
// Quantities of other kinds and quantities without a readable value are skipped.
func (x *Extractor) Area(space model.Entity) (float64, bool) {
	if space == nil {
		return 0, false
	}
	for _, set := range space.QuantitySets() {
		for _, q := range set.Quantities {
			if q.Kind != model.QuantityArea || !x.Recognizes(q.Name) {
				continue
			}
			if q.Value == nil {
				continue
			}
			return *q.Value, true
		}
	}
	return 0, false
}

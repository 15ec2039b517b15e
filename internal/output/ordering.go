package output

import (
	"sort"
)

// SortByElevation sorts rows by elevation ASC with absent elevations last.
// The sort is stable, so rows with equal elevations keep model order.
func SortByElevation[T any](rows []T, elevation func(T) *float64) {
	sort.SliceStable(rows, func(i, j int) bool {
		ei, ej := elevation(rows[i]), elevation(rows[j])
		// Primary: presence, absent last
		if (ei == nil) != (ej == nil) {
			return ei != nil
		}
		// Secondary: elevation ASC
		return ei != nil && *ei < *ej
	})
}

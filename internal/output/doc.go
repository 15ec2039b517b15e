// Package output provides deterministic rounding, ordering and encoding for
// check results.
//
// Identical models must produce byte-identical reports, so every renderer
// goes through this package:
//
//   - floats are rounded half away from zero to a fixed number of decimals
//   - storey rows are ordered by elevation ascending, storeys without an
//     elevation last, equal elevations in model order
//   - JSON object keys are sorted and absent values render as null unless
//     the field is omitempty
//   - YAML output is produced from the same normalized tree as JSON
//
// # Usage
//
//	rows := report.Area.Storeys
//	output.SortByElevation(rows, func(s StoreyRow) *float64 { return s.Elevation })
//
//	data, err := output.EncodeJSON(report, output.Precision, "  ")
package output

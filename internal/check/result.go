package check

import (
	"fmt"

	"vkfcheck/internal/metrics"
	"vkfcheck/internal/output"
)

const unnamedStorey = "<unnamed>"

// HeightResult is the building height with its VKF category. ValueMeters is
// nil when no storey exists; Category is then "n/a".
type HeightResult struct {
	ModelPath   string          `json:"modelPath,omitempty"`
	ValueMeters *float64        `json:"valueMeters"`
	Category    string          `json:"category"`
	Reason      string          `json:"reason,omitempty"`
	Levels      []metrics.Level `json:"levels,omitempty"`
}

// Rounded returns the height rounded to the report precision.
func (r HeightResult) Rounded() *float64 {
	return output.RoundPtr(r.ValueMeters)
}

// TextLines renders the height and its category.
func (r HeightResult) TextLines() []string {
	if r.ValueMeters == nil {
		return []string{
			"Height [m]=n/a",
			"Building category (VKF, height): n/a",
		}
	}
	return []string{
		"Height [m]=" + output.FormatFloat(*r.ValueMeters, output.Precision),
		"Building category (VKF, height): " + r.Category,
	}
}

// StoreyArea is one storey row of an area result.
type StoreyArea struct {
	Name      string   `json:"name"`
	Elevation *float64 `json:"elevation,omitempty"`
	AreaM2    float64  `json:"areaM2"`
	Comment   string   `json:"comment,omitempty"`
}

// AreaResult lists the storeys with a positive floor area and their sum.
// TotalM2 is nil when no storey qualifies.
type AreaResult struct {
	ModelPath     string       `json:"modelPath,omitempty"`
	TotalM2       *float64     `json:"totalM2"`
	SmallBuilding string       `json:"smallBuilding,omitempty"`
	Storeys       []StoreyArea `json:"storeys"`
	Spaces        int          `json:"spaces"`
	Unassigned    int          `json:"unassignedSpaces"`
	Reason        string       `json:"reason,omitempty"`
}

// RoundedTotal returns the total rounded to the report precision.
func (r AreaResult) RoundedTotal() *float64 {
	return output.RoundPtr(r.TotalM2)
}

// TextLines renders the total, the small-building comment and one line per
// storey. The storey order is the result order.
func (r AreaResult) TextLines() []string {
	var lines []string
	if r.ModelPath != "" {
		lines = append(lines, "Model: "+r.ModelPath)
	}

	if r.TotalM2 == nil || len(r.Storeys) == 0 {
		return append(lines,
			"Building area (VKF) could not be determined (no matching space areas found).")
	}

	lines = append(lines,
		fmt.Sprintf("Building area (VKF, sum of storey areas from spaces): %s m²", output.FormatFixed(*r.TotalM2, 1)))
	if r.SmallBuilding != "" {
		lines = append(lines, "Small-footprint assessment: "+r.SmallBuilding)
	}
	lines = append(lines, "", "Storey areas (from space quantities):")

	for _, s := range r.Storeys {
		label := s.Name
		if label == "" {
			label = unnamedStorey
		}
		if s.Elevation != nil {
			label += fmt.Sprintf(" (z = %s m)", output.FormatFixed(*s.Elevation, 2))
		}
		line := fmt.Sprintf("  - %s: %s m²", label, output.FormatFixed(s.AreaM2, 1))
		if s.Comment != "" {
			line += " [" + s.Comment + "]"
		}
		lines = append(lines, line)
	}
	return lines
}

// Report is the combined outcome of Engine.Check.
type Report struct {
	ModelPath string       `json:"modelPath,omitempty"`
	Schema    string       `json:"schema,omitempty"`
	Height    HeightResult `json:"height"`
	Area      AreaResult   `json:"area"`
}

// SetModelPath records the source path on the report and both results.
func (r *Report) SetModelPath(path string) {
	r.ModelPath = path
	r.Height.ModelPath = path
	r.Area.ModelPath = path
}

// TextLines renders the height lines followed by the area lines.
func (r *Report) TextLines() []string {
	lines := r.Height.TextLines()
	return append(lines, r.Area.TextLines()...)
}

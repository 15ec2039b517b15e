package loader

import (
	"fmt"

	"vkfcheck/internal/ifc"
	"vkfcheck/internal/model"
)

// Summary describes a loaded model without evaluating it.
type Summary struct {
	Path     string     `json:"path,omitempty"`
	Format   Format     `json:"format,omitempty"`
	Schema   string     `json:"schema"`
	Products int        `json:"products"`
	Storeys  int        `json:"storeys"`
	Spaces   int        `json:"spaces"`
	Units    *ifc.Units `json:"units,omitempty"`
}

// Summarize counts the placed products, storeys and spaces of m.
func Summarize(m model.Model) Summary {
	s := Summary{
		Schema:   m.Schema(),
		Products: len(m.ByType(model.TypeProduct)),
		Storeys:  len(m.ByType(model.TypeBuildingStorey)),
		Spaces:   len(m.ByType(model.TypeSpace)),
	}
	if im, ok := m.(*ifc.Model); ok {
		u := im.Units()
		s.Units = &u
	}
	return s
}

// TextLines renders the summary for terminal output.
func (s Summary) TextLines() []string {
	schema := s.Schema
	if schema == "" {
		schema = "unknown"
	}
	lines := []string{}
	if s.Path != "" {
		lines = append(lines, "Model: "+s.Path)
	}
	lines = append(lines,
		"Schema: "+schema,
		fmt.Sprintf("Products: %d", s.Products),
		fmt.Sprintf("Storeys: %d", s.Storeys),
		fmt.Sprintf("Spaces: %d", s.Spaces),
	)
	if s.Units != nil {
		lines = append(lines, fmt.Sprintf("Length unit factor: %g", s.Units.Length))
	}
	return lines
}

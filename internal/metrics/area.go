package metrics

import (
	"log/slog"

	"vkfcheck/internal/hierarchy"
	"vkfcheck/internal/model"
	"vkfcheck/internal/quantity"
	"vkfcheck/internal/slogutil"
)

// ReasonNoPositiveArea is reported when no storey summed to a positive area.
const ReasonNoPositiveArea = "no storey with a positive space area"

// StoreyArea is the summed space area of one storey.
type StoreyArea struct {
	Name      string   `json:"name"`
	Elevation *float64 `json:"elevation,omitempty"`
	AreaM2    float64  `json:"areaM2"`
}

// Area is the result of an area aggregation.
type Area struct {
	Total      *float64     `json:"total,omitempty"`
	Storeys    []StoreyArea `json:"storeys,omitempty"`
	Spaces     int          `json:"spaces"`
	Unassigned int          `json:"unassigned"`
	Reason     string       `json:"reason,omitempty"`
}

// AreaAggregator sums space areas per storey.
type AreaAggregator struct {
	hierarchy  *hierarchy.Resolver
	quantities *quantity.Extractor
	logger     *slog.Logger
}

// NewAreaAggregator creates an aggregator. Nil collaborators use the defaults.
func NewAreaAggregator(h *hierarchy.Resolver, q *quantity.Extractor, logger *slog.Logger) *AreaAggregator {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	if h == nil {
		h = hierarchy.NewResolver(logger)
	}
	if q == nil {
		q = quantity.NewExtractor()
	}
	return &AreaAggregator{hierarchy: h, quantities: q, logger: logger}
}

// Compute sums the area of each storey's spaces. Spaces without an extractable
// area contribute nothing. Storeys whose sum is not strictly positive are left
// out, and the total is absent when no storey remains. Storeys are returned in
// model order.
func (a *AreaAggregator) Compute(m model.Model) Area {
	spaces := m.ByType(model.TypeSpace)
	res := a.hierarchy.Resolve(m.ByType(model.TypeBuildingStorey), spaces)

	out := Area{Spaces: len(spaces), Unassigned: len(res.Unassigned)}
	total := 0.0
	for _, asg := range res.Storeys {
		sum := 0.0
		for _, space := range asg.Spaces {
			v, ok := a.quantities.Area(space)
			if !ok {
				a.logger.Debug("space has no area quantity", "space", space.ID(), "name", model.DisplayName(space))
				continue
			}
			sum += v
		}
		if sum <= 0 {
			continue
		}

		sa := StoreyArea{Name: model.DisplayName(asg.Storey), AreaM2: sum}
		if z, ok := asg.Storey.Elevation(); ok {
			sa.Elevation = &z
		}
		out.Storeys = append(out.Storeys, sa)
		total += sum
	}

	if len(out.Storeys) == 0 {
		out.Reason = ReasonNoPositiveArea
		a.logger.Debug("area undetermined", "reason", out.Reason, "spaces", len(spaces))
		return out
	}
	out.Total = &total
	return out
}

// Package metrics computes building height and floor-area aggregates from a
// loaded model. Results carry optional values: nil means the metric could not
// be determined, which is distinct from a computed 0.0.
package metrics

import (
	"log/slog"
	"math"

	"vkfcheck/internal/model"
	"vkfcheck/internal/placement"
	"vkfcheck/internal/slogutil"
)

// ReasonNoStoreys is reported when a model contains no storeys.
const ReasonNoStoreys = "model contains no storeys"

// Level is the resolved absolute height of one storey.
type Level struct {
	ID   model.EntityID `json:"id"`
	Name string         `json:"name"`
	Z    float64        `json:"z"`
}

// Height is the result of a height computation.
type Height struct {
	Value  *float64 `json:"value,omitempty"`
	Levels []Level  `json:"levels,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// HeightCalculator derives the building height as the spread of storey
// absolute elevations.
type HeightCalculator struct {
	resolver *placement.Resolver
	logger   *slog.Logger
}

// NewHeightCalculator creates a calculator. A nil resolver uses the defaults.
func NewHeightCalculator(resolver *placement.Resolver, logger *slog.Logger) *HeightCalculator {
	if resolver == nil {
		resolver = placement.NewResolver()
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &HeightCalculator{resolver: resolver, logger: logger}
}

// Compute returns max(z) - min(z) over all storeys. A single storey yields
// 0.0; a model without storeys yields no value.
func (c *HeightCalculator) Compute(m model.Model) Height {
	storeys := m.ByType(model.TypeBuildingStorey)
	if len(storeys) == 0 {
		c.logger.Debug("height undetermined", "reason", ReasonNoStoreys)
		return Height{Reason: ReasonNoStoreys}
	}

	levels := make([]Level, 0, len(storeys))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range storeys {
		z := c.resolver.AbsoluteZ(s)
		levels = append(levels, Level{ID: s.ID(), Name: model.DisplayName(s), Z: z})
		lo = math.Min(lo, z)
		hi = math.Max(hi, z)
	}

	h := hi - lo
	c.logger.Debug("height computed", "storeys", len(storeys), "min_z", lo, "max_z", hi, "height", h)
	return Height{Value: &h, Levels: levels}
}

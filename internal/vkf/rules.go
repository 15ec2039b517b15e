// Package vkf maps building metrics to VKF fire-safety categories.
//
// All functions are pure and total: an absent metric yields a defined label.
package vkf

const (
	// NotAvailable is the height category of an undetermined height.
	NotAvailable = "n/a"
	LowRise      = "low-rise"
	MidRise      = "mid-rise"
	HighRise     = "high-rise"

	SmallBuilding    = "qualifies as small-footprint building"
	NotSmallBuilding = "does not qualify as small-footprint building"

	CompartmentRequired = "fire-compartment subdivision required"
)

const (
	DefaultLowRiseMaxM          = 11.0
	DefaultMidRiseMaxM          = 30.0
	DefaultSmallBuildingLimitM2 = 600.0
	DefaultStoreyAreaLimitM2    = 1000.0
)

// Rules holds the classification thresholds. Band limits are inclusive on
// the lower band: a height equal to LowRiseMaxM is low-rise.
type Rules struct {
	LowRiseMaxM          float64 `json:"lowRiseMaxM" mapstructure:"lowRiseMaxM"`
	MidRiseMaxM          float64 `json:"midRiseMaxM" mapstructure:"midRiseMaxM"`
	SmallBuildingLimitM2 float64 `json:"smallBuildingLimitM2" mapstructure:"smallBuildingLimitM2"`
	StoreyAreaLimitM2    float64 `json:"storeyAreaLimitM2" mapstructure:"storeyAreaLimitM2"`
}

// DefaultRules returns the regulatory default thresholds.
func DefaultRules() Rules {
	return Rules{
		LowRiseMaxM:          DefaultLowRiseMaxM,
		MidRiseMaxM:          DefaultMidRiseMaxM,
		SmallBuildingLimitM2: DefaultSmallBuildingLimitM2,
		StoreyAreaLimitM2:    DefaultStoreyAreaLimitM2,
	}
}

// HeightCategory classifies a building height in metres.
func (r Rules) HeightCategory(height *float64) string {
	if height == nil {
		return NotAvailable
	}
	switch h := *height; {
	case h <= r.LowRiseMaxM:
		return LowRise
	case h <= r.MidRiseMaxM:
		return MidRise
	default:
		return HighRise
	}
}

// SmallBuildingComment states whether the total floor area qualifies as a
// small-footprint building. An absent total yields "".
func (r Rules) SmallBuildingComment(totalAreaM2 *float64) string {
	if totalAreaM2 == nil {
		return ""
	}
	if *totalAreaM2 <= r.SmallBuildingLimitM2 {
		return SmallBuilding
	}
	return NotSmallBuilding
}

// StoreyAreaComment returns the compartment requirement for a storey area
// above the limit, else "".
func (r Rules) StoreyAreaComment(storeyAreaM2 float64) string {
	if storeyAreaM2 > r.StoreyAreaLimitM2 {
		return CompartmentRequired
	}
	return ""
}

// HeightCategory classifies a height with the default rules.
func HeightCategory(height *float64) string {
	return DefaultRules().HeightCategory(height)
}

// SmallBuildingComment evaluates a total area with the default limit.
func SmallBuildingComment(totalAreaM2 *float64) string {
	return DefaultRules().SmallBuildingComment(totalAreaM2)
}

// StoreyAreaComment evaluates a storey area with the default limit.
func StoreyAreaComment(storeyAreaM2 float64) string {
	return DefaultRules().StoreyAreaComment(storeyAreaM2)
}

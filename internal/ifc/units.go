package ifc

import (
	"vkfcheck/internal/step"
)

// Units holds the factors that convert model values to SI base units
// (metre, square metre, cubic metre).
type Units struct {
	Length float64 `json:"length"`
	Area   float64 `json:"area"`
	Volume float64 `json:"volume"`
}

// SIUnits is the identity conversion.
var SIUnits = Units{Length: 1, Area: 1, Volume: 1}

var siPrefixes = map[string]float64{
	"EXA":   1e18,
	"PETA":  1e15,
	"TERA":  1e12,
	"GIGA":  1e9,
	"MEGA":  1e6,
	"KILO":  1e3,
	"HECTO": 1e2,
	"DECA":  1e1,
	"DECI":  1e-1,
	"CENTI": 1e-2,
	"MILLI": 1e-3,
	"MICRO": 1e-6,
	"NANO":  1e-9,
	"PICO":  1e-12,
	"FEMTO": 1e-15,
	"ATTO":  1e-18,
}

// resolveUnits reads the project unit assignment. Unit types without an
// assignment fall back to SI; a missing area or volume unit is derived from
// the length unit.
func resolveUnits(f *step.File) Units {
	var assignment *step.Instance
	for _, p := range f.ByType("IFCPROJECT") {
		if id, ok := p.Arg(8).AsRef(); ok {
			if in, ok := f.Get(id); ok && in.Type == "IFCUNITASSIGNMENT" {
				assignment = in
				break
			}
		}
	}
	if assignment == nil {
		if all := f.ByType("IFCUNITASSIGNMENT"); len(all) > 0 {
			assignment = all[0]
		}
	}

	u := Units{Length: 1}
	var area, volume float64
	if assignment != nil {
		for _, id := range assignment.Arg(0).Refs() {
			in, ok := f.Get(id)
			if !ok {
				continue
			}
			unitType, factor, ok := unitFactor(f, in, 0)
			if !ok {
				continue
			}
			switch unitType {
			case "LENGTHUNIT":
				u.Length = factor
			case "AREAUNIT":
				area = factor
			case "VOLUMEUNIT":
				volume = factor
			}
		}
	}

	u.Area, u.Volume = area, volume
	if u.Area == 0 {
		u.Area = u.Length * u.Length
	}
	if u.Volume == 0 {
		u.Volume = u.Length * u.Length * u.Length
	}
	return u
}

// unitFactor returns the unit type and the factor to SI for a unit instance.
// depth bounds conversion-based units that refer to each other.
func unitFactor(f *step.File, in *step.Instance, depth int) (string, float64, bool) {
	if depth > 4 {
		return "", 0, false
	}

	switch {
	case in.Type == "IFCSIUNIT":
		unitType, _ := in.Arg(1).AsEnum()
		return unitType, siFactor(unitType, in.Arg(2)), true

	case in.Type == "IFCCONVERSIONBASEDUNIT":
		unitType, _ := in.Arg(1).AsEnum()
		id, ok := in.Arg(3).AsRef()
		if !ok {
			return "", 0, false
		}
		measure, ok := f.Get(id)
		if !ok {
			return "", 0, false
		}
		value, ok := measure.Arg(0).AsFloat()
		if !ok {
			return "", 0, false
		}
		base := 1.0
		if ref, ok := measure.Arg(1).AsRef(); ok {
			if baseUnit, ok := f.Get(ref); ok {
				if _, fct, ok := unitFactor(f, baseUnit, depth+1); ok {
					base = fct
				}
			}
		}
		return unitType, value * base, true

	case len(in.Parts) > 1:
		// Complex form: (IFCNAMEDUNIT(*,.LENGTHUNIT.) IFCSIUNIT(.MILLI.,.METRE.))
		var unitType string
		var prefix step.Value
		isSI := false
		for _, part := range in.Parts {
			switch part.Type {
			case "IFCNAMEDUNIT":
				if len(part.Args) > 1 {
					unitType, _ = part.Args[1].AsEnum()
				}
			case "IFCSIUNIT":
				isSI = true
				if len(part.Args) > 0 {
					prefix = part.Args[0]
				}
			}
		}
		if !isSI || unitType == "" {
			return "", 0, false
		}
		return unitType, siFactor(unitType, prefix), true
	}

	return "", 0, false
}

// siFactor raises the prefix factor to the unit's dimension.
func siFactor(unitType string, prefix step.Value) float64 {
	p := 1.0
	if name, ok := prefix.AsEnum(); ok {
		if v, known := siPrefixes[name]; known {
			p = v
		}
	}
	switch unitType {
	case "AREAUNIT":
		return p * p
	case "VOLUMEUNIT":
		return p * p * p
	default:
		return p
	}
}

package quantity

import (
	"testing"

	"vkfcheck/internal/model"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"net_floor_area", "NETFLOORAREA"},
		{"NetFloorArea", "NETFLOORAREA"},
		{"NET FLOOR AREA", "NETFLOORAREA"},
		{"Gross_Area", "GROSSAREA"},
		{" area ", "AREA"},
		{"", ""},
		{"Net-Area", "NET-AREA"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecognizes(t *testing.T) {
	x := NewExtractor()
	for _, name := range []string{"net_floor_area", "NetFloorArea", "NET FLOOR AREA", "GROSS_AREA", "Area"} {
		if !x.Recognizes(name) {
			t.Errorf("Recognizes(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Perimeter", "NetSideArea", "Net-Area", ""} {
		if x.Recognizes(name) {
			t.Errorf("Recognizes(%q) = true, want false", name)
		}
	}
}

func TestArea(t *testing.T) {
	g := model.NewGraph("IFC4")

	tests := []struct {
		name   string
		space  func() *model.Node
		want   float64
		wantOK bool
	}{
		{
			name: "first recognized match",
			space: func() *model.Node {
				return g.AddSpace("R1").AddQuantitySet("Qto_SpaceBaseQuantities",
					model.LengthQuantity("Height", 2.6),
					model.AreaQuantity("NetFloorArea", 300),
					model.AreaQuantity("GrossFloorArea", 320),
				)
			},
			want: 300, wantOK: true,
		},
		{
			name: "skips non-area kinds with area names",
			space: func() *model.Node {
				return g.AddSpace("R2").AddQuantitySet("Q",
					model.LengthQuantity("Area", 99),
					model.AreaQuantity("GROSS_AREA", 250),
				)
			},
			want: 250, wantOK: true,
		},
		{
			name: "skips unreadable value",
			space: func() *model.Node {
				return g.AddSpace("R3").AddQuantitySet("Q",
					model.Quantity{Name: "NetFloorArea", Kind: model.QuantityArea},
					model.AreaQuantity("Area", 12.5),
				)
			},
			want: 12.5, wantOK: true,
		},
		{
			name: "continues into later sets",
			space: func() *model.Node {
				return g.AddSpace("R4").
					AddQuantitySet("Pset", model.AreaQuantity("NetSideArea", 40)).
					AddQuantitySet("Qto", model.AreaQuantity("net area", 41))
			},
			want: 41, wantOK: true,
		},
		{
			name: "no match",
			space: func() *model.Node {
				return g.AddSpace("R5").AddQuantitySet("Q", model.AreaQuantity("NetCeilingArea", 10))
			},
			wantOK: false,
		},
		{
			name:   "no quantity sets",
			space:  func() *model.Node { return g.AddSpace("R6") },
			wantOK: false,
		},
	}

	x := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.Area(tt.space())
			if ok != tt.wantOK {
				t.Fatalf("Area() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Area() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAreaNilSpace(t *testing.T) {
	if _, ok := NewExtractor().Area(nil); ok {
		t.Error("Area(nil) should find nothing")
	}
}

func TestNewExtractorCustomNames(t *testing.T) {
	x := NewExtractor("usable_area", "")
	if !x.Recognizes("UsableArea") {
		t.Error("custom name should be recognized after normalization")
	}
	if x.Recognizes("NetFloorArea") {
		t.Error("custom list should replace the defaults")
	}
}

package vkf

import "testing"

func ptr(f float64) *float64 { return &f }

func TestHeightCategory(t *testing.T) {
	tests := []struct {
		name   string
		height *float64
		want   string
	}{
		{"absent", nil, NotAvailable},
		{"zero", ptr(0), LowRise},
		{"low boundary", ptr(11), LowRise},
		{"just above low", ptr(11.01), MidRise},
		{"mid boundary", ptr(30), MidRise},
		{"just above mid", ptr(30.01), HighRise},
		{"tower", ptr(120), HighRise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeightCategory(tt.height); got != tt.want {
				t.Errorf("HeightCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSmallBuildingComment(t *testing.T) {
	tests := []struct {
		name string
		area *float64
		want string
	}{
		{"absent", nil, ""},
		{"below", ptr(550), SmallBuilding},
		{"at limit", ptr(600), SmallBuilding},
		{"above", ptr(600.01), NotSmallBuilding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SmallBuildingComment(tt.area); got != tt.want {
				t.Errorf("SmallBuildingComment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreyAreaComment(t *testing.T) {
	tests := []struct {
		area float64
		want string
	}{
		{0, ""},
		{999.99, ""},
		{1000, ""},
		{1000.01, CompartmentRequired},
	}

	for _, tt := range tests {
		if got := StoreyAreaComment(tt.area); got != tt.want {
			t.Errorf("StoreyAreaComment(%v) = %q, want %q", tt.area, got, tt.want)
		}
	}
}

func TestCustomRules(t *testing.T) {
	r := DefaultRules()
	r.LowRiseMaxM = 8
	r.SmallBuildingLimitM2 = 100
	r.StoreyAreaLimitM2 = 50

	if got := r.HeightCategory(ptr(9)); got != MidRise {
		t.Errorf("HeightCategory(9) = %q, want %q", got, MidRise)
	}
	if got := r.SmallBuildingComment(ptr(150)); got != NotSmallBuilding {
		t.Errorf("SmallBuildingComment(150) = %q, want %q", got, NotSmallBuilding)
	}
	if got := r.StoreyAreaComment(60); got != CompartmentRequired {
		t.Errorf("StoreyAreaComment(60) = %q, want %q", got, CompartmentRequired)
	}
}

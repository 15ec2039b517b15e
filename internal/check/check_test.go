package check

import (
	"context"
	"errors"
	"strings"
	"testing"

	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/hierarchy"
	"vkfcheck/internal/loader"
	"vkfcheck/internal/model"
	"vkfcheck/internal/testutil"
	"vkfcheck/internal/vkf"
)

// houseModel builds four storeys: two with elevation, one unnamed, one
// without elevation, and spaces attached by aggregation and containment.
func houseModel() *model.Graph {
	g := model.NewGraph("IFC4")

	eg := g.AddStorey("EG").SetLongName("Erdgeschoss").SetElevation(0)
	og := g.AddStorey("OG").SetElevation(3.5)
	dach := g.AddStorey("Dach")
	top := g.AddStorey("").SetElevation(6)

	g.Aggregate(eg, g.AddSpace("R1").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 300)))
	g.Contain(eg, g.AddSpace("R2").AddQuantitySet("Qto", model.AreaQuantity("GrossArea", 250)))
	g.Aggregate(og, g.AddSpace("R3").AddQuantitySet("Qto", model.AreaQuantity("NetArea", 1200)))
	g.Aggregate(dach, g.AddSpace("R4").AddQuantitySet("Qto", model.AreaQuantity("Area", 20)))
	g.Aggregate(top, g.AddSpace("R5").AddQuantitySet("Qto", model.AreaQuantity("Area", 10)))
	return g
}

func TestEngine_ComputeHeight(t *testing.T) {
	tests := []struct {
		name         string
		elevations   []float64
		wantValue    *float64
		wantCategory string
	}{
		{"no storeys", nil, nil, vkf.NotAvailable},
		{"three storeys", []float64{0, 3.5, 7.2}, ptr(7.2), vkf.LowRise},
		{"single storey", []float64{4}, ptr(0), vkf.LowRise},
		{"mid rise", []float64{-3, 20}, ptr(23), vkf.MidRise},
		{"high rise", []float64{0, 45}, ptr(45), vkf.HighRise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.NewGraph("IFC4")
			for _, z := range tt.elevations {
				g.AddStorey("S").SetElevation(z)
			}

			got := NewEngine().ComputeHeight(g)

			if (got.ValueMeters == nil) != (tt.wantValue == nil) {
				t.Fatalf("ValueMeters = %v, want %v", got.ValueMeters, tt.wantValue)
			}
			if tt.wantValue != nil && *got.ValueMeters != *tt.wantValue {
				t.Errorf("ValueMeters = %v, want %v", *got.ValueMeters, *tt.wantValue)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestEngine_ComputeArea_OneStoreyTwoSpaces(t *testing.T) {
	g := model.NewGraph("IFC4")
	eg := g.AddStorey("EG").SetElevation(0)
	g.Aggregate(eg, g.AddSpace("R1").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 300)))
	g.Aggregate(eg, g.AddSpace("R2").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 250)))

	got := NewEngine().ComputeArea(g)

	if got.TotalM2 == nil || *got.TotalM2 != 550 {
		t.Fatalf("TotalM2 = %v, want 550", got.TotalM2)
	}
	if got.SmallBuilding != vkf.SmallBuilding {
		t.Errorf("SmallBuilding = %q, want %q", got.SmallBuilding, vkf.SmallBuilding)
	}
	if len(got.Storeys) != 1 || got.Storeys[0].Comment != "" {
		t.Errorf("Storeys = %+v, want one storey without comment", got.Storeys)
	}
}

func TestEngine_ComputeArea_OrderAndComments(t *testing.T) {
	got := NewEngine().ComputeArea(houseModel())

	wantNames := []string{"Erdgeschoss", "OG", "", "Dach"}
	if len(got.Storeys) != len(wantNames) {
		t.Fatalf("len(Storeys) = %d, want %d", len(got.Storeys), len(wantNames))
	}
	for i, name := range wantNames {
		if got.Storeys[i].Name != name {
			t.Errorf("Storeys[%d].Name = %q, want %q", i, got.Storeys[i].Name, name)
		}
	}
	if got.Storeys[1].Comment != vkf.CompartmentRequired {
		t.Errorf("OG comment = %q, want %q", got.Storeys[1].Comment, vkf.CompartmentRequired)
	}
	if got.Storeys[3].Elevation != nil {
		t.Error("storey without elevation should keep a nil elevation")
	}
	if got.TotalM2 == nil || *got.TotalM2 != 1780 {
		t.Errorf("TotalM2 = %v, want 1780", got.TotalM2)
	}
	if got.SmallBuilding != vkf.NotSmallBuilding {
		t.Errorf("SmallBuilding = %q, want %q", got.SmallBuilding, vkf.NotSmallBuilding)
	}
}

func TestEngine_ComputeArea_EqualElevationKeepsModelOrder(t *testing.T) {
	g := model.NewGraph("IFC4")
	wing := g.AddStorey("Westflügel").SetElevation(3)
	annex := g.AddStorey("Anbau").SetElevation(3)
	ground := g.AddStorey("EG").SetElevation(0)
	g.Aggregate(wing, g.AddSpace("W1").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 40)))
	g.Aggregate(annex, g.AddSpace("A1").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 30)))
	g.Aggregate(ground, g.AddSpace("E1").AddQuantitySet("Qto", model.AreaQuantity("NetFloorArea", 50)))

	got := NewEngine().ComputeArea(g)

	want := []string{"EG", "Westflügel", "Anbau"}
	if len(got.Storeys) != len(want) {
		t.Fatalf("len(Storeys) = %d, want %d", len(got.Storeys), len(want))
	}
	for i, name := range want {
		if got.Storeys[i].Name != name {
			t.Errorf("Storeys[%d].Name = %q, want %q", i, got.Storeys[i].Name, name)
		}
	}
}

func TestEngine_ComputeArea_NoArea(t *testing.T) {
	g := model.NewGraph("IFC4")
	g.AddStorey("EG")

	got := NewEngine().ComputeArea(g)

	if got.TotalM2 != nil {
		t.Errorf("TotalM2 = %v, want nil", *got.TotalM2)
	}
	if got.SmallBuilding != "" {
		t.Errorf("SmallBuilding = %q, want empty", got.SmallBuilding)
	}
	if len(got.Storeys) != 0 {
		t.Errorf("len(Storeys) = %d, want 0", len(got.Storeys))
	}
}

func TestEngine_Options(t *testing.T) {
	g := model.NewGraph("IFC4")
	eg := g.AddStorey("EG").SetElevation(0)
	other := g.AddStorey("OG").SetElevation(3)
	space := g.AddSpace("R").AddQuantitySet("Qto", model.AreaQuantity("Nutzflaeche", 80))
	g.Aggregate(eg, space)
	g.Contain(other, space)

	rules := vkf.DefaultRules()
	rules.SmallBuildingLimitM2 = 50

	e := NewEngine(
		WithRules(rules),
		WithAreaNames("Nutzflaeche"),
		WithStrategies(hierarchy.ContainmentStrategy{}, hierarchy.AggregationStrategy{}),
	)
	got := e.ComputeArea(g)

	if len(got.Storeys) != 1 || got.Storeys[0].Name != "OG" {
		t.Fatalf("Storeys = %+v, want the space on OG via containment first", got.Storeys)
	}
	if got.SmallBuilding != vkf.NotSmallBuilding {
		t.Errorf("SmallBuilding = %q, want %q with custom limit", got.SmallBuilding, vkf.NotSmallBuilding)
	}
	if e.Rules() != rules {
		t.Errorf("Rules() = %+v, want %+v", e.Rules(), rules)
	}
}

func TestEngine_Check(t *testing.T) {
	report, err := NewEngine().Check(context.Background(), houseModel())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if report.Schema != "IFC4" {
		t.Errorf("Schema = %q, want IFC4", report.Schema)
	}
	if report.Height.ValueMeters == nil || *report.Height.ValueMeters != 6 {
		t.Errorf("Height = %v, want 6", report.Height.ValueMeters)
	}
	if report.Area.TotalM2 == nil || *report.Area.TotalM2 != 1780 {
		t.Errorf("Area total = %v, want 1780", report.Area.TotalM2)
	}
}

func TestEngine_Check_IndependentAbsence(t *testing.T) {
	// Storeys without spaces: height is known, area is absent.
	g := model.NewGraph("IFC2X3")
	g.AddStorey("EG").SetElevation(0)
	g.AddStorey("OG").SetElevation(3)

	report, err := NewEngine().Check(context.Background(), g)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.Height.Category != vkf.LowRise {
		t.Errorf("Height.Category = %q, want %q", report.Height.Category, vkf.LowRise)
	}
	if report.Area.TotalM2 != nil {
		t.Error("Area total should be absent")
	}
}

func TestEngine_Check_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewEngine().Check(ctx, houseModel()); !errors.Is(err, context.Canceled) {
		t.Errorf("Check() error = %v, want context.Canceled", err)
	}
}

func TestHeightResult_TextLines(t *testing.T) {
	absent := HeightResult{Category: vkf.NotAvailable}
	lines := absent.TextLines()
	if lines[0] != "Height [m]=n/a" || lines[1] != "Building category (VKF, height): n/a" {
		t.Errorf("TextLines() = %q", lines)
	}

	present := HeightResult{ValueMeters: ptr(7.20049), Category: vkf.LowRise}
	lines = present.TextLines()
	if lines[0] != "Height [m]=7.2" {
		t.Errorf("TextLines()[0] = %q, want %q", lines[0], "Height [m]=7.2")
	}
	if got := present.Rounded(); got == nil || *got != 7.2 {
		t.Errorf("Rounded() = %v, want 7.2", got)
	}
}

func TestAreaResult_TextLines_NoArea(t *testing.T) {
	r := AreaResult{ModelPath: "empty.ifc"}
	lines := r.TextLines()

	if len(lines) != 2 {
		t.Fatalf("TextLines() = %q, want 2 lines", lines)
	}
	if !strings.Contains(lines[1], "could not be determined") {
		t.Errorf("TextLines()[1] = %q", lines[1])
	}
}

func TestReport_TextLinesGolden(t *testing.T) {
	report, err := NewEngine().Check(context.Background(), houseModel())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	report.SetModelPath("house.yaml")

	testutil.CompareGolden(t, "check_report.txt", []byte(strings.Join(report.TextLines(), "\n")))
}

type stubLoader struct {
	m   model.Model
	err error
}

func (s stubLoader) Load(_ context.Context, _ string) (model.Model, error) {
	return s.m, s.err
}

func TestServices_ComputeFromPath(t *testing.T) {
	l := stubLoader{m: houseModel()}

	h, err := NewHeightService(l, nil).ComputeFromPath(context.Background(), "house.ifc")
	if err != nil {
		t.Fatalf("HeightService error = %v", err)
	}
	if h.ModelPath != "house.ifc" || h.Category != vkf.LowRise {
		t.Errorf("HeightResult = %+v", h)
	}

	a, err := NewAreaService(l, nil).ComputeFromPath(context.Background(), "house.ifc")
	if err != nil {
		t.Fatalf("AreaService error = %v", err)
	}
	if a.ModelPath != "house.ifc" || len(a.Storeys) != 4 {
		t.Errorf("AreaResult = %+v", a)
	}

	report, err := NewEngine().CheckPath(context.Background(), l, "house.ifc")
	if err != nil {
		t.Fatalf("CheckPath error = %v", err)
	}
	if report.Area.ModelPath != "house.ifc" {
		t.Errorf("report area path = %q", report.Area.ModelPath)
	}
}

func TestServices_LoadError(t *testing.T) {
	loadErr := ckerrors.NewCheckError(ckerrors.ModelNotFound, "model not found", nil, nil)
	l := stubLoader{err: loadErr}

	if _, err := NewHeightService(l, nil).ComputeFromPath(context.Background(), "x.ifc"); ckerrors.CodeOf(err) != ckerrors.ModelNotFound {
		t.Errorf("HeightService error = %v, want MODEL_NOT_FOUND", err)
	}
	if _, err := NewAreaService(l, nil).ComputeFromPath(context.Background(), "x.ifc"); ckerrors.CodeOf(err) != ckerrors.ModelNotFound {
		t.Errorf("AreaService error = %v, want MODEL_NOT_FOUND", err)
	}
}

func ptr(f float64) *float64 { return &f }

func TestCheckPath_FixtureFormatsAgree(t *testing.T) {
	l := loader.New(nil)
	e := NewEngine()

	for _, name := range []string{"house.ifc", "house.yaml"} {
		t.Run(name, func(t *testing.T) {
			report, err := e.CheckPath(context.Background(), l, testutil.ModelPath(t, name))
			if err != nil {
				t.Fatalf("CheckPath() error = %v", err)
			}

			if h := report.Height.ValueMeters; h == nil || *h != 6.5 {
				t.Errorf("Height = %v, want 6.5", h)
			}
			if report.Height.Category != vkf.LowRise {
				t.Errorf("Category = %q, want %q", report.Height.Category, vkf.LowRise)
			}
			if a := report.Area.TotalM2; a == nil || *a != 1750 {
				t.Errorf("TotalM2 = %v, want 1750", a)
			}
			if len(report.Area.Storeys) != 2 {
				t.Fatalf("Storeys = %+v, want EG and OG", report.Area.Storeys)
			}
			if report.Area.Storeys[1].Comment != vkf.CompartmentRequired {
				t.Errorf("OG comment = %q", report.Area.Storeys[1].Comment)
			}
			if report.Area.Unassigned != 1 {
				t.Errorf("Unassigned = %d, want 1", report.Area.Unassigned)
			}
		})
	}
}

func TestCheckPath_Millimetres(t *testing.T) {
	report, err := NewEngine().CheckPath(context.Background(), loader.New(nil), testutil.ModelPath(t, "house_mm.ifc"))
	if err != nil {
		t.Fatalf("CheckPath() error = %v", err)
	}

	if got := report.Height.Rounded(); got == nil || *got != 12.5 {
		t.Errorf("Height = %v, want 12.5", got)
	}
	if report.Height.Category != vkf.MidRise {
		t.Errorf("Category = %q, want %q", report.Height.Category, vkf.MidRise)
	}
	if got := report.Area.RoundedTotal(); got == nil || *got != 120 {
		t.Errorf("TotalM2 = %v, want 120", got)
	}
	if report.Area.SmallBuilding != vkf.SmallBuilding {
		t.Errorf("SmallBuilding = %q", report.Area.SmallBuilding)
	}
}

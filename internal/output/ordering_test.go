package output

import (
	"testing"
)

type row struct {
	name string
	elev *float64
}

func f(v float64) *float64 { return &v }

func rowNames(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestSortByElevation(t *testing.T) {
	rows := []row{
		{"DG", nil},
		{"OG", f(3.5)},
		{"UG", f(-3)},
		{"Attic", nil},
		{"EG", f(0)},
		{"Mezzanine", f(3.5)},
	}

	SortByElevation(rows, func(r row) *float64 { return r.elev })

	want := []string{"UG", "EG", "OG", "Mezzanine", "DG", "Attic"}
	got := rowNames(rows)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByElevation_Stable(t *testing.T) {
	rows := []row{
		{"same", f(1)},
		{"same", f(1)},
		{"same", f(1)},
	}
	first := rows[0].elev

	SortByElevation(rows, func(r row) *float64 { return r.elev })

	if rows[0].elev != first {
		t.Error("equal rows should keep their input order")
	}
}

package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEncodeJSON(t *testing.T) {
	zero := 0.0
	tests := []struct {
		name     string
		input    interface{}
		wantJSON string
	}{
		{
			name: "floats rounded to precision",
			input: struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			}{"EG", 7.20049},
			wantJSON: `{"name":"EG","value":7.2}`,
		},
		{
			name: "nil pointer rendered as null",
			input: struct {
				Name  string   `json:"name"`
				Value *float64 `json:"value"`
			}{Name: "x"},
			wantJSON: `{"name":"x","value":null}`,
		},
		{
			name: "nil pointer dropped with omitempty",
			input: struct {
				Name  string   `json:"name"`
				Value *float64 `json:"value,omitempty"`
			}{Name: "x"},
			wantJSON: `{"name":"x"}`,
		},
		{
			name: "empty slice kept, nil slice null",
			input: struct {
				Empty []string `json:"empty"`
				Nil   []string `json:"nil"`
			}{Empty: []string{}},
			wantJSON: `{"empty":[],"nil":null}`,
		},
		{
			name: "zero pointer kept with omitempty",
			input: struct {
				Value *float64 `json:"value,omitempty"`
			}{Value: &zero},
			wantJSON: `{"value":0}`,
		},
		{
			name: "zero scalar dropped with omitempty",
			input: struct {
				Name  string `json:"name"`
				Count int    `json:"count,omitempty"`
			}{Name: "x"},
			wantJSON: `{"name":"x"}`,
		},
		{
			name: "map keys sorted",
			input: map[string]interface{}{
				"zebra": "last",
				"alpha": "first",
			},
			wantJSON: `{"alpha":"first","zebra":"last"}`,
		},
		{
			name: "timestamps use text form",
			input: struct {
				At time.Time `json:"at"`
			}{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
			wantJSON: `{"at":"2026-01-02T03:04:05Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeJSON(tt.input, Precision, "")
			if err != nil {
				t.Fatalf("EncodeJSON() error = %v", err)
			}
			if string(got) != tt.wantJSON {
				t.Errorf("EncodeJSON() = %s, want %s", got, tt.wantJSON)
			}
		})
	}
}

func TestEncodeJSON_Deterministic(t *testing.T) {
	input := map[string]interface{}{
		"storeys": []map[string]interface{}{
			{"name": "EG", "areaM2": 550.0},
			{"name": "OG", "areaM2": 1200.5},
		},
		"total": 1750.5,
	}

	first, err := EncodeJSON(input, Precision, "  ")
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := EncodeJSON(input, Precision, "  ")
		if !bytes.Equal(first, again) {
			t.Fatalf("iteration %d produced different output", i)
		}
	}
}

func TestEncodeYAML(t *testing.T) {
	input := struct {
		Category string   `json:"category"`
		Value    *float64 `json:"value"`
	}{Category: "low-rise"}

	got, err := EncodeYAML(input, Precision)
	if err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	if !strings.Contains(string(got), "category: low-rise") {
		t.Errorf("EncodeYAML() = %q, want category line", got)
	}
	if !strings.Contains(string(got), "value: null") {
		t.Errorf("EncodeYAML() = %q, nil value should render as null", got)
	}
}

package standard

import (
	"context"
	"math"
	"testing"
)

func TestCalculatorEvaluates(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 3", 5},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-3 + 5", 2},
		{"2 * -3", -6},
		{"1.5 * 2", 3},
		{"2 + 3 * 4", 14},
	}
	tool := NewCalculatorTool()
	for _, tc := range cases {
		result, err := tool.Execute(context.Background(), map[string]interface{}{"expression": tc.expr})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.expr, err)
		}
		if !result.Success {
			t.Fatalf("%s: tool reported failure: %s", tc.expr, result.Error)
		}
		got := result.Data["result"].(float64)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestCalculatorRejectsBadInput(t *testing.T) {
	tool := NewCalculatorTool()
	for _, expr := range []string{"", "2 +", "foo", "1 / 0", "(2 + 3", "2 $ 3"} {
		result, err := tool.Execute(context.Background(), map[string]interface{}{"expression": expr})
		if err != nil {
			t.Fatalf("%q: executor must not return an error: %v", expr, err)
		}
		if result.Error == "" {
			t.Errorf("%q: expected a tool-level error", expr)
		}
	}
}

func TestWeatherEchoesLocation(t *testing.T) {
	tool := NewWeatherTool()
	result, err := tool.Execute(context.Background(), map[string]interface{}{"location": "Austin, TX"})
	if err != nil {
		t.Fatal(err)
	}
	data := result.Data
	if data["location"] != "Austin, TX" {
		t.Errorf("location = %v", data["location"])
	}
	if data["condition"] != "sunny" {
		t.Errorf("condition = %v", data["condition"])
	}
}

package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		spec string
		want Axis
	}{
		{"monthly_savings=1:3:0.5", Axis{Field: "monthly_savings", Values: []float64{1, 1.5, 2, 2.5, 3}}},
		{"monthly_om=0.5:0.8:0.1", Axis{Field: "monthly_om", Values: []float64{0.5, 0.6, 0.7, 0.8}}},
		{"units_per_month=10000, 20000", Axis{Field: "units_per_month", Values: []float64{10000, 20000}}},
		{"initial_investment=50", Axis{Field: "initial_investment", Values: []float64{50}}},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.spec)
		if err != nil {
			t.Fatalf("ParseAxis(%q): %v", tt.spec, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseAxis(%q) mismatch (-want +got):\n%s", tt.spec, diff)
		}
	}
}

func TestParseAxisErrors(t *testing.T) {
	for _, spec := range []string{
		"",
		"monthly_savings",
		"unknown=1,2",
		"monthly_savings=a,b",
		"monthly_savings=1:2",
		"monthly_savings=3:1:1",
		"monthly_savings=1:2:0",
		"monthly_savings=0:100000:1",
		"monthly_savings=1:Inf:1",
		"monthly_savings=1:10:NaN",
		"monthly_savings=0:1e308:1e-308",
		"monthly_savings=1,NaN",
		"monthly_savings=-Inf,2",
	} {
		if _, err := ParseAxis(spec); !errors.Is(err, ErrBadAxis) {
			t.Fatalf("ParseAxis(%q): err = %v, want ErrBadAxis", spec, err)
		}
	}
}

func TestRunGridOrderAndValues(t *testing.T) {
	base := costmodel.Defaults()
	base.ManualCostPerUnit = base.AICostPerUnit // isolate net savings

	axes := []Axis{
		{Field: "initial_investment", Values: []float64{25, 50}},
		{Field: "monthly_savings", Values: []float64{3, 4.5, 1.5}},
	}

	var calls atomic.Int64
	res, err := Run(context.Background(), base, 36, axes, func(current, total int) {
		calls.Add(1)
		if total != 6 {
			t.Errorf("progress total = %d, want 6", total)
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != 6 || calls.Load() != 6 {
		t.Fatalf("rows = %d, progress calls = %d, want 6 and 6", len(res.Rows), calls.Load())
	}

	first := res.Rows[0]
	if first.Values["initial_investment"] != 25 || first.Values["monthly_savings"] != 3 {
		t.Fatalf("row 0 values = %v", first.Values)
	}
	if !first.HasBreakeven || first.BreakevenMonth != 17 {
		t.Fatalf("row 0 breakeven = (%v, %d), want (true, 17)", first.HasBreakeven, first.BreakevenMonth)
	}

	last := res.Rows[5]
	if last.Values["initial_investment"] != 50 || last.Values["monthly_savings"] != 1.5 {
		t.Fatalf("row 5 values = %v", last.Values)
	}
	if last.HasBreakeven {
		t.Fatalf("row 5 (zero net benefit) broke even at %d", last.BreakevenMonth)
	}
}

func TestRunMatchesProjection(t *testing.T) {
	base := costmodel.Defaults()
	axes := []Axis{{Field: "ai_cost_per_unit", Values: []float64{10, 45, 100}}}

	res, err := Run(context.Background(), base, 24, axes, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, row := range res.Rows {
		want, err := projection.Project(row.Params.Input(24))
		if err != nil {
			t.Fatal(err)
		}
		if row.BreakevenMonth != want.BreakevenMonth || row.FinalNetSavings != want.Final().CumulativeSavings {
			t.Fatalf("row %d = %+v, projection = %+v", i, row, want.Final())
		}
	}
}

func TestRunNoAxesEvaluatesBase(t *testing.T) {
	res, err := Run(context.Background(), costmodel.Defaults(), 36, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].BreakevenMonth != 2 {
		t.Fatalf("rows = %+v", res.Rows)
	}
}

func TestRunErrors(t *testing.T) {
	base := costmodel.Defaults()

	if _, err := Run(context.Background(), base, 0, nil, nil); !errors.Is(err, projection.ErrInvalidInput) {
		t.Fatalf("horizon 0: err = %v, want ErrInvalidInput", err)
	}
	if _, err := Run(context.Background(), base, 36, []Axis{{Field: "bogus", Values: []float64{1}}}, nil); !errors.Is(err, ErrBadAxis) {
		t.Fatalf("bogus field: err = %v, want ErrBadAxis", err)
	}
	if _, err := Run(context.Background(), base, 36, []Axis{{Field: "monthly_om"}}, nil); !errors.Is(err, ErrBadAxis) {
		t.Fatalf("empty axis: err = %v, want ErrBadAxis", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	axes := []Axis{{Field: "monthly_savings", Values: []float64{1, 2, 3}}}
	if _, err := Run(ctx, costmodel.Defaults(), 36, axes, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSortByBreakeven(t *testing.T) {
	res := &Result{Rows: []Row{
		{BreakevenMonth: 0, HasBreakeven: false},
		{BreakevenMonth: 5, HasBreakeven: true, FinalROIPercent: 10},
		{BreakevenMonth: 2, HasBreakeven: true},
		{BreakevenMonth: 5, HasBreakeven: true, FinalROIPercent: 90},
	}}
	res.SortByBreakeven()

	got := []int{}
	for _, r := range res.Rows {
		got = append(got, r.BreakevenMonth)
	}
	if diff := cmp.Diff([]int{2, 5, 5, 0}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if res.Rows[1].FinalROIPercent != 90 {
		t.Fatalf("tie not broken by ROI: %+v", res.Rows[1])
	}
	if share := res.BreakevenShare(); share != 0.75 {
		t.Fatalf("BreakevenShare = %v, want 0.75", share)
	}
}

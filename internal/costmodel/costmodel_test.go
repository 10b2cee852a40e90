package costmodel

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultsNetBenefit(t *testing.T) {
	p := Defaults()

	if got := p.MonthlyNetSavings(); got != 1.5 {
		t.Fatalf("MonthlyNetSavings = %v, want 1.5", got)
	}
	if got := p.MonthlyCostSavings(); got != 15.75 {
		t.Fatalf("MonthlyCostSavings = %v, want 15.75", got)
	}
	if got := p.MonthlyNetBenefit(); got != 17.25 {
		t.Fatalf("MonthlyNetBenefit = %v, want 17.25", got)
	}
}

func TestZeroUnitScaleFallsBackToDefault(t *testing.T) {
	p := Defaults()
	p.UnitScale = 0

	if got := p.MonthlyAICost(); got != 6.75 {
		t.Fatalf("MonthlyAICost = %v, want 6.75", got)
	}
	if got := p.MonthlyManualCost(); got != 22.5 {
		t.Fatalf("MonthlyManualCost = %v, want 22.5", got)
	}
}

func TestInputCarriesHorizon(t *testing.T) {
	in := Defaults().Input(48)
	if in.HorizonMonths != 48 {
		t.Fatalf("HorizonMonths = %d, want 48", in.HorizonMonths)
	}
	if in.InitialInvestment != 25 || in.MonthlyNetBenefit != 17.25 {
		t.Fatalf("Input = %+v", in)
	}
}

func TestBreakdownRows(t *testing.T) {
	rows := Defaults().Breakdown()
	want := []struct {
		category string
		amount   float64
	}{
		{"Initial Investment", 25},
		{"Monthly O&M", 1.5},
		{"Cost per Unit (AI)", 6.75},
		{"Cost per Unit (Manual)", 22.5},
		{"Monthly Cost Savings", 15.75},
		{"Net Monthly Benefit", 17.25},
	}

	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Category != w.category || math.Abs(rows[i].Amount-w.amount) > 1e-9 {
			t.Fatalf("row %d = %+v, want %s %.2f", i, rows[i], w.category, w.amount)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*Params)
	}{
		{"above max", func(p *Params) { p.UnitsPerMonth = 60000 }},
		{"below min", func(p *Params) { p.MonthlyOM = 0.1 }},
		{"NaN", func(p *Params) { p.MonthlySavings = math.NaN() }},
		{"+Inf", func(p *Params) { p.AICostPerUnit = math.Inf(1) }},
		{"-Inf", func(p *Params) { p.InitialInvestment = math.Inf(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mut(&p)
			if err := p.Validate(); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("err = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestCheckFiniteAllowsOutOfRange(t *testing.T) {
	p := Defaults()
	p.InitialInvestment = -500
	if err := p.CheckFinite(); err != nil {
		t.Fatalf("CheckFinite(-500) = %v, want nil", err)
	}
	p.MonthlyOM = math.NaN()
	if err := p.CheckFinite(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("CheckFinite(NaN) = %v, want ErrOutOfRange", err)
	}
}

func TestFieldNudgeClampsAndSnaps(t *testing.T) {
	f, ok := FieldByKey("monthly_om")
	if !ok {
		t.Fatal("monthly_om field missing")
	}

	p := Defaults()
	for i := 0; i < 3; i++ {
		f.Nudge(&p, 1)
	}
	if p.MonthlyOM != 1.8 {
		t.Fatalf("MonthlyOM after 3 steps = %v, want 1.8", p.MonthlyOM)
	}

	for i := 0; i < 100; i++ {
		f.Nudge(&p, -1)
	}
	if p.MonthlyOM != 0.5 {
		t.Fatalf("MonthlyOM clamped = %v, want 0.5", p.MonthlyOM)
	}

	inv, _ := FieldByKey("initial_investment")
	for i := 0; i < 200; i++ {
		inv.Nudge(&p, 1)
	}
	if p.InitialInvestment != 100 {
		t.Fatalf("InitialInvestment clamped = %v, want 100", p.InitialInvestment)
	}
}

func TestFieldByKeyUnknown(t *testing.T) {
	if _, ok := FieldByKey("nope"); ok {
		t.Fatal("FieldByKey(nope) reported ok")
	}
}

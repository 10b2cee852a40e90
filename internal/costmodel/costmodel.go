// Package costmodel derives the monthly net benefit of the inspection system
// from savings, operating cost and per-unit inspection cost parameters.
package costmodel

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/meshroi/internal/projection"
)

// DefaultUnitScale converts per-unit amounts (rupees) into the reporting
// unit (lakhs).
const DefaultUnitScale = 100_000

// ErrOutOfRange is returned by Validate when a parameter leaves its range.
var ErrOutOfRange = errors.New("parameter out of range")

// Params are the inputs of the investment case. Monetary amounts are in the
// reporting unit except the per-unit costs, which are divided by UnitScale.
type Params struct {
	InitialInvestment float64 `json:"initial_investment" toml:"initial_investment" yaml:"initial_investment"`
	MonthlySavings    float64 `json:"monthly_savings" toml:"monthly_savings" yaml:"monthly_savings"`
	MonthlyOM         float64 `json:"monthly_om" toml:"monthly_om" yaml:"monthly_om"`
	UnitsPerMonth     float64 `json:"units_per_month" toml:"units_per_month" yaml:"units_per_month"`
	ManualCostPerUnit float64 `json:"manual_cost_per_unit" toml:"manual_cost_per_unit" yaml:"manual_cost_per_unit"`
	AICostPerUnit     float64 `json:"ai_cost_per_unit" toml:"ai_cost_per_unit" yaml:"ai_cost_per_unit"`
	UnitScale         float64 `json:"unit_scale,omitempty" toml:"unit_scale,omitempty" yaml:"unit_scale,omitempty"`
}

// BreakdownRow is one line of the cost breakdown table.
type BreakdownRow struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Defaults returns the reference investment case.
func Defaults() Params {
	return Params{
		InitialInvestment: 25,
		MonthlySavings:    3,
		MonthlyOM:         1.5,
		UnitsPerMonth:     15000,
		ManualCostPerUnit: 150,
		AICostPerUnit:     45,
		UnitScale:         DefaultUnitScale,
	}
}

func (p Params) scale() float64 {
	if p.UnitScale <= 0 {
		return DefaultUnitScale
	}
	return p.UnitScale
}

// MonthlyNetSavings is the direct monthly saving net of operation and
// maintenance.
func (p Params) MonthlyNetSavings() float64 {
	return p.MonthlySavings - p.MonthlyOM
}

// MonthlyAICost is the automated inspection cost per month.
func (p Params) MonthlyAICost() float64 {
	return p.AICostPerUnit * p.UnitsPerMonth / p.scale()
}

// MonthlyManualCost is the manual inspection cost per month.
func (p Params) MonthlyManualCost() float64 {
	return p.ManualCostPerUnit * p.UnitsPerMonth / p.scale()
}

// MonthlyCostSavings is the per-unit inspection saving over a month.
func (p Params) MonthlyCostSavings() float64 {
	return (p.ManualCostPerUnit - p.AICostPerUnit) * p.UnitsPerMonth / p.scale()
}

// MonthlyNetBenefit is the flat monthly benefit fed into the projection.
func (p Params) MonthlyNetBenefit() float64 {
	return p.MonthlyNetSavings() + p.MonthlyCostSavings()
}

// Input builds the projection input for the given horizon.
func (p Params) Input(horizon int) projection.Input {
	return projection.Input{
		InitialInvestment: p.InitialInvestment,
		MonthlyNetBenefit: p.MonthlyNetBenefit(),
		HorizonMonths:     horizon,
	}
}

// Breakdown returns the cost breakdown table rows.
func (p Params) Breakdown() []BreakdownRow {
	return []BreakdownRow{
		{Category: "Initial Investment", Amount: p.InitialInvestment},
		{Category: "Monthly O&M", Amount: p.MonthlyOM},
		{Category: "Cost per Unit (AI)", Amount: p.MonthlyAICost()},
		{Category: "Cost per Unit (Manual)", Amount: p.MonthlyManualCost()},
		{Category: "Monthly Cost Savings", Amount: p.MonthlyCostSavings()},
		{Category: "Net Monthly Benefit", Amount: p.MonthlyNetBenefit()},
	}
}

// CheckFinite reports the first parameter that is NaN or infinite.
func (p Params) CheckFinite() error {
	for _, f := range Fields() {
		if v := f.Get(p); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %g is not finite", ErrOutOfRange, f.Key, v)
		}
	}
	return nil
}

// Validate reports the first parameter outside its field range. NaN and
// infinities are always out of range.
func (p Params) Validate() error {
	if err := p.CheckFinite(); err != nil {
		return err
	}
	for _, f := range Fields() {
		v := f.Get(p)
		if v < f.Min || v > f.Max {
			return fmt.Errorf("%w: %s = %g, want %g..%g", ErrOutOfRange, f.Key, v, f.Min, f.Max)
		}
	}
	return nil
}

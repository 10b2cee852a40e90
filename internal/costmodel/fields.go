package costmodel

import "math"

// Field describes one adjustable parameter with its range and step.
type Field struct {
	Key   string
	Label string
	Unit  string
	Min   float64
	Max   float64
	Step  float64
	Get   func(Params) float64
	Set   func(*Params, float64)
}

var fields = []Field{
	{
		Key: "initial_investment", Label: "Initial Investment", Unit: "L",
		Min: 10, Max: 100, Step: 1,
		Get: func(p Params) float64 { return p.InitialInvestment },
		Set: func(p *Params, v float64) { p.InitialInvestment = v },
	},
	{
		Key: "monthly_savings", Label: "Monthly Savings", Unit: "L",
		Min: 1, Max: 10, Step: 0.5,
		Get: func(p Params) float64 { return p.MonthlySavings },
		Set: func(p *Params, v float64) { p.MonthlySavings = v },
	},
	{
		Key: "monthly_om", Label: "Monthly O&M Cost", Unit: "L",
		Min: 0.5, Max: 5, Step: 0.1,
		Get: func(p Params) float64 { return p.MonthlyOM },
		Set: func(p *Params, v float64) { p.MonthlyOM = v },
	},
	{
		Key: "units_per_month", Label: "Units Inspected per Month", Unit: "units",
		Min: 1000, Max: 50000, Step: 500,
		Get: func(p Params) float64 { return p.UnitsPerMonth },
		Set: func(p *Params, v float64) { p.UnitsPerMonth = v },
	},
	{
		Key: "manual_cost_per_unit", Label: "Manual Inspection Cost per Unit", Unit: "Rs",
		Min: 50, Max: 500, Step: 10,
		Get: func(p Params) float64 { return p.ManualCostPerUnit },
		Set: func(p *Params, v float64) { p.ManualCostPerUnit = v },
	},
	{
		Key: "ai_cost_per_unit", Label: "AI System Cost per Unit", Unit: "Rs",
		Min: 10, Max: 100, Step: 5,
		Get: func(p Params) float64 { return p.AICostPerUnit },
		Set: func(p *Params, v float64) { p.AICostPerUnit = v },
	},
}

// Fields returns the adjustable parameters in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// FieldByKey looks up a field by its key.
func FieldByKey(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Clamp limits v to the field range.
func (f Field) Clamp(v float64) float64 {
	return math.Min(f.Max, math.Max(f.Min, v))
}

// Nudge moves the field by dir steps, snapped to the step grid and clamped.
func (f Field) Nudge(p *Params, dir int) {
	v := f.Get(*p) + float64(dir)*f.Step
	// snap away accumulated float error from repeated 0.1 steps
	v = math.Round(v/f.Step) * f.Step
	v = math.Round(v*1e6) / 1e6
	f.Set(p, f.Clamp(v))
}

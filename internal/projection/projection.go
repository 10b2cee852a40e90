// Package projection computes month-by-month break-even series for a flat
// monthly net benefit against an upfront investment.
package projection

import (
	"errors"
	"fmt"
)

// DefaultHorizonMonths is the projection window used when none is configured.
const DefaultHorizonMonths = 36

// ErrInvalidInput is returned when the projection horizon is not positive.
var ErrInvalidInput = errors.New("invalid projection input")

// Input holds the parameters of a single projection.
type Input struct {
	InitialInvestment float64 `json:"initial_investment" toml:"initial_investment" yaml:"initial_investment"`
	MonthlyNetBenefit float64 `json:"monthly_net_benefit" toml:"monthly_net_benefit" yaml:"monthly_net_benefit"`
	HorizonMonths     int     `json:"horizon_months" toml:"horizon_months" yaml:"horizon_months"`
}

// Series is the derived month-by-month projection.
// Index i of each slice holds month i+1.
type Series struct {
	CumulativeSavings []float64 `json:"cumulative_savings"`
	ROIPercent        []float64 `json:"roi_percent"`
	BreakevenMonth    int       `json:"breakeven_month,omitempty"` // 0 when HasBreakeven is false
	HasBreakeven      bool      `json:"has_breakeven"`
}

// MonthValues holds the projection values for one month.
type MonthValues struct {
	Month             int
	CumulativeSavings float64
	ROIPercent        float64
}

// Project computes the cumulative savings and ROI series for in.
func Project(in Input) (Series, error) {
	if in.HorizonMonths <= 0 {
		return Series{}, fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidInput, in.HorizonMonths)
	}

	s := Series{
		CumulativeSavings: make([]float64, in.HorizonMonths),
		ROIPercent:        make([]float64, in.HorizonMonths),
	}

	for m := 1; m <= in.HorizonMonths; m++ {
		cumulative := in.MonthlyNetBenefit*float64(m) - in.InitialInvestment

		roi := 0.0
		if in.InitialInvestment != 0 {
			roi = cumulative / in.InitialInvestment * 100
		}

		s.CumulativeSavings[m-1] = cumulative
		s.ROIPercent[m-1] = roi

		if !s.HasBreakeven && cumulative >= 0 {
			s.HasBreakeven = true
			s.BreakevenMonth = m
		}
	}

	return s, nil
}

// Len returns the number of projected months.
func (s Series) Len() int {
	return len(s.CumulativeSavings)
}

// Month returns the values for 1-indexed month m.
// ok is false when m is outside the horizon.
func (s Series) Month(m int) (MonthValues, bool) {
	if m < 1 || m > s.Len() {
		return MonthValues{}, false
	}
	return MonthValues{
		Month:             m,
		CumulativeSavings: s.CumulativeSavings[m-1],
		ROIPercent:        s.ROIPercent[m-1],
	}, true
}

// Final returns the values for the last projected month.
func (s Series) Final() MonthValues {
	v, _ := s.Month(s.Len())
	return v
}

// Months returns the 1-indexed month numbers of the series.
func (s Series) Months() []int {
	months := make([]int, s.Len())
	for i := range months {
		months[i] = i + 1
	}
	return months
}

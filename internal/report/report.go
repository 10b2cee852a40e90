// Package report assembles a projection and its headline metrics for display
// and export.
package report

import (
	"fmt"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

// Metrics holds the headline figures of a projection.
type Metrics struct {
	MonthlyNetBenefit float64 `json:"monthly_net_benefit"`
	BreakevenLabel    string  `json:"breakeven_label"`
	FinalROIPercent   float64 `json:"final_roi_percent"`
	FinalNetSavings   float64 `json:"final_net_savings"`
	PaybackProgress   float64 `json:"payback_progress"`
}

// Summary bundles everything derived from one set of parameters.
type Summary struct {
	Name      string                   `json:"name,omitempty"`
	Params    costmodel.Params         `json:"params"`
	Input     projection.Input         `json:"input"`
	Series    projection.Series        `json:"series"`
	Metrics   Metrics                  `json:"metrics"`
	Breakdown []costmodel.BreakdownRow `json:"breakdown"`
}

// Build projects p over horizon months.
func Build(p costmodel.Params, horizon int) (Summary, error) {
	in := p.Input(horizon)
	series, err := projection.Project(in)
	if err != nil {
		return Summary{}, err
	}

	final := series.Final()
	return Summary{
		Params: p,
		Input:  in,
		Series: series,
		Metrics: Metrics{
			MonthlyNetBenefit: in.MonthlyNetBenefit,
			BreakevenLabel:    BreakevenLabel(series, horizon),
			FinalROIPercent:   final.ROIPercent,
			FinalNetSavings:   final.CumulativeSavings,
			PaybackProgress:   PaybackProgress(series),
		},
		Breakdown: p.Breakdown(),
	}, nil
}

// BreakevenLabel renders the break-even month, or ">N months" when the
// series never breaks even.
func BreakevenLabel(s projection.Series, horizon int) string {
	if !s.HasBreakeven {
		return fmt.Sprintf(">%d months", horizon)
	}
	return fmt.Sprintf("Month %d", s.BreakevenMonth)
}

// PaybackProgress is the share of the horizon spent before breaking even.
// A series that never breaks even reports 1.
func PaybackProgress(s projection.Series) float64 {
	if s.Len() == 0 || !s.HasBreakeven {
		return 1
	}
	return float64(s.BreakevenMonth) / float64(s.Len())
}

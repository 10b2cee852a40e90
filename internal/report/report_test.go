package report

import (
	"errors"
	"math"
	"testing"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

// seventeenMonthCase nets out to a flat 1.5 per month against 25 invested.
func seventeenMonthCase() costmodel.Params {
	p := costmodel.Defaults()
	p.ManualCostPerUnit = p.AICostPerUnit
	return p
}

func TestBuildSeventeenMonthCase(t *testing.T) {
	s, err := Build(seventeenMonthCase(), 36)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if s.Metrics.MonthlyNetBenefit != 1.5 {
		t.Fatalf("MonthlyNetBenefit = %v, want 1.5", s.Metrics.MonthlyNetBenefit)
	}
	if s.Metrics.BreakevenLabel != "Month 17" {
		t.Fatalf("BreakevenLabel = %q, want Month 17", s.Metrics.BreakevenLabel)
	}
	if s.Metrics.FinalNetSavings != 29 {
		t.Fatalf("FinalNetSavings = %v, want 29", s.Metrics.FinalNetSavings)
	}
	if math.Abs(s.Metrics.FinalROIPercent-116) > 1e-9 {
		t.Fatalf("FinalROIPercent = %v, want 116", s.Metrics.FinalROIPercent)
	}
	if len(s.Breakdown) != 6 {
		t.Fatalf("len(Breakdown) = %d, want 6", len(s.Breakdown))
	}
}

func TestBuildPropagatesInvalidHorizon(t *testing.T) {
	_, err := Build(costmodel.Defaults(), 0)
	if !errors.Is(err, projection.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBreakevenLabelNever(t *testing.T) {
	s, _ := projection.Project(projection.Input{InitialInvestment: 10, HorizonMonths: 12})
	if got := BreakevenLabel(s, 12); got != ">12 months" {
		t.Fatalf("BreakevenLabel = %q, want >12 months", got)
	}
	if got := PaybackProgress(s); got != 1 {
		t.Fatalf("PaybackProgress = %v, want 1", got)
	}
}

func TestPaybackProgress(t *testing.T) {
	s, _ := projection.Project(projection.Input{InitialInvestment: 30, MonthlyNetBenefit: 3, HorizonMonths: 40})
	if got := PaybackProgress(s); got != 0.25 {
		t.Fatalf("PaybackProgress = %v, want 0.25", got)
	}
}

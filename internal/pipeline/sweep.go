package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

// maxGridSize bounds the cartesian product of all axes.
const maxGridSize = 100_000

// ProgressFunc is called as grid points complete.
// current is the number of points evaluated so far, total is the grid size.
type ProgressFunc func(current, total int)

// Row is the outcome of one grid point.
type Row struct {
	Values            map[string]float64
	Params            costmodel.Params
	MonthlyNetBenefit float64
	BreakevenMonth    int
	HasBreakeven      bool
	FinalROIPercent   float64
	FinalNetSavings   float64
}

// Result holds every evaluated grid point in grid order.
type Result struct {
	Axes    []Axis
	Horizon int
	Rows    []Row
}

// Run evaluates base with every combination of axis values, using a bounded
// worker pool. Rows come back in grid order (last axis varies fastest).
func Run(ctx context.Context, base costmodel.Params, horizon int, axes []Axis, progressFn ProgressFunc) (*Result, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", projection.ErrInvalidInput, horizon)
	}

	fields := make([]costmodel.Field, len(axes))
	total := 1
	for i, ax := range axes {
		f, ok := costmodel.FieldByKey(ax.Field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrBadAxis, ax.Field)
		}
		if len(ax.Values) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrBadAxis, ax.Field)
		}
		fields[i] = f
		total *= len(ax.Values)
		if total > maxGridSize {
			return nil, fmt.Errorf("%w: grid exceeds %d points", ErrBadAxis, maxGridSize)
		}
	}

	result := &Result{Axes: axes, Horizon: horizon, Rows: make([]Row, total)}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > total {
		numWorkers = total
	}

	work := make(chan int, total)
	for i := 0; i < total; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64
	errs := make([]error, numWorkers)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(w int) {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				row, err := evaluate(base, horizon, axes, fields, idx)
				if err != nil {
					errs[w] = err
					return
				}
				result.Rows[idx] = row
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), total)
				}
			}
		}(w)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evaluate decodes grid index idx into one value per axis and projects it.
func evaluate(base costmodel.Params, horizon int, axes []Axis, fields []costmodel.Field, idx int) (Row, error) {
	p := base
	values := make(map[string]float64, len(axes))
	for i := len(axes) - 1; i >= 0; i-- {
		n := len(axes[i].Values)
		v := axes[i].Values[idx%n]
		idx /= n
		fields[i].Set(&p, v)
		values[axes[i].Field] = v
	}

	series, err := projection.Project(p.Input(horizon))
	if err != nil {
		return Row{}, err
	}
	final := series.Final()
	return Row{
		Values:            values,
		Params:            p,
		MonthlyNetBenefit: p.MonthlyNetBenefit(),
		BreakevenMonth:    series.BreakevenMonth,
		HasBreakeven:      series.HasBreakeven,
		FinalROIPercent:   final.ROIPercent,
		FinalNetSavings:   final.CumulativeSavings,
	}, nil
}

// SortByBreakeven orders rows by earliest break-even, ties by higher final
// ROI. Rows that never break even go last.
func (r *Result) SortByBreakeven() {
	sort.SliceStable(r.Rows, func(i, j int) bool {
		a, b := r.Rows[i], r.Rows[j]
		if a.HasBreakeven != b.HasBreakeven {
			return a.HasBreakeven
		}
		if a.BreakevenMonth != b.BreakevenMonth {
			return a.BreakevenMonth < b.BreakevenMonth
		}
		return a.FinalROIPercent > b.FinalROIPercent
	})
}

// BreakevenShare returns the fraction of rows that break even.
func (r *Result) BreakevenShare() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	n := 0
	for _, row := range r.Rows {
		if row.HasBreakeven {
			n++
		}
	}
	return float64(n) / float64(len(r.Rows))
}

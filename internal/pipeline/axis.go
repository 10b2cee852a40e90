// Package pipeline evaluates grids of investment scenarios in parallel.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/meshroi/internal/costmodel"
)

// ErrBadAxis is returned for malformed or unknown sweep axes.
var ErrBadAxis = errors.New("bad sweep axis")

// maxAxisValues bounds a single range axis.
const maxAxisValues = 1000

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Field  string
	Values []float64
}

// ParseAxis parses "field=start:end:step" or "field=v1,v2,v3".
func ParseAxis(spec string) (Axis, error) {
	key, rest, ok := strings.Cut(spec, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.TrimSpace(rest) == "" {
		return Axis{}, fmt.Errorf("%w: %q, want field=start:end:step or field=a,b,c", ErrBadAxis, spec)
	}
	if _, known := costmodel.FieldByKey(key); !known {
		return Axis{}, fmt.Errorf("%w: unknown field %q", ErrBadAxis, key)
	}

	if strings.Contains(rest, ":") {
		values, err := parseRange(rest)
		if err != nil {
			return Axis{}, fmt.Errorf("%w: %s: %v", ErrBadAxis, key, err)
		}
		return Axis{Field: key, Values: values}, nil
	}

	var values []float64
	for _, part := range strings.Split(rest, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("%w: %s: %v", ErrBadAxis, key, err)
		}
		if !finite(v) {
			return Axis{}, fmt.Errorf("%w: %s: value %g is not finite", ErrBadAxis, key, v)
		}
		values = append(values, v)
	}
	return Axis{Field: key, Values: values}, nil
}

func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("range %q needs start:end:step", s)
	}

	var nums [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		if !finite(v) {
			return nil, fmt.Errorf("range bound %g is not finite", v)
		}
		nums[i] = v
	}
	start, end, step := nums[0], nums[1], nums[2]
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %g", step)
	}
	if end < start {
		return nil, fmt.Errorf("end %g before start %g", end, start)
	}

	span := (end - start) / step
	if !finite(span) || span >= maxAxisValues {
		return nil, fmt.Errorf("range yields more than %d values", maxAxisValues)
	}
	n := int(math.Floor(span+1e-9)) + 1
	if n > maxAxisValues {
		return nil, fmt.Errorf("range yields %d values, limit %d", n, maxAxisValues)
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = math.Round((start+float64(i)*step)*1e6) / 1e6
	}
	return values, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

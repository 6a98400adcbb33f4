package optim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/openpid/internal/dynamo"
)

// ParseParam parses "name=lo:hi:step" or "name=v1,v2,...".
func ParseParam(s string) (string, []float64, error) {
	name, rhs, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%w: want name=values, got %q", dynamo.ErrParameterBounds, s)
	}

	var (
		values []float64
		err    error
	)
	if strings.Contains(rhs, ":") {
		values, err = ParseRange(rhs)
	} else {
		values, err = parseList(rhs)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", name, err)
	}
	return name, values, nil
}

// maxRangePoints bounds the expansion of a single range.
const maxRangePoints = 10000

// ParseRange expands "lo:hi:step" inclusively. No value exceeds hi; hi itself
// is kept when it is within floating error of a step.
func ParseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: range %q is not lo:hi:step", dynamo.ErrParameterBounds, s)
	}
	vals, err := parseList(strings.Join(parts, ","))
	if err != nil {
		return nil, err
	}
	lo, hi, step := vals[0], vals[1], vals[2]
	if step <= 0 || hi < lo {
		return nil, fmt.Errorf("%w: range %q", dynamo.ErrParameterBounds, s)
	}

	count := math.Floor((hi-lo)/step+1e-9) + 1
	if count > maxRangePoints {
		return nil, fmt.Errorf("%w: range %q expands to more than %d points", dynamo.ErrParameterBounds, s, maxRangePoints)
	}

	out := make([]float64, int(count))
	for i := range out {
		out[i] = math.Min(lo+float64(i)*step, hi)
	}
	return out, nil
}

func parseList(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dynamo.ErrParameterBounds, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q is not finite", dynamo.ErrParameterBounds, f)
		}
		out = append(out, v)
	}
	return out, nil
}

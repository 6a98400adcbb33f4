package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
	"github.com/san-kum/openpid/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no grid point produced the metric")

// GridSearch evaluates every combination of named parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters, %d ranges", dynamo.ErrParameterBounds, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", dynamo.ErrParameterBounds, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var points []map[string]float64
	g.collect(0, make(map[string]float64), &points)
	return points
}

func (g *GridSearch) collect(depth int, current map[string]float64, points *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*points = append(*points, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.collect(depth+1, newParams, points)
	}
}

// Search runs one job per grid point on the batch runner and returns the
// point minimising metricName, followed by every evaluated candidate in grid
// order. Points that fail to build, abort, or lack the metric are kept with
// their error and never win. Ties go to the earlier point.
func (g *GridSearch) Search(
	ctx context.Context,
	buildJob func(params map[string]float64) (sim.Job, error),
	metricName string,
	workers int,
) (Candidate, []Candidate, error) {
	points := g.Points()
	candidates := make([]Candidate, len(points))
	jobs := make([]sim.Job, 0, len(points))
	slots := make([]int, 0, len(points))

	for i, p := range points {
		candidates[i] = Candidate{Params: p, Value: math.NaN()}
		job, err := buildJob(p)
		if err != nil {
			candidates[i].Err = err
			continue
		}
		jobs = append(jobs, job)
		slots = append(slots, i)
	}

	outcomes, err := sim.RunBatch(ctx, jobs, workers)
	if err != nil {
		return Candidate{}, candidates, err
	}

	best := -1
	for j, o := range outcomes {
		c := &candidates[slots[j]]
		if o.Err != nil {
			c.Err = o.Err
			continue
		}
		val, ok := o.Result.Metrics[metricName]
		if !ok {
			c.Err = fmt.Errorf("optim: metric %q not recorded", metricName)
			continue
		}
		c.Value = val
		if math.IsNaN(val) {
			continue
		}
		if best < 0 || val < candidates[best].Value {
			best = slots[j]
		}
	}

	if best < 0 {
		return Candidate{}, candidates, ErrNoCandidate
	}
	return candidates[best], candidates, nil
}

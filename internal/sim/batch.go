package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/openpid/internal/dynamo"
)

// Job builds a fresh simulator so that no plant or controller is shared
// between goroutines.
type Job struct {
	Name   string
	Build  func() (*Simulator, error)
	Config dynamo.Config
}

type Outcome struct {
	Name   string
	Result *dynamo.Result
	Err    error
}

// RunBatch runs independent jobs on at most workers goroutines and returns
// outcomes in job order. A failing job does not stop the others; only
// cancellation of ctx does.
func RunBatch(ctx context.Context, jobs []Job, workers int) ([]Outcome, error) {
	out := make([]Outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, job := range jobs {
		g.Go(func() error {
			out[i].Name = job.Name
			s, err := job.Build()
			if err != nil {
				out[i].Err = err
				return nil
			}
			out[i].Result, out[i].Err = s.Run(ctx, job.Config)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

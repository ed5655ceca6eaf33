package propagation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitprop/internal/orbit"
)

// Job is one propagation of a batch.
type Job struct {
	Name      string
	Kind      string
	Options   Options
	Initial   orbit.State
	FinalTime float64
	StepSize  float64
}

// Result pairs a job with its engine. Err is the configure or propagate
// failure, if any; the engine's history holds whatever was produced.
type Result struct {
	Job    Job
	Engine *Engine
	Err    error
}

// RunBatch propagates jobs concurrently, at most limit at a time (limit <= 0
// means no limit). Results are returned in job order. A failing job does not
// stop the others; cancelling ctx does.
func RunBatch(ctx context.Context, jobs []Job, limit int) []Result {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		results[i].Job = job
		g.Go(func() error {
			results[i].Engine, results[i].Err = runJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func runJob(ctx context.Context, job Job) (*Engine, error) {
	e, err := New(job.Kind, job.Options)
	if err != nil {
		return nil, err
	}
	if err := e.Configure(job.Initial, job.FinalTime, job.StepSize); err != nil {
		return e, fmt.Errorf("%s: %w", job.Name, err)
	}
	if err := e.Propagate(ctx); err != nil {
		return e, fmt.Errorf("%s: %w", job.Name, err)
	}
	return e, nil
}

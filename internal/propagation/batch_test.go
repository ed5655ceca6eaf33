package propagation

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

func TestRunBatch(t *testing.T) {
	s, period := eccentricState(t)
	step := period / 100

	jobs := []Job{
		{Name: "universal", Kind: KindUniversal, Options: DefaultOptions(), Initial: s, FinalTime: period, StepSize: step},
		{Name: "classical", Kind: KindClassical, Options: DefaultOptions(), Initial: s, FinalTime: period, StepSize: step},
		{Name: "bad-kind", Kind: "rk4", Options: DefaultOptions(), Initial: s, FinalTime: period, StepSize: step},
		{Name: "bad-step", Kind: KindUniversal, Options: DefaultOptions(), Initial: s, FinalTime: period, StepSize: -1},
	}
	results := RunBatch(context.Background(), jobs, 2)
	if len(results) != len(jobs) {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.Job.Name != jobs[i].Name {
			t.Errorf("result %d out of order: %s", i, r.Job.Name)
		}
	}

	for _, r := range results[:2] {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Job.Name, r.Err)
		}
		if r.Engine.Phase() != Propagated || r.Engine.History().Len() != 101 {
			t.Errorf("%s: phase %s len %d", r.Job.Name, r.Engine.Phase(), r.Engine.History().Len())
		}
	}
	a, b := results[0].Engine.History().Last(), results[1].Engine.History().Last()
	if d := md3.Norm(md3.Sub(a.Position, b.Position)); d > 1e-3 {
		t.Errorf("strategies disagree by %v m", d)
	}

	if results[2].Engine != nil || !errors.Is(results[2].Err, orbit.ErrInvalidArgument) {
		t.Errorf("bad kind: %v", results[2].Err)
	}
	if !errors.Is(results[3].Err, orbit.ErrInvalidArgument) || results[3].Engine.Phase() != Unconfigured {
		t.Errorf("bad step: %v", results[3].Err)
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	s, period := eccentricState(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunBatch(ctx, []Job{
		{Name: "a", Kind: KindUniversal, Options: DefaultOptions(), Initial: s, FinalTime: period, StepSize: period / 10},
	}, 0)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("err = %v", results[0].Err)
	}
	if n := results[0].Engine.History().Len(); n != 1 {
		t.Errorf("history len = %d, want the initial sample only", n)
	}
}

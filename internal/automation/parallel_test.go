package automation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 50} {
		out := make([]int, 20)
		err := forEach(context.Background(), len(out), workers, func(_ context.Context, i int) error {
			out[i] = i * i
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i, v := range out {
			if v != i*i {
				t.Errorf("workers=%d: out[%d] = %d", workers, i, v)
			}
		}
	}
}

func TestForEachStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	err := forEach(context.Background(), 1000, 2, func(ctx context.Context, i int) error {
		calls.Add(1)
		if i == 3 {
			return boom
		}
		return ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls.Load() == 1000 {
		t.Error("remaining indices should be skipped after an error")
	}
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := forEach(ctx, 10, 4, func(ctx context.Context, i int) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSweepParallelMatchesSequential(t *testing.T) {
	sweep := &ParameterSweep{
		Preset:    "fountain",
		ParamName: "spawn.rate",
		ParamMin:  60,
		ParamMax:  600,
		NumSteps:  4,
		Frames:    6,
	}
	seq, err := RunSweep(context.Background(), sweep, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	par, err := RunSweep(context.Background(), sweep, Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Errorf("value %d differs: %+v vs %+v", i, seq[i], par[i])
		}
	}
}

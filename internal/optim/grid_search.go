// Package optim searches configuration parameters for the values that best
// satisfy a metric objective.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
)

// GridSearch evaluates every combination of the candidate values for each
// named parameter.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: need one value list per parameter", config.ErrInvalidConfig)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", config.ErrInvalidConfig, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Objective selects the metric to optimise.
type Objective struct {
	Metric   string
	Maximize bool
	Frames   int
}

// Result is the best combination found.
type Result struct {
	Params      map[string]float64
	Value       float64
	Evaluations int
}

// Search runs base once per combination. Combinations that fail to
// validate or go unstable are skipped; the search fails only when none
// succeed.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, obj Objective, logger *log.Logger) (Result, error) {
	for _, name := range g.paramNames {
		if _, err := base.Param(name); err != nil {
			return Result{}, err
		}
	}

	best := Result{Value: math.Inf(1)}
	if obj.Maximize {
		best.Value = math.Inf(-1)
	}

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}
		rec, _, err := automation.Execute(ctx, cfg, obj.Frames, nil, logger)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if logger != nil {
				logger.Debug("skipping combination", "params", params, "err", err)
			}
			return nil
		}
		val, ok := rec.Final()[obj.Metric]
		if !ok {
			return fmt.Errorf("unknown metric %q", obj.Metric)
		}
		if math.IsNaN(val) {
			return nil
		}
		best.Evaluations++
		if (obj.Maximize && val > best.Value) || (!obj.Maximize && val < best.Value) {
			best.Value = val
			best.Params = make(map[string]float64, len(params))
			for k, v := range params {
				best.Params[k] = v
			}
		}
		return nil
	})
	if err != nil {
		return best, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("no combination completed")
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no grid point produced a finite score")

// Build returns a runner configured with one grid point.
type Build func(params map[string]float64) (*sim.Runner, error)

// Candidate is one evaluated grid point. Failed points score +Inf.
type Candidate struct {
	Params map[string]float64
	Score  float64
	Result *sim.Result
	Err    error
}

// GridSearch evaluates every combination of the given parameter values
// and keeps the lowest score.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("optim: no parameters to search")
	}
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		g.collect(depth+1, next, out)
	}
}

// Search flies every grid point concurrently and returns the best
// candidate along with all of them in grid order.
func (g *GridSearch) Search(ctx context.Context, build Build, cfg dynamo.Config, objective Objective) (Candidate, []Candidate, error) {
	points := g.Points()
	candidates := make([]Candidate, len(points))

	batch := sim.NewBatch()
	slots := make([]int, 0, len(points))
	for i, p := range points {
		candidates[i] = Candidate{Params: p, Score: math.Inf(1)}
		r, err := build(p)
		if err != nil {
			candidates[i].Err = err
			continue
		}
		batch.Add(r)
		slots = append(slots, i)
	}

	results, err := batch.Run(ctx, cfg)
	if err != nil && (results == nil || ctx.Err() != nil) {
		return Candidate{}, candidates, err
	}

	best := -1
	for j, idx := range slots {
		c := &candidates[idx]
		c.Result = results[j]
		if c.Result == nil {
			c.Err = errors.New("optim: run produced no result")
			continue
		}
		if c.Result.Err != nil {
			c.Err = c.Result.Err
			continue
		}
		c.Score = objective(c.Result)
		if math.IsNaN(c.Score) {
			c.Score = math.Inf(1)
		}
		if !math.IsInf(c.Score, 1) && (best < 0 || c.Score < candidates[best].Score) {
			best = idx
		}
	}

	if best < 0 {
		return Candidate{}, candidates, ErrNoCandidate
	}
	return candidates[best], candidates, nil
}

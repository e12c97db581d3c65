package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/vehicle"
)

var gainNames = []string{"pitch.Kp", "pitch.Ki", "pitch.Kd", "yaw.Kp", "yaw.Ki", "yaw.Kd"}

// scaledGains builds a TVC runner with every loop gain set to params["gain"].
func scaledGains(t *testing.T) Build {
	t.Helper()
	m, err := vehicle.Preset("pathfinder")
	if err != nil {
		t.Fatal(err)
	}
	return func(params map[string]float64) (*sim.Runner, error) {
		gain := params["gain"]
		if gain < 0 {
			return nil, fmt.Errorf("negative gain %f", gain)
		}
		ctrl := control.NewTVCController(m)
		for _, name := range gainNames {
			if err := ctrl.SetParam(name, gain); err != nil {
				return nil, err
			}
		}
		return sim.New(m, ctrl, sim.WithMetric(metrics.NewControlEffort())), nil
	}
}

func shortFlight() dynamo.Config {
	return dynamo.Config{Dt: 0.01, MaxTime: 20}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch(nil, nil); err == nil {
		t.Error("expected error for no parameters")
	}
	if _, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"a"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2}, {10, 20, 30}})
	if err != nil {
		t.Fatal(err)
	}
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["a"] != 1 || points[0]["b"] != 10 {
		t.Errorf("unexpected first point %v", points[0])
	}
	if points[1]["a"] != 1 || points[1]["b"] != 20 {
		t.Errorf("expected last parameter to vary fastest, got %v", points[1])
	}
	if points[5]["a"] != 2 || points[5]["b"] != 30 {
		t.Errorf("unexpected last point %v", points[5])
	}
}

func TestSearchPicksLowestEffort(t *testing.T) {
	g, err := NewGridSearch([]string{"gain"}, [][]float64{{1, 0, -1}})
	if err != nil {
		t.Fatal(err)
	}

	best, all, err := g.Search(context.Background(), scaledGains(t), shortFlight(), MinEffort)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best.Params["gain"] != 0 {
		t.Errorf("expected zero gain to win, got %v", best.Params)
	}
	if best.Score != 0 {
		t.Errorf("expected zero effort, got %f", best.Score)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(all))
	}
	if all[0].Score <= 0 || math.IsInf(all[0].Score, 1) {
		t.Errorf("expected a finite positive effort for gain 1, got %f", all[0].Score)
	}
	if all[2].Err == nil || !math.IsInf(all[2].Score, 1) {
		t.Errorf("expected failed build to score +Inf, got %+v", all[2])
	}
	if all[1].Result == nil || all[1].Result.StepsTaken == 0 {
		t.Error("expected the winning candidate to carry its result")
	}
}

func TestSearchNoCandidate(t *testing.T) {
	g, err := NewGridSearch([]string{"gain"}, [][]float64{{-1, -2}})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = g.Search(context.Background(), scaledGains(t), shortFlight(), MinEffort)
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestSearchInvalidConfig(t *testing.T) {
	g, err := NewGridSearch([]string{"gain"}, [][]float64{{0}})
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = g.Search(context.Background(), scaledGains(t), dynamo.Config{Dt: -1, MaxTime: 1}, MinEffort)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestObjectives(t *testing.T) {
	for _, name := range ObjectiveNames() {
		if _, err := ObjectiveByName(name); err != nil {
			t.Errorf("objective %s: %v", name, err)
		}
	}
	if _, err := ObjectiveByName("nope"); err == nil {
		t.Error("expected error for unknown objective")
	}

	r := &sim.Result{Metrics: map[string]float64{}}
	if !math.IsInf(MinEffort(r), 1) {
		t.Error("missing effort metric should score +Inf")
	}
}

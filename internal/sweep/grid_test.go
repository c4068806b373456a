package sweep

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	grid := NewGrid(
		[]string{"x", "y"},
		[][]float64{
			{-2, -1, 0, 1, 2},
			{-1, 0, 1, 3},
		},
	)

	best, value, err := grid.Search(context.Background(), func(knobs map[string]float64) (float64, error) {
		dx := knobs["x"] - 1
		dy := knobs["y"] + 1
		return dx*dx + dy*dy, nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if best["x"] != 1 || best["y"] != -1 {
		t.Errorf("expected minimum at (1,-1), got %v", best)
	}
	if value != 0 {
		t.Errorf("expected objective 0, got %v", value)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	grid := NewGrid([]string{"x"}, [][]float64{{1, 2, 3}})

	best, value, err := grid.Search(context.Background(), func(knobs map[string]float64) (float64, error) {
		if knobs["x"] == 1 {
			return 0, errors.New("diverged")
		}
		return knobs["x"], nil
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if best["x"] != 2 || value != 2 {
		t.Errorf("expected best x=2 after skipping failure, got %v (%v)", best, value)
	}
}

func TestGridSearchCanceled(t *testing.T) {
	grid := NewGrid([]string{"x"}, [][]float64{{1, 2, 3}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := grid.Search(ctx, func(map[string]float64) (float64, error) {
		return 0, nil
	})
	if err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestGridSearchNoFinitePoint(t *testing.T) {
	grid := NewGrid([]string{"x"}, [][]float64{{1}})

	best, value, err := grid.Search(context.Background(), func(map[string]float64) (float64, error) {
		return 0, errors.New("always diverges")
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != nil || !math.IsInf(value, 1) {
		t.Errorf("expected no winner, got %v (%v)", best, value)
	}
}

package sweep

import (
	"context"
	"math"
)

// Grid enumerates the cartesian product of candidate values for a set
// of named knobs (model constants, forcing amplitudes) and keeps the
// assignment minimizing an objective computed from a full run.
type Grid struct {
	names  []string
	ranges [][]float64
}

func NewGrid(names []string, ranges [][]float64) *Grid {
	return &Grid{names: names, ranges: ranges}
}

// Search runs the objective for every grid point. The objective
// receives the knob assignment and typically builds a param batch,
// runs the simulation and returns a metric to minimize.
func (g *Grid) Search(
	ctx context.Context,
	objective func(knobs map[string]float64) (float64, error),
) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestKnobs map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestKnobs)
	if err != nil {
		return nil, 0, err
	}

	return bestKnobs, best, nil
}

func (g *Grid) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective func(map[string]float64) (float64, error),
	best *float64,
	bestKnobs *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.names) {
		value, err := objective(current)
		if err != nil {
			// A diverging grid point is information, not a failure.
			return nil
		}
		if value < *best {
			*best = value
			snapshot := make(map[string]float64, len(current))
			for k, v := range current {
				snapshot[k] = v
			}
			*bestKnobs = snapshot
		}
		return nil
	}

	for _, v := range g.ranges[depth] {
		current[g.names[depth]] = v
		if err := g.searchRecursive(ctx, depth+1, current, objective, best, bestKnobs); err != nil {
			return err
		}
	}
	delete(current, g.names[depth])
	return nil
}

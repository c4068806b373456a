package analysis

import "github.com/oscillab/crvdo/internal/dynamo"

// PhasePortrait2D holds one oscillator's trajectory projected onto two
// state components.
type PhasePortrait2D struct {
	Oscillator     int
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortrait projects a recorded history onto components (xIdx, yIdx)
// of oscillator osc. The conventional view is z1 against z3.
func PhasePortrait(states []dynamo.StateBatch, osc, xIdx, yIdx int) *PhasePortrait2D {
	if len(states) == 0 || osc >= len(states[0]) ||
		xIdx >= dynamo.StateDim || yIdx >= dynamo.StateDim {
		return nil
	}

	portrait := &PhasePortrait2D{
		Oscillator: osc,
		XIndex:     xIdx,
		YIndex:     yIdx,
		Points:     make([]struct{ X, Y float64 }, 0, len(states)),
	}

	for _, batch := range states {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: batch[osc][xIdx],
			Y: batch[osc][yIdx],
		})
	}

	return portrait
}
